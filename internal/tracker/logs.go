package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// LogHabit records the outcome of a habit on date (today when empty). An
// existing log for that day is updated in place. Statistics are recomputed
// only after the store has confirmed the write.
func (s *Service) LogHabit(ctx context.Context, habitID, date string, status models.LogStatus, notes string) (models.HabitLog, models.HabitStatistics, error) {
	if err := ctx.Err(); err != nil {
		return models.HabitLog{}, models.HabitStatistics{}, err
	}
	if _, err := s.store.GetHabit(habitID); err != nil {
		return models.HabitLog{}, models.HabitStatistics{}, err
	}

	now, err := s.Now()
	if err != nil {
		return models.HabitLog{}, models.HabitStatistics{}, err
	}
	if date == "" {
		date = utils.FormatDate(now)
	}

	entry := models.HabitLog{
		ID:        newID(),
		HabitID:   habitID,
		Date:      date,
		Status:    status,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entry.Validate(); err != nil {
		return models.HabitLog{}, models.HabitStatistics{}, fmt.Errorf("invalid log: %w", err)
	}

	lock := s.habitLock(habitID)
	lock.Lock()
	defer lock.Unlock()

	saved, err := s.store.UpsertHabitLog(entry)
	if err != nil {
		return models.HabitLog{}, models.HabitStatistics{}, fmt.Errorf("failed to save log: %w", err)
	}
	logger.Info("Habit logged", "habit", habitID, "date", date, "status", status)

	st, err := s.recompute(habitID, now)
	if err != nil {
		return saved, models.HabitStatistics{}, err
	}

	// A log for today may complete the day and end the evening series.
	if date == utils.FormatDate(now) {
		if err := s.reschedulePersistentSeries(ctx); err != nil {
			return saved, st, schedulingError(err)
		}
	}
	return saved, st, nil
}

// UnlogHabit removes the log for habitID on date (today when empty).
func (s *Service) UnlogHabit(ctx context.Context, habitID, date string) (models.HabitStatistics, error) {
	now, err := s.Now()
	if err != nil {
		return models.HabitStatistics{}, err
	}
	if date == "" {
		date = utils.FormatDate(now)
	}

	lock := s.habitLock(habitID)
	lock.Lock()
	defer lock.Unlock()

	entry, err := s.store.GetHabitLog(habitID, date)
	if err != nil {
		return models.HabitStatistics{}, err
	}
	if err := s.store.DeleteHabitLog(entry.ID); err != nil {
		return models.HabitStatistics{}, fmt.Errorf("failed to delete log: %w", err)
	}
	logger.Info("Habit log removed", "habit", habitID, "date", date)

	st, err := s.recompute(habitID, now)
	if err != nil {
		return models.HabitStatistics{}, err
	}
	if date == utils.FormatDate(now) {
		if err := s.reschedulePersistentSeries(ctx); err != nil {
			return st, schedulingError(err)
		}
	}
	return st, nil
}

// History returns a habit's logs, newest first.
func (s *Service) History(habitID string) ([]models.HabitLog, error) {
	logs, err := s.store.GetHabitLogsForHabit(habitID)
	if err != nil {
		return nil, err
	}
	stats.SortNewestFirst(logs)
	return logs, nil
}

// RefreshStatistics recomputes one habit's statistics from its full log.
func (s *Service) RefreshStatistics(ctx context.Context, habitID string) (models.HabitStatistics, error) {
	if err := ctx.Err(); err != nil {
		return models.HabitStatistics{}, err
	}
	now, err := s.Now()
	if err != nil {
		return models.HabitStatistics{}, err
	}

	lock := s.habitLock(habitID)
	lock.Lock()
	defer lock.Unlock()

	return s.recompute(habitID, now)
}

// RefreshAllStatistics recomputes every live habit, archived ones included.
// Streaks decay with the calendar, so this runs once per day.
func (s *Service) RefreshAllStatistics(ctx context.Context) error {
	habits, err := s.store.GetAllHabits(true, false)
	if err != nil {
		return err
	}
	var errs []error
	for _, h := range habits {
		if _, err := s.RefreshStatistics(ctx, h.ID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Statistics returns a habit's stored statistics.
func (s *Service) Statistics(habitID string) (models.HabitStatistics, error) {
	st, err := s.store.GetHabitStatistics(habitID)
	if errors.Is(err, storage.ErrNotFound) {
		return stats.Empty(habitID), nil
	}
	return st, err
}

// recompute must be called with the habit's lock held.
func (s *Service) recompute(habitID string, now time.Time) (models.HabitStatistics, error) {
	logs, err := s.store.GetHabitLogsForHabit(habitID)
	if err != nil {
		return models.HabitStatistics{}, fmt.Errorf("failed to read logs: %w", err)
	}

	previousLongest := 0
	prev, err := s.store.GetHabitStatistics(habitID)
	switch {
	case err == nil:
		previousLongest = prev.LongestStreak
	case !errors.Is(err, storage.ErrNotFound):
		return models.HabitStatistics{}, fmt.Errorf("failed to read statistics: %w", err)
	}

	st := stats.Recompute(habitID, logs, previousLongest, now)
	if err := s.store.SaveHabitStatistics(st); err != nil {
		return models.HabitStatistics{}, fmt.Errorf("failed to save statistics: %w", err)
	}
	logger.Debug("Statistics recomputed", "habit", habitID, "current", st.CurrentStreak, "longest", st.LongestStreak)
	return st, nil
}
