package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/scheduler"
	"github.com/julianstephens/habitual/internal/utils"
)

// RescheduleHabit cancels a habit's reminder and submits the newly planned one.
func (s *Service) RescheduleHabit(ctx context.Context, habitID string) error {
	h, err := s.store.GetHabit(habitID)
	if err != nil {
		return err
	}
	return schedulingError(s.rescheduleHabit(ctx, h))
}

// ReschedulePersistentSeries cancels the evening series and submits a fresh one.
func (s *Service) ReschedulePersistentSeries(ctx context.Context) error {
	return schedulingError(s.reschedulePersistentSeries(ctx))
}

// RescheduleAll clears the notifier and re-plans every reminder. Nothing is
// submitted when notifications are disabled.
func (s *Service) RescheduleAll(ctx context.Context) error {
	settings, err := s.Settings()
	if err != nil {
		return err
	}
	now, err := s.nowIn(settings)
	if err != nil {
		return err
	}
	return s.rescheduleAllFrom(ctx, settings, now)
}

// Rollover starts a new day: statistics are re-evaluated against today and
// every reminder is planned again from midnight, so reminders earlier today
// are left for the dispatcher's grace period to deliver or drop. Today is
// recorded as planned only when both steps succeed.
func (s *Service) Rollover(ctx context.Context) error {
	settings, err := s.Settings()
	if err != nil {
		return err
	}
	now, err := s.nowIn(settings)
	if err != nil {
		return err
	}
	today := utils.FormatDate(now)

	var errs []error
	if err := s.RefreshAllStatistics(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to refresh statistics: %w", err))
	}
	if err := s.rescheduleAllFrom(ctx, settings, utils.StartOfDay(now)); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	// re-read so a concurrent settings change is not overwritten
	current, err := s.Settings()
	if err != nil {
		return err
	}
	current.LastPlannedDate = today
	if err := s.store.SaveSettings(current); err != nil {
		return fmt.Errorf("failed to record planned date: %w", err)
	}
	logger.Info("Day rolled over", "date", today)
	return nil
}

// EnsurePlanned runs Rollover when today has not been planned yet. It
// reports whether a rollover happened.
func (s *Service) EnsurePlanned(ctx context.Context) (bool, error) {
	settings, err := s.Settings()
	if err != nil {
		return false, err
	}
	now, err := s.nowIn(settings)
	if err != nil {
		return false, err
	}
	if settings.LastPlannedDate == utils.FormatDate(now) {
		return false, nil
	}
	return true, s.Rollover(ctx)
}

func (s *Service) rescheduleAllFrom(ctx context.Context, settings models.Settings, now time.Time) error {
	if err := s.notifier.CancelAll(ctx); err != nil {
		return schedulingError(err)
	}
	if !settings.NotificationsEnabled {
		logger.Debug("Notifications disabled, schedule cleared")
		return nil
	}

	habits, err := s.store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	var errs []error
	for _, h := range habits {
		at, ok := s.planner.PlanHabitReminder(h, now)
		if !ok {
			continue
		}
		if err := s.notifier.Schedule(ctx, s.planner.HabitReminderTrigger(h, at)); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, s.submitSeries(ctx, settings, now))
	return schedulingError(errors.Join(errs...))
}

// UpdateSettings validates and saves settings, then re-plans the whole schedule.
func (s *Service) UpdateSettings(ctx context.Context, settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := s.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	logger.Info("Settings updated", "notifications", settings.NotificationsEnabled,
		"start", settings.NotificationStartTime, "interval", settings.NotificationIntervalMin)
	return s.RescheduleAll(ctx)
}

// Plan returns what RescheduleAll would submit, without touching the notifier.
func (s *Service) Plan() ([]models.Trigger, error) {
	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}
	now, err := s.nowIn(settings)
	if err != nil {
		return nil, err
	}

	habits, err := s.store.GetAllHabits(false, false)
	if err != nil {
		return nil, err
	}
	var triggers []models.Trigger
	for _, h := range habits {
		if at, ok := s.planner.PlanHabitReminder(h, now); ok {
			triggers = append(triggers, s.planner.HabitReminderTrigger(h, at))
		}
	}

	series, err := s.planSeries(settings, now)
	if err != nil {
		return nil, err
	}
	triggers = append(triggers, series...)
	sort.SliceStable(triggers, func(i, j int) bool { return triggers[i].At.Before(triggers[j].At) })
	return triggers, nil
}

func (s *Service) rescheduleHabit(ctx context.Context, h models.Habit) error {
	if err := s.notifier.Cancel(ctx, h.ID); err != nil {
		return err
	}

	settings, err := s.Settings()
	if err != nil {
		return err
	}
	if !settings.NotificationsEnabled {
		return nil
	}
	now, err := s.nowIn(settings)
	if err != nil {
		return err
	}

	at, ok := s.planner.PlanHabitReminder(h, now)
	if !ok {
		return nil
	}
	logger.Debug("Scheduling habit reminder", "habit", h.ID, "at", at)
	return s.notifier.Schedule(ctx, s.planner.HabitReminderTrigger(h, at))
}

func (s *Service) reschedulePersistentSeries(ctx context.Context) error {
	if err := s.cancelSeries(ctx); err != nil {
		return err
	}

	settings, err := s.Settings()
	if err != nil {
		return err
	}
	if !settings.NotificationsEnabled {
		return nil
	}
	now, err := s.nowIn(settings)
	if err != nil {
		return err
	}
	return s.submitSeries(ctx, settings, now)
}

func (s *Service) cancelSeries(ctx context.Context) error {
	if tc, ok := s.notifier.(notifier.TagCanceler); ok {
		return tc.CancelTag(ctx, constants.PersistentReminderTag)
	}
	for _, id := range scheduler.PersistentSeriesIDs() {
		if err := s.notifier.Cancel(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) submitSeries(ctx context.Context, settings models.Settings, now time.Time) error {
	triggers, err := s.planSeries(settings, now)
	if err != nil {
		return err
	}
	for _, t := range triggers {
		if err := s.notifier.Schedule(ctx, t); err != nil {
			return err
		}
	}
	logger.Debug("Persistent series scheduled", "count", len(triggers))
	return nil
}

func (s *Service) planSeries(settings models.Settings, now time.Time) ([]models.Trigger, error) {
	if !settings.NotificationsEnabled {
		return nil, nil
	}
	habits, err := s.store.GetAllHabits(false, false)
	if err != nil {
		return nil, err
	}
	todaysLogs, err := s.store.GetHabitLogsForDay(utils.FormatDate(now))
	if err != nil {
		return nil, err
	}
	return s.planner.PlanPersistentSeries(settings.NotificationStartTime, settings.NotificationIntervalMin, todaysLogs, habits, now)
}
