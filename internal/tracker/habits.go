package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/storage"
)

// CreateHabit stores a new habit with zeroed statistics and schedules its
// reminder. A missing ID is generated.
func (s *Service) CreateHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	now, err := s.Now()
	if err != nil {
		return models.Habit{}, err
	}

	h.Name = normalizeName(h.Name)
	h.Category = defaultCategory(h.Category)
	if h.ID == "" {
		h.ID = newID()
	}
	h.CreatedAt = now
	h.UpdatedAt = now
	h.ArchivedAt = nil
	h.DeletedAt = nil

	if err := h.Validate(); err != nil {
		return models.Habit{}, fmt.Errorf("invalid habit: %w", err)
	}
	if err := s.ensureNameFree(h.Name, h.ID); err != nil {
		return models.Habit{}, err
	}

	if err := s.store.AddHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	if err := s.store.SaveHabitStatistics(stats.Empty(h.ID)); err != nil {
		return h, fmt.Errorf("failed to create statistics for %s: %w", h.Name, err)
	}
	logger.Info("Habit created", "id", h.ID, "name", h.Name)

	return h, s.replan(ctx, h)
}

// UpdateHabit saves changes to a live habit and re-plans its reminder.
func (s *Service) UpdateHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	existing, err := s.store.GetHabit(h.ID)
	if err != nil {
		return models.Habit{}, err
	}
	now, err := s.Now()
	if err != nil {
		return models.Habit{}, err
	}

	h.Name = normalizeName(h.Name)
	h.Category = defaultCategory(h.Category)
	h.CreatedAt = existing.CreatedAt
	h.ArchivedAt = existing.ArchivedAt
	h.DeletedAt = existing.DeletedAt
	h.UpdatedAt = now

	if err := h.Validate(); err != nil {
		return models.Habit{}, fmt.Errorf("invalid habit: %w", err)
	}
	if h.Name != existing.Name {
		if err := s.ensureNameFree(h.Name, h.ID); err != nil {
			return models.Habit{}, err
		}
	}

	if err := s.store.UpdateHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	logger.Info("Habit updated", "id", h.ID)

	return h, s.replan(ctx, h)
}

// DeleteHabit soft-deletes a habit, destroys its statistics and cancels its
// reminder. Logs are kept so RestoreHabit can rebuild the statistics.
func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	lock := s.habitLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.DeleteHabit(id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := s.store.DeleteHabitStatistics(id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete statistics: %w", err)
	}
	logger.Info("Habit deleted", "id", id)

	return s.dropReminder(ctx, id)
}

// ArchiveHabit hides a habit from tracking and cancels its reminder.
func (s *Service) ArchiveHabit(ctx context.Context, id string) error {
	if err := s.store.ArchiveHabit(id); err != nil {
		return fmt.Errorf("failed to archive habit: %w", err)
	}
	logger.Info("Habit archived", "id", id)
	return s.dropReminder(ctx, id)
}

func (s *Service) UnarchiveHabit(ctx context.Context, id string) error {
	if err := s.store.UnarchiveHabit(id); err != nil {
		return fmt.Errorf("failed to unarchive habit: %w", err)
	}
	h, err := s.store.GetHabit(id)
	if err != nil {
		return err
	}
	logger.Info("Habit unarchived", "id", id)
	return s.replan(ctx, h)
}

// RestoreHabit undoes a soft delete and recomputes statistics from the
// surviving logs.
func (s *Service) RestoreHabit(ctx context.Context, id string) (models.Habit, error) {
	if err := s.store.RestoreHabit(id); err != nil {
		return models.Habit{}, fmt.Errorf("failed to restore habit: %w", err)
	}
	h, err := s.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}
	if _, err := s.RefreshStatistics(ctx, id); err != nil {
		return h, err
	}
	logger.Info("Habit restored", "id", id)
	return h, s.replan(ctx, h)
}

// ListHabits returns live habits, optionally including archived ones.
func (s *Service) ListHabits(includeArchived bool) ([]models.Habit, error) {
	return s.store.GetAllHabits(includeArchived, false)
}

func (s *Service) ensureNameFree(name, id string) error {
	other, err := s.store.GetHabitByName(name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != id:
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	return nil
}

// replan re-submits one habit's reminder and the persistent series.
func (s *Service) replan(ctx context.Context, h models.Habit) error {
	return schedulingError(errors.Join(
		s.rescheduleHabit(ctx, h),
		s.reschedulePersistentSeries(ctx),
	))
}

func (s *Service) dropReminder(ctx context.Context, id string) error {
	return schedulingError(errors.Join(
		s.notifier.Cancel(ctx, id),
		s.reschedulePersistentSeries(ctx),
	))
}
