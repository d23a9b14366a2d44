// Package tracker is the caller layer around the statistics engine and the
// reminder planner. It reads snapshots from the store, invokes the pure core,
// writes the results back and keeps the notifier's schedule in step.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/scheduler"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	// ErrDuplicateName is returned when a live habit already uses the name.
	ErrDuplicateName = errors.New("a habit with this name already exists")
	// ErrScheduling wraps notifier failures that happen after the store write
	// succeeded. The mutation itself is kept.
	ErrScheduling = errors.New("reminder scheduling failed")
)

type Service struct {
	store    storage.Provider
	notifier notifier.Notifier
	planner  *scheduler.Scheduler
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(store storage.Provider, n notifier.Notifier) *Service {
	return &Service{
		store:    store,
		notifier: n,
		planner:  scheduler.New(),
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// WithClock replaces the wall clock, for tests and dry runs.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Store() storage.Provider {
	return s.store
}

// habitLock returns the mutex serializing writes and recomputation for one habit.
func (s *Service) habitLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Settings returns the stored settings, or the defaults when none are saved.
func (s *Service) Settings() (models.Settings, error) {
	settings, err := s.store.GetSettings()
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	return settings, err
}

// Now returns the current time in the configured timezone. Day boundaries
// for logs, streaks and reminders all come from this value.
func (s *Service) Now() (time.Time, error) {
	settings, err := s.Settings()
	if err != nil {
		return time.Time{}, err
	}
	return s.nowIn(settings)
}

func (s *Service) nowIn(settings models.Settings) (time.Time, error) {
	return utils.InTimezone(s.now(), settings.Timezone)
}

// Today returns today's date in the configured timezone.
func (s *Service) Today() (string, error) {
	now, err := s.Now()
	if err != nil {
		return "", err
	}
	return utils.FormatDate(now), nil
}

// FindHabit resolves a live habit by ID or by name.
func (s *Service) FindHabit(ref string) (models.Habit, error) {
	h, err := s.store.GetHabit(ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}
	return s.store.GetHabitByName(ref)
}

// FindDeletedHabit resolves a soft-deleted habit by ID or by name. The most
// recently deleted match wins.
func (s *Service) FindDeletedHabit(ref string) (models.Habit, error) {
	all, err := s.store.GetAllHabits(true, true)
	if err != nil {
		return models.Habit{}, err
	}
	var found *models.Habit
	for i := range all {
		h := &all[i]
		if h.DeletedAt == nil || (h.ID != ref && h.Name != ref) {
			continue
		}
		if found == nil || h.DeletedAt.After(*found.DeletedAt) {
			found = h
		}
	}
	if found == nil {
		return models.Habit{}, fmt.Errorf("deleted habit %s: %w", ref, storage.ErrNotFound)
	}
	return *found, nil
}

func schedulingError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrScheduling, err)
}

func newID() string {
	return uuid.New().String()
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func defaultCategory(c models.Category) models.Category {
	if c == "" {
		return models.CategoryOther
	}
	return c
}
