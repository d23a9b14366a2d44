package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// ErrNotFound is returned when a requested row does not exist (or is soft-deleted).
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Habit logs. At most one log exists per (habit, date); UpsertHabitLog
	// replaces the status and notes of an existing log for that day.
	UpsertHabitLog(models.HabitLog) (models.HabitLog, error)
	GetHabitLog(habitID, date string) (models.HabitLog, error)
	GetHabitLogsForDay(date string) ([]models.HabitLog, error)
	GetHabitLogsForHabit(habitID string) ([]models.HabitLog, error)
	GetAllHabitLogs() ([]models.HabitLog, error)
	DeleteHabitLog(id string) error

	// Statistics
	GetHabitStatistics(habitID string) (models.HabitStatistics, error)
	GetAllHabitStatistics() ([]models.HabitStatistics, error)
	SaveHabitStatistics(models.HabitStatistics) error
	DeleteHabitStatistics(habitID string) error

	// Notification outbox
	SaveScheduledNotification(models.ScheduledNotification) error
	DeleteScheduledNotification(id string) error
	DeleteScheduledNotificationsByTag(tag string) error
	DeleteAllScheduledNotifications() error
	GetDueNotifications(now time.Time) ([]models.ScheduledNotification, error)
	GetScheduledNotifications() ([]models.ScheduledNotification, error)

	// Utils
	GetConfigPath() string
}
