// Package storagetest holds a behavioral test suite shared by every
// storage.Provider implementation.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// Factory returns a freshly initialized, empty store.
type Factory func(t *testing.T) storage.Provider

var base = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func NewHabit(id, name string) models.Habit {
	return models.Habit{
		ID:          id,
		Name:        name,
		Description: "desc " + name,
		Category:    models.CategoryHealth,
		Frequency:   models.Frequency{Type: models.FrequencyDaily},
		CreatedAt:   base,
		UpdatedAt:   base,
	}
}

func NewLog(id, habitID, date string, status models.LogStatus) models.HabitLog {
	return models.HabitLog{
		ID:        id,
		HabitID:   habitID,
		Date:      date,
		Status:    status,
		CreatedAt: base,
		UpdatedAt: base,
	}
}

// Run exercises the full Provider contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("Habits", func(t *testing.T) { testHabits(t, newStore(t)) })
	t.Run("HabitLifecycle", func(t *testing.T) { testHabitLifecycle(t, newStore(t)) })
	t.Run("Logs", func(t *testing.T) { testLogs(t, newStore(t)) })
	t.Run("Statistics", func(t *testing.T) { testStatistics(t, newStore(t)) })
	t.Run("Notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
}

func testSettings(t *testing.T, s storage.Provider) {
	got, err := s.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)

	got.NotificationStartTime = "19:30"
	got.NotificationIntervalMin = 5
	got.NotificationsEnabled = false
	got.Timezone = "UTC"
	require.NoError(t, s.SaveSettings(got))

	updated, err := s.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, got, updated)
}

func testHabits(t *testing.T, s storage.Provider) {
	weekly := NewHabit("h-weekly", "Gym")
	weekly.Frequency = models.Frequency{Type: models.FrequencyWeekly, Days: []models.WeekDay{models.Mon, models.Fri}}
	weekly.Reminder = &models.Reminder{Enabled: true, Time: "07:15"}

	custom := NewHabit("h-custom", "Call family")
	custom.Category = models.CategorySocial
	custom.Frequency = models.Frequency{Type: models.FrequencyCustom, CustomDays: []int{0, 6}}
	custom.Reminder = &models.Reminder{Enabled: false, Time: "18:00"}

	daily := NewHabit("h-daily", "Read")

	for _, h := range []models.Habit{weekly, custom, daily} {
		require.NoError(t, s.AddHabit(h))
	}

	got, err := s.GetHabit("h-weekly")
	require.NoError(t, err)
	assert.Equal(t, weekly.Frequency, got.Frequency)
	require.NotNil(t, got.Reminder)
	assert.Equal(t, *weekly.Reminder, *got.Reminder)
	assert.True(t, base.Equal(got.CreatedAt))

	got, err = s.GetHabitByName("Call family")
	require.NoError(t, err)
	assert.Equal(t, custom.Frequency, got.Frequency)
	assert.Equal(t, models.CategorySocial, got.Category)
	require.NotNil(t, got.Reminder)
	assert.False(t, got.Reminder.Enabled)

	got, err = s.GetHabit("h-daily")
	require.NoError(t, err)
	assert.Nil(t, got.Reminder)
	assert.Equal(t, "desc Read", got.Description)

	_, err = s.GetHabit("missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
	_, err = s.GetHabitByName("missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	daily.Name = "Read books"
	daily.Reminder = &models.Reminder{Enabled: true, Time: "21:00"}
	daily.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, s.UpdateHabit(daily))
	got, err = s.GetHabit("h-daily")
	require.NoError(t, err)
	assert.Equal(t, "Read books", got.Name)
	require.NotNil(t, got.Reminder)
	assert.Equal(t, "21:00", got.Reminder.Time)
	assert.True(t, daily.UpdatedAt.Equal(got.UpdatedAt))

	err = s.UpdateHabit(NewHabit("nope", "Nope"))
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	all, err := s.GetAllHabits(false, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testHabitLifecycle(t *testing.T, s storage.Provider) {
	require.NoError(t, s.AddHabit(NewHabit("a", "Alpha")))
	require.NoError(t, s.AddHabit(NewHabit("b", "Beta")))

	require.NoError(t, s.ArchiveHabit("a"))
	assert.Error(t, s.ArchiveHabit("a"), "archiving twice")

	active, err := s.GetAllHabits(false, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].ID)

	withArchived, err := s.GetAllHabits(true, false)
	require.NoError(t, err)
	assert.Len(t, withArchived, 2)

	require.NoError(t, s.UnarchiveHabit("a"))
	assert.Error(t, s.UnarchiveHabit("a"), "unarchiving twice")

	require.NoError(t, s.DeleteHabit("b"))
	assert.True(t, errors.Is(s.DeleteHabit("b"), storage.ErrNotFound))

	_, err = s.GetHabit("b")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	everything, err := s.GetAllHabits(true, true)
	require.NoError(t, err)
	require.Len(t, everything, 2)
	for _, h := range everything {
		if h.ID == "b" {
			assert.NotNil(t, h.DeletedAt)
		}
	}

	require.NoError(t, s.RestoreHabit("b"))
	assert.Error(t, s.RestoreHabit("b"), "restoring twice")
	_, err = s.GetHabit("b")
	assert.NoError(t, err)

	// a deleted habit frees its name
	require.NoError(t, s.DeleteHabit("b"))
	require.NoError(t, s.AddHabit(NewHabit("b2", "Beta")))
	_, err = s.GetHabitByName("Beta")
	assert.NoError(t, err)
}

func testLogs(t *testing.T, s storage.Provider) {
	require.NoError(t, s.AddHabit(NewHabit("h1", "One")))
	require.NoError(t, s.AddHabit(NewHabit("h2", "Two")))

	first, err := s.UpsertHabitLog(NewLog("l1", "h1", "2026-01-05", models.StatusFailed))
	require.NoError(t, err)
	assert.Equal(t, "l1", first.ID)

	relog := NewLog("l1-again", "h1", "2026-01-05", models.StatusDone)
	relog.Notes = "made it after all"
	relog.UpdatedAt = base.Add(2 * time.Hour)
	stored, err := s.UpsertHabitLog(relog)
	require.NoError(t, err)
	assert.Equal(t, "l1", stored.ID, "re-logging keeps the original row")
	assert.Equal(t, models.StatusDone, stored.Status)
	assert.Equal(t, "made it after all", stored.Notes)
	assert.True(t, relog.UpdatedAt.Equal(stored.UpdatedAt))

	_, err = s.UpsertHabitLog(NewLog("l2", "h1", "2026-01-04", models.StatusDone))
	require.NoError(t, err)
	_, err = s.UpsertHabitLog(NewLog("l3", "h2", "2026-01-05", models.StatusDone))
	require.NoError(t, err)

	got, err := s.GetHabitLog("h1", "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, got.Status)

	_, err = s.GetHabitLog("h1", "2025-12-31")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	day, err := s.GetHabitLogsForDay("2026-01-05")
	require.NoError(t, err)
	assert.Len(t, day, 2)

	forHabit, err := s.GetHabitLogsForHabit("h1")
	require.NoError(t, err)
	require.Len(t, forHabit, 2)
	assert.Equal(t, "2026-01-05", forHabit[0].Date)
	assert.Equal(t, "2026-01-04", forHabit[1].Date)

	all, err := s.GetAllHabitLogs()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.DeleteHabitLog("l2"))
	assert.True(t, errors.Is(s.DeleteHabitLog("l2"), storage.ErrNotFound))

	forHabit, err = s.GetHabitLogsForHabit("h1")
	require.NoError(t, err)
	assert.Len(t, forHabit, 1)
}

func testStatistics(t *testing.T, s storage.Provider) {
	require.NoError(t, s.AddHabit(NewHabit("h1", "One")))

	_, err := s.GetHabitStatistics("h1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	st := models.HabitStatistics{
		HabitID:          "h1",
		TotalCompletions: 3,
		TotalFailures:    1,
		CurrentStreak:    2,
		LongestStreak:    5,
		CompletionRate:   75,
		UpdatedAt:        base,
	}
	require.NoError(t, s.SaveHabitStatistics(st))

	st.CurrentStreak = 3
	require.NoError(t, s.SaveHabitStatistics(st))

	got, err := s.GetHabitStatistics("h1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak)
	assert.InDelta(t, 75.0, got.CompletionRate, 0.0001)

	all, err := s.GetAllHabitStatistics()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.DeleteHabitStatistics("h1"))
	_, err = s.GetHabitStatistics("h1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func testNotifications(t *testing.T, s storage.Provider) {
	est := time.FixedZone("EST", -5*3600)
	rows := []models.ScheduledNotification{
		{ID: "h1", Tag: constants.HabitReminderTag, FireAt: base.Add(-time.Minute), Title: "Reminder: One", Body: "b", HabitID: "h1", CreatedAt: base},
		// 11:30 EST is 16:30 UTC, after base
		{ID: "persistent-1000", Tag: constants.PersistentReminderTag, FireAt: time.Date(2026, 1, 5, 11, 30, 0, 0, est), Title: "Incomplete Habits", Body: "b", CreatedAt: base},
		{ID: "persistent-1001", Tag: constants.PersistentReminderTag, FireAt: base, Title: "Incomplete Habits", Body: "b", CreatedAt: base},
	}
	for _, n := range rows {
		require.NoError(t, s.SaveScheduledNotification(n))
	}

	due, err := s.GetDueNotifications(base)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "h1", due[0].ID)
	assert.Equal(t, "h1", due[0].HabitID)
	assert.Equal(t, "persistent-1001", due[1].ID)
	assert.Empty(t, due[1].HabitID)

	// replacing by ID moves the fire time
	moved := rows[0]
	moved.FireAt = base.Add(24 * time.Hour)
	require.NoError(t, s.SaveScheduledNotification(moved))
	due, err = s.GetDueNotifications(base)
	require.NoError(t, err)
	assert.Len(t, due, 1)

	require.NoError(t, s.DeleteScheduledNotificationsByTag(constants.PersistentReminderTag))
	all, err := s.GetScheduledNotifications()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, moved.FireAt.Equal(all[0].FireAt))

	require.NoError(t, s.DeleteScheduledNotification("h1"))
	require.NoError(t, s.DeleteScheduledNotification("h1"), "deleting a missing row is not an error")

	require.NoError(t, s.SaveScheduledNotification(rows[2]))
	require.NoError(t, s.DeleteAllScheduledNotifications())
	all, err = s.GetScheduledNotifications()
	require.NoError(t, err)
	assert.Empty(t, all)
}
