package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// idNotifier keeps scheduled triggers in memory and can only cancel by ID.
type idNotifier struct {
	mu        sync.Mutex
	scheduled map[string]models.Trigger
	cancels   int
	fail      error
}

func newIDNotifier() *idNotifier {
	return &idNotifier{scheduled: map[string]models.Trigger{}}
}

func (n *idNotifier) Schedule(_ context.Context, t models.Trigger) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	if _, dup := n.scheduled[t.ID]; dup {
		return errors.New("duplicate active trigger " + t.ID)
	}
	n.scheduled[t.ID] = t
	return nil
}

func (n *idNotifier) Cancel(_ context.Context, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancels++
	delete(n.scheduled, id)
	return nil
}

func (n *idNotifier) CancelAll(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduled = map[string]models.Trigger{}
	return nil
}

func (n *idNotifier) byTag(tag string) []models.Trigger {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.Trigger
	for _, t := range n.scheduled {
		if t.Tag == tag {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// tagNotifier adds CancelTag.
type tagNotifier struct {
	*idNotifier
	tagCancels int
}

func (n *tagNotifier) CancelTag(_ context.Context, tag string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tagCancels++
	for id, t := range n.scheduled {
		if t.Tag == tag {
			delete(n.scheduled, id)
		}
	}
	return nil
}

var monday7pm = time.Date(2026, 1, 5, 19, 0, 0, 0, time.UTC)

func setup(t *testing.T, n notifier.Notifier) (*Service, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	settings.NotificationStartTime = "20:00"
	settings.NotificationIntervalMin = 15
	require.NoError(t, store.SaveSettings(settings))

	svc := New(store, n).WithClock(func() time.Time { return monday7pm })
	return svc, store
}

func dailyHabit(name, reminder string) models.Habit {
	h := models.Habit{
		Name:      name,
		Category:  models.CategoryHealth,
		Frequency: models.Frequency{Type: models.FrequencyDaily},
	}
	if reminder != "" {
		h.Reminder = &models.Reminder{Enabled: true, Time: reminder}
	}
	return h
}

func TestCreateHabit(t *testing.T) {
	ctx := context.Background()
	n := &tagNotifier{idNotifier: newIDNotifier()}
	svc, store := setup(t, n)

	h, err := svc.CreateHabit(ctx, dailyHabit("  Read ", "21:30"))
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "Read", h.Name)
	assert.True(t, h.CreatedAt.Equal(monday7pm))

	st, err := store.GetHabitStatistics(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalCompletions)
	assert.Equal(t, 0, st.LongestStreak)

	reminders := n.byTag(constants.HabitReminderTag)
	require.Len(t, reminders, 1)
	assert.Equal(t, h.ID, reminders[0].ID)
	assert.True(t, reminders[0].At.Equal(time.Date(2026, 1, 5, 21, 30, 0, 0, time.UTC)))

	series := n.byTag(constants.PersistentReminderTag)
	assert.Len(t, series, 16)
	assert.Equal(t, "You have 1 habits to track today", series[0].Payload.Body)

	_, err = svc.CreateHabit(ctx, dailyHabit("Read", ""))
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = svc.CreateHabit(ctx, models.Habit{Name: " "})
	assert.Error(t, err)
}

func TestLogHabitRecomputesAndCompletesSeries(t *testing.T) {
	ctx := context.Background()
	n := &tagNotifier{idNotifier: newIDNotifier()}
	svc, _ := setup(t, n)

	h, err := svc.CreateHabit(ctx, dailyHabit("Run", ""))
	require.NoError(t, err)

	_, _, err = svc.LogHabit(ctx, h.ID, "2026-01-03", models.StatusDone, "")
	require.NoError(t, err)
	_, _, err = svc.LogHabit(ctx, h.ID, "2026-01-04", models.StatusDone, "")
	require.NoError(t, err)
	require.NotEmpty(t, n.byTag(constants.PersistentReminderTag))

	saved, st, err := svc.LogHabit(ctx, h.ID, "", models.StatusDone, "felt good")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", saved.Date)
	assert.Equal(t, 3, st.CurrentStreak)
	assert.Equal(t, 3, st.LongestStreak)
	assert.Equal(t, 3, st.TotalCompletions)
	assert.InDelta(t, 100.0, st.CompletionRate, 0.001)

	// Everything is logged today, so the evening series is gone.
	assert.Empty(t, n.byTag(constants.PersistentReminderTag))

	// Re-logging the same day updates in place and keeps the longest streak.
	again, st, err := svc.LogHabit(ctx, h.ID, "", models.StatusFailed, "")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
	assert.Equal(t, 0, st.CurrentStreak)
	assert.Equal(t, 3, st.LongestStreak)
	assert.Equal(t, 2, st.TotalCompletions)
	assert.Equal(t, 1, st.TotalFailures)

	_, _, err = svc.LogHabit(ctx, h.ID, "05/01/2026", models.StatusDone, "")
	assert.Error(t, err)
	_, _, err = svc.LogHabit(ctx, "missing", "", models.StatusDone, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUnlogHabit(t *testing.T) {
	ctx := context.Background()
	n := &tagNotifier{idNotifier: newIDNotifier()}
	svc, _ := setup(t, n)

	h, err := svc.CreateHabit(ctx, dailyHabit("Run", ""))
	require.NoError(t, err)
	_, _, err = svc.LogHabit(ctx, h.ID, "", models.StatusDone, "")
	require.NoError(t, err)
	assert.Empty(t, n.byTag(constants.PersistentReminderTag))

	st, err := svc.UnlogHabit(ctx, h.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalCompletions)
	assert.Equal(t, 1, st.LongestStreak)
	assert.NotEmpty(t, n.byTag(constants.PersistentReminderTag))

	_, err = svc.UnlogHabit(ctx, h.ID, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConcurrentLogsForSameHabit(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t, &tagNotifier{idNotifier: newIDNotifier()})

	h, err := svc.CreateHabit(ctx, dailyHabit("Run", ""))
	require.NoError(t, err)

	dates := []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04", "2026-01-05"}
	var wg sync.WaitGroup
	for _, d := range dates {
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.LogHabit(ctx, h.ID, d, models.StatusDone, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := store.GetHabitStatistics(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, st.TotalCompletions)
	assert.Equal(t, 5, st.CurrentStreak)
	assert.Equal(t, 5, st.LongestStreak)
}

func TestDeleteAndRestoreHabit(t *testing.T) {
	ctx := context.Background()
	n := &tagNotifier{idNotifier: newIDNotifier()}
	svc, store := setup(t, n)

	h, err := svc.CreateHabit(ctx, dailyHabit("Read", "21:00"))
	require.NoError(t, err)
	_, _, err = svc.LogHabit(ctx, h.ID, "2026-01-04", models.StatusDone, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteHabit(ctx, h.ID))
	_, err = store.GetHabitStatistics(h.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Empty(t, n.byTag(constants.HabitReminderTag))
	assert.Empty(t, n.byTag(constants.PersistentReminderTag))

	deleted, err := svc.FindDeletedHabit("Read")
	require.NoError(t, err)
	assert.Equal(t, h.ID, deleted.ID)

	restored, err := svc.RestoreHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	st, err := store.GetHabitStatistics(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalCompletions)
	assert.Equal(t, 0, st.CurrentStreak)
	assert.Len(t, n.byTag(constants.HabitReminderTag), 1)
}

func TestArchiveHabit(t *testing.T) {
	ctx := context.Background()
	n := &tagNotifier{idNotifier: newIDNotifier()}
	svc, _ := setup(t, n)

	h, err := svc.CreateHabit(ctx, dailyHabit("Read", "21:00"))
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveHabit(ctx, h.ID))
	assert.Empty(t, n.byTag(constants.HabitReminderTag))
	assert.Empty(t, n.byTag(constants.PersistentReminderTag))

	habits, err := svc.ListHabits(false)
	require.NoError(t, err)
	assert.Empty(t, habits)

	require.NoError(t, svc.UnarchiveHabit(ctx, h.ID))
	assert.Len(t, n.byTag(constants.HabitReminderTag), 1)
	assert.Len(t, n.byTag(constants.PersistentReminderTag), 16)
}

func TestUpdateHabitReplansReminder(t *testing.T) {
	ctx := context.Background()
	n := &tagNotifier{idNotifier: newIDNotifier()}
	svc, _ := setup(t, n)

	h, err := svc.CreateHabit(ctx, dailyHabit("Read", "21:00"))
	require.NoError(t, err)

	h.Reminder.Time = "07:15"
	updated, err := svc.UpdateHabit(ctx, h)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.Equal(monday7pm))

	reminders := n.byTag(constants.HabitReminderTag)
	require.Len(t, reminders, 1)
	assert.True(t, reminders[0].At.Equal(time.Date(2026, 1, 6, 7, 15, 0, 0, time.UTC)))

	other, err := svc.CreateHabit(ctx, dailyHabit("Walk", ""))
	require.NoError(t, err)
	other.Name = "Read"
	_, err = svc.UpdateHabit(ctx, other)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	n := &tagNotifier{idNotifier: newIDNotifier()}
	svc, _ := setup(t, n)

	_, err := svc.CreateHabit(ctx, dailyHabit("Read", "21:00"))
	require.NoError(t, err)

	settings, err := svc.Settings()
	require.NoError(t, err)
	settings.NotificationStartTime = "22:00"
	settings.NotificationIntervalMin = 60
	require.NoError(t, svc.UpdateSettings(ctx, settings))

	series := n.byTag(constants.PersistentReminderTag)
	require.Len(t, series, 2)
	assert.True(t, series[0].At.Equal(time.Date(2026, 1, 5, 22, 0, 0, 0, time.UTC)))
	assert.Len(t, n.byTag(constants.HabitReminderTag), 1)

	settings.NotificationsEnabled = false
	require.NoError(t, svc.UpdateSettings(ctx, settings))
	assert.Empty(t, n.scheduled)

	settings.NotificationIntervalMin = 0
	assert.Error(t, svc.UpdateSettings(ctx, settings))
}

func TestPersistentSeriesWithoutTagSupport(t *testing.T) {
	ctx := context.Background()
	n := newIDNotifier()
	svc, _ := setup(t, n)

	_, err := svc.CreateHabit(ctx, dailyHabit("Read", ""))
	require.NoError(t, err)
	require.Len(t, n.byTag(constants.PersistentReminderTag), 16)

	// A second submission must not find the old series still active.
	require.NoError(t, svc.ReschedulePersistentSeries(ctx))
	assert.Len(t, n.byTag(constants.PersistentReminderTag), 16)
	assert.GreaterOrEqual(t, n.cancels, constants.MaxTriggersPerDay)
}

func TestSchedulingFailureKeepsWrite(t *testing.T) {
	ctx := context.Background()
	n := newIDNotifier()
	n.fail = errors.New("notifier offline")
	svc, store := setup(t, n)

	h, err := svc.CreateHabit(ctx, dailyHabit("Read", "21:00"))
	require.ErrorIs(t, err, ErrScheduling)
	_, err = store.GetHabit(h.ID)
	assert.NoError(t, err)
}

func TestPlanAndAgenda(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, &tagNotifier{idNotifier: newIDNotifier()})

	read, err := svc.CreateHabit(ctx, dailyHabit("Read", "21:00"))
	require.NoError(t, err)
	weekend, err := svc.CreateHabit(ctx, models.Habit{
		Name:      "Hike",
		Frequency: models.Frequency{Type: models.FrequencyCustom, CustomDays: []int{0, 6}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, weekend.Category)

	triggers, err := svc.Plan()
	require.NoError(t, err)
	require.Len(t, triggers, 17)
	assert.Equal(t, "persistent-1000", triggers[0].ID)
	assert.Equal(t, read.ID, triggers[4].ID)
	assert.Equal(t, "You have 1 habits to track today", triggers[0].Payload.Body)

	_, _, err = svc.LogHabit(ctx, read.ID, "", models.StatusDone, "")
	require.NoError(t, err)

	items, err := svc.Agenda()
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		switch item.Habit.ID {
		case read.ID:
			assert.True(t, item.Due)
			assert.True(t, item.Done())
			assert.Equal(t, 1, item.Stats.CurrentStreak)
		case weekend.ID:
			assert.False(t, item.Due)
			assert.Nil(t, item.Log)
		}
	}

	incomplete, err := svc.Incomplete()
	require.NoError(t, err)
	assert.Empty(t, incomplete)
}

func TestRefreshAllStatisticsDecaysStreaks(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t, &tagNotifier{idNotifier: newIDNotifier()})

	h, err := svc.CreateHabit(ctx, dailyHabit("Read", ""))
	require.NoError(t, err)
	_, _, err = svc.LogHabit(ctx, h.ID, "2026-01-05", models.StatusDone, "")
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return monday7pm.AddDate(0, 0, 3) })
	require.NoError(t, svc.RefreshAllStatistics(ctx))

	st, err := store.GetHabitStatistics(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.CurrentStreak)
	assert.Equal(t, 1, st.LongestStreak)
}

func TestEnsurePlannedRollsOverOncePerDay(t *testing.T) {
	ctx := context.Background()
	n := &tagNotifier{idNotifier: newIDNotifier()}
	svc, store := setup(t, n)

	h, err := svc.CreateHabit(ctx, dailyHabit("Read", "08:00"))
	require.NoError(t, err)
	_, _, err = svc.LogHabit(ctx, h.ID, "2026-01-05", models.StatusDone, "")
	require.NoError(t, err)

	wednesday := time.Date(2026, 1, 7, 8, 0, 30, 0, time.UTC)
	svc.WithClock(func() time.Time { return wednesday })

	rolled, err := svc.EnsurePlanned(ctx)
	require.NoError(t, err)
	assert.True(t, rolled)

	// planned from midnight, so this morning's reminder is still on the schedule
	reminders := n.byTag(constants.HabitReminderTag)
	require.Len(t, reminders, 1)
	assert.True(t, reminders[0].At.Equal(time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC)), "reminder at %s", reminders[0].At)
	series := n.byTag(constants.PersistentReminderTag)
	require.Len(t, series, 16)
	assert.True(t, series[0].At.Equal(time.Date(2026, 1, 7, 20, 0, 0, 0, time.UTC)))

	st, err := store.GetHabitStatistics(h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.CurrentStreak)
	assert.Equal(t, 1, st.LongestStreak)

	settings, err := svc.Settings()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-07", settings.LastPlannedDate)
	assert.Equal(t, "UTC", settings.Timezone)

	n.scheduled = map[string]models.Trigger{}
	rolled, err = svc.EnsurePlanned(ctx)
	require.NoError(t, err)
	assert.False(t, rolled)
	assert.Empty(t, n.byTag(constants.HabitReminderTag))
}
