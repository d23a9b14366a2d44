package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

var today = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func daysAgo(n int) string {
	return today.AddDate(0, 0, -n).Format(constants.DateFormat)
}

func logOn(date string, status models.LogStatus) models.HabitLog {
	return models.HabitLog{
		ID:        "log-" + date + "-" + string(status),
		HabitID:   "habit-1",
		Date:      date,
		Status:    status,
		CreatedAt: today,
	}
}

func TestRecompute_NoLogs(t *testing.T) {
	for _, prev := range []int{0, 3, 42} {
		t.Run(fmt.Sprintf("previous longest %d", prev), func(t *testing.T) {
			got := Recompute("habit-1", nil, prev, today)

			assert.Equal(t, "habit-1", got.HabitID)
			assert.Zero(t, got.TotalCompletions)
			assert.Zero(t, got.TotalFailures)
			assert.Zero(t, got.CompletionRate)
			assert.Zero(t, got.CurrentStreak)
			assert.Equal(t, prev, got.LongestStreak)
		})
	}
}

func TestRecompute_CountsAndRate(t *testing.T) {
	logs := []models.HabitLog{
		logOn(daysAgo(0), models.StatusDone),
		logOn(daysAgo(1), models.StatusDone),
		logOn(daysAgo(2), models.StatusFailed),
		logOn(daysAgo(3), models.StatusDone),
	}

	got := Recompute("habit-1", logs, 0, today)

	assert.Equal(t, 3, got.TotalCompletions)
	assert.Equal(t, 1, got.TotalFailures)
	assert.InDelta(t, 75.0, got.CompletionRate, 0.0001)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, today, got.UpdatedAt)
}

func TestRecompute_LongestStreakIsMonotonic(t *testing.T) {
	logs := []models.HabitLog{
		logOn(daysAgo(0), models.StatusDone),
	}

	got := Recompute("habit-1", logs, 10, today)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 10, got.LongestStreak)

	abandoned := Recompute("habit-1", []models.HabitLog{logOn(daysAgo(30), models.StatusDone)}, got.LongestStreak, today)
	assert.Equal(t, 0, abandoned.CurrentStreak)
	assert.Equal(t, 10, abandoned.LongestStreak)
}

func TestRecompute_LongestStreakProperty(t *testing.T) {
	histories := [][]models.HabitLog{
		nil,
		{logOn(daysAgo(0), models.StatusFailed)},
		{logOn(daysAgo(0), models.StatusDone), logOn(daysAgo(1), models.StatusDone), logOn(daysAgo(2), models.StatusDone)},
		{logOn(daysAgo(1), models.StatusDone), logOn(daysAgo(4), models.StatusDone)},
	}

	for i, logs := range histories {
		for _, prev := range []int{0, 1, 2, 5} {
			got := Recompute("habit-1", logs, prev, today)
			assert.GreaterOrEqual(t, got.LongestStreak, prev, "history %d prev %d", i, prev)
			assert.GreaterOrEqual(t, got.LongestStreak, got.CurrentStreak, "history %d prev %d", i, prev)
		}
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	logs := []models.HabitLog{
		logOn(daysAgo(1), models.StatusDone),
		logOn(daysAgo(0), models.StatusDone),
	}
	first := Recompute("habit-1", logs, 0, today)
	second := Recompute("habit-1", logs, first.LongestStreak, today)
	assert.Equal(t, first, second)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []models.HabitLog
		want int
	}{
		{
			name: "no logs",
			want: 0,
		},
		{
			name: "today and yesterday done, then failed",
			logs: []models.HabitLog{
				logOn(daysAgo(0), models.StatusDone),
				logOn(daysAgo(1), models.StatusDone),
				logOn(daysAgo(2), models.StatusFailed),
			},
			want: 2,
		},
		{
			name: "unsorted input",
			logs: []models.HabitLog{
				logOn(daysAgo(2), models.StatusDone),
				logOn(daysAgo(0), models.StatusDone),
				logOn(daysAgo(1), models.StatusDone),
			},
			want: 3,
		},
		{
			name: "only today failed",
			logs: []models.HabitLog{logOn(daysAgo(0), models.StatusFailed)},
			want: 0,
		},
		{
			name: "gap breaks the chain",
			logs: []models.HabitLog{
				logOn(daysAgo(0), models.StatusDone),
				logOn(daysAgo(2), models.StatusDone),
			},
			want: 1,
		},
		{
			name: "streak ending yesterday waits for today",
			logs: []models.HabitLog{
				logOn(daysAgo(1), models.StatusDone),
				logOn(daysAgo(2), models.StatusDone),
				logOn(daysAgo(3), models.StatusDone),
			},
			want: 0,
		},
		{
			name: "most recent log five days ago",
			logs: []models.HabitLog{logOn(daysAgo(5), models.StatusDone)},
			want: 0,
		},
		{
			name: "future logs are ignored",
			logs: []models.HabitLog{
				logOn(today.AddDate(0, 0, 1).Format(constants.DateFormat), models.StatusDone),
				logOn(daysAgo(0), models.StatusDone),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.logs, today))
		})
	}
}

func TestCurrentStreak_SingleLogOnEvaluationDay(t *testing.T) {
	logs := []models.HabitLog{logOn("2026-01-10", models.StatusDone)}

	sameDay := time.Date(2026, 1, 10, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, CurrentStreak(logs, sameDay))

	muchLater := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, CurrentStreak(logs, muchLater))
}

func TestCurrentStreak_DuplicateDays(t *testing.T) {
	earlier := today.Add(-2 * time.Hour)

	t.Run("latest entry for a day wins", func(t *testing.T) {
		logs := []models.HabitLog{
			{ID: "a", Date: daysAgo(0), Status: models.StatusFailed, CreatedAt: earlier},
			{ID: "b", Date: daysAgo(0), Status: models.StatusDone, CreatedAt: today},
			{ID: "c", Date: daysAgo(1), Status: models.StatusDone, CreatedAt: earlier},
		}
		assert.Equal(t, 2, CurrentStreak(logs, today))
	})

	t.Run("latest failed entry ends the streak", func(t *testing.T) {
		logs := []models.HabitLog{
			{ID: "a", Date: daysAgo(0), Status: models.StatusDone, CreatedAt: earlier},
			{ID: "b", Date: daysAgo(0), Status: models.StatusFailed, CreatedAt: today},
			{ID: "c", Date: daysAgo(1), Status: models.StatusDone, CreatedAt: earlier},
		}
		assert.Equal(t, 0, CurrentStreak(logs, today))
	})

	t.Run("duplicates still count in totals", func(t *testing.T) {
		logs := []models.HabitLog{
			{ID: "a", Date: daysAgo(0), Status: models.StatusDone, CreatedAt: earlier},
			{ID: "b", Date: daysAgo(0), Status: models.StatusDone, CreatedAt: today},
		}
		got := Recompute("habit-1", logs, 0, today)
		assert.Equal(t, 2, got.TotalCompletions)
		assert.Equal(t, 1, got.CurrentStreak)
	})
}

func TestCurrentStreak_AcrossDSTBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// Clocks spring forward on 2026-03-08 in New York.
	evalDay := time.Date(2026, 3, 9, 7, 0, 0, 0, loc)
	logs := []models.HabitLog{
		logOn("2026-03-09", models.StatusDone),
		logOn("2026-03-08", models.StatusDone),
		logOn("2026-03-07", models.StatusDone),
	}
	assert.Equal(t, 3, CurrentStreak(logs, evalDay))
}

func TestSortNewestFirst(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logs := []models.HabitLog{
		{ID: "1", Date: "2026-01-01", CreatedAt: t0},
		{ID: "2", Date: "2026-01-03", CreatedAt: t0},
		{ID: "3", Date: "2026-01-03", CreatedAt: t0.Add(time.Hour)},
		{ID: "4", Date: "2026-01-02", CreatedAt: t0},
	}
	SortNewestFirst(logs)

	ids := make([]string, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
	}
	require.Equal(t, []string{"3", "2", "4", "1"}, ids)
}

func TestSummarize(t *testing.T) {
	all := []models.HabitStatistics{
		{HabitID: "a", TotalCompletions: 8, TotalFailures: 2, CurrentStreak: 3, LongestStreak: 5},
		{HabitID: "b", TotalCompletions: 1, TotalFailures: 9, CurrentStreak: 0, LongestStreak: 7},
	}

	o := Summarize(all)
	assert.Equal(t, 2, o.Habits)
	assert.Equal(t, 9, o.TotalCompletions)
	assert.Equal(t, 11, o.TotalFailures)
	assert.InDelta(t, 45.0, o.CompletionRate, 0.0001)
	assert.Equal(t, 3, o.BestCurrent)
	assert.Equal(t, "a", o.BestCurrentID)
	assert.Equal(t, 7, o.BestLongest)
	assert.Equal(t, "b", o.BestLongestID)

	assert.Equal(t, Overview{}, Summarize(nil))
}
