// Package stats derives streak and completion statistics from a habit's log.
//
// Every function here is pure: the evaluation day is passed in explicitly and
// nothing reads the clock or the store, so recomputation can run from any
// goroutine and yields the same answer for the same snapshot.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// Empty returns the all-zero statistics record a habit starts with.
func Empty(habitID string) models.HabitStatistics {
	return models.HabitStatistics{HabitID: habitID}
}

// Recompute rebuilds a habit's statistics from its complete log.
//
// previousLongest is the longest streak recorded before this recomputation;
// the result never reports a smaller longest streak.
func Recompute(habitID string, logs []models.HabitLog, previousLongest int, today time.Time) models.HabitStatistics {
	result := models.HabitStatistics{
		HabitID:   habitID,
		UpdatedAt: today,
	}

	for _, l := range logs {
		switch l.Status {
		case models.StatusDone:
			result.TotalCompletions++
		case models.StatusFailed:
			result.TotalFailures++
		}
	}

	result.CompletionRate = CompletionRate(result.TotalCompletions, result.TotalFailures)
	result.CurrentStreak = CurrentStreak(logs, today)
	result.LongestStreak = max(result.CurrentStreak, previousLongest)

	return result
}

// CompletionRate returns the percentage of done logs, or 0 when there are none.
func CompletionRate(done, failed int) float64 {
	total := done + failed
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// CurrentStreak counts consecutive done days ending at today.
//
// If the newest log is older than yesterday the chain is broken and the
// streak is 0. Otherwise the walk expects today first and steps back one day
// per done log, so a newest log from yesterday leaves the streak at 0 until
// today is logged. A failed day or a missing day ends the walk. When several logs share a date, the most recently created one decides
// that day. Logs dated after today are ignored.
func CurrentStreak(logs []models.HabitLog, today time.Time) int {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	todayStr := day.Format(constants.DateFormat)
	yesterdayStr := day.AddDate(0, 0, -1).Format(constants.DateFormat)

	sorted := make([]models.HabitLog, 0, len(logs))
	for _, l := range logs {
		if l.Date <= todayStr {
			sorted = append(sorted, l)
		}
	}
	if len(sorted) == 0 {
		return 0
	}
	SortNewestFirst(sorted)

	if sorted[0].Date != todayStr && sorted[0].Date != yesterdayStr {
		return 0
	}

	expected := day

	streak := 0
	counted := ""
	for _, l := range sorted {
		if l.Date == counted {
			// older duplicate of a day already decided
			continue
		}
		if l.Date != expected.Format(constants.DateFormat) || l.Status != models.StatusDone {
			break
		}
		streak++
		counted = l.Date
		expected = expected.AddDate(0, 0, -1)
	}

	return streak
}

// SortNewestFirst orders logs by date descending. Ties are broken by
// CreatedAt descending and then by ID so the order is deterministic.
func SortNewestFirst(logs []models.HabitLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].Date != logs[j].Date {
			return logs[i].Date > logs[j].Date
		}
		if !logs[i].CreatedAt.Equal(logs[j].CreatedAt) {
			return logs[i].CreatedAt.After(logs[j].CreatedAt)
		}
		return logs[i].ID > logs[j].ID
	})
}
