package stats

import "github.com/julianstephens/habitual/internal/models"

// Overview aggregates statistics across habits.
type Overview struct {
	Habits           int     `json:"habits"`
	TotalCompletions int     `json:"total_completions"`
	TotalFailures    int     `json:"total_failures"`
	CompletionRate   float64 `json:"completion_rate"`
	BestCurrent      int     `json:"best_current_streak"`
	BestCurrentID    string  `json:"best_current_habit_id,omitempty"`
	BestLongest      int     `json:"best_longest_streak"`
	BestLongestID    string  `json:"best_longest_habit_id,omitempty"`
}

// Summarize folds per-habit statistics into one Overview. The overall
// completion rate is weighted by log count, not averaged per habit.
func Summarize(all []models.HabitStatistics) Overview {
	var o Overview
	for _, s := range all {
		o.Habits++
		o.TotalCompletions += s.TotalCompletions
		o.TotalFailures += s.TotalFailures
		if s.CurrentStreak > o.BestCurrent {
			o.BestCurrent = s.CurrentStreak
			o.BestCurrentID = s.HabitID
		}
		if s.LongestStreak > o.BestLongest {
			o.BestLongest = s.LongestStreak
			o.BestLongestID = s.HabitID
		}
	}
	o.CompletionRate = CompletionRate(o.TotalCompletions, o.TotalFailures)
	return o
}
