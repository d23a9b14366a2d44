package models

import (
	"fmt"
	"time"
)

type LogStatus string

const (
	StatusDone   LogStatus = "done"
	StatusFailed LogStatus = "failed"
)

func (s LogStatus) Valid() bool {
	return s == StatusDone || s == StatusFailed
}

// HabitLog records a single day's outcome for a habit.
// At most one log per (HabitID, Date) is kept by the store.
type HabitLog struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Date      string    `json:"date"` // YYYY-MM-DD format
	Status    LogStatus `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *HabitLog) Validate() error {
	if l.HabitID == "" {
		return fmt.Errorf("habit log must reference a habit")
	}
	if _, err := time.Parse("2006-01-02", l.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if !l.Status.Valid() {
		return fmt.Errorf("invalid status %q (expected done or failed)", l.Status)
	}
	return nil
}

// HabitStatistics is the derived summary of a habit's log.
type HabitStatistics struct {
	HabitID          string    `json:"habit_id"`
	TotalCompletions int       `json:"total_completions"`
	TotalFailures    int       `json:"total_failures"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	CompletionRate   float64   `json:"completion_rate"` // percentage
	UpdatedAt        time.Time `json:"updated_at"`
}
