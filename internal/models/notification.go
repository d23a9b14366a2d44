package models

import "time"

// Payload is what a delivered reminder shows.
type Payload struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	HabitID         string `json:"habit_id,omitempty"`
	IncompleteCount int    `json:"incomplete_count,omitempty"`
}

// Trigger is a planned reminder: deliver Payload at At under identity ID.
// Tag groups triggers that are cancelled together.
type Trigger struct {
	ID      string    `json:"id"`
	Tag     string    `json:"tag"`
	At      time.Time `json:"at"`
	Payload Payload   `json:"payload"`
}

// ScheduledNotification is a trigger persisted in the notification outbox.
type ScheduledNotification struct {
	ID      string    `json:"id"`
	Tag     string    `json:"tag"`
	FireAt  time.Time `json:"fire_at"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	HabitID string    `json:"habit_id,omitempty"`
	// IncompleteCount is the series snapshot taken at planning time.
	IncompleteCount int       `json:"incomplete_count,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToScheduled converts a trigger into its outbox row.
func (t Trigger) ToScheduled(now time.Time) ScheduledNotification {
	return ScheduledNotification{
		ID:              t.ID,
		Tag:             t.Tag,
		FireAt:          t.At,
		Title:           t.Payload.Title,
		Body:            t.Payload.Body,
		HabitID:         t.Payload.HabitID,
		IncompleteCount: t.Payload.IncompleteCount,
		CreatedAt:       now,
	}
}
