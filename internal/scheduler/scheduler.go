// Package scheduler turns habits and settings into reminder triggers.
//
// Two kinds of reminders are planned. Each habit with an enabled reminder gets
// one trigger at its next reminder time. The evening series repeats a summary
// reminder every few minutes while habits due today are still unlogged.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	ErrInvalidInterval  = errors.New("notification interval must be at least one minute")
	ErrInvalidStartTime = errors.New("invalid notification start time")
)

type Scheduler struct {
	// endOfDay is the exclusive bound of the persistent series (HH:MM).
	endOfDay string
}

func New() *Scheduler {
	return &Scheduler{endOfDay: constants.EndOfDay}
}

// PlanHabitReminder returns the next time the habit's reminder should fire.
// The second result is false when no reminder should be scheduled.
func (s *Scheduler) PlanHabitReminder(habit models.Habit, now time.Time) (time.Time, bool) {
	if !habit.HasReminder() || !habit.IsTracked() {
		return time.Time{}, false
	}

	candidate, err := utils.AtClock(now, habit.Reminder.Time)
	if err != nil {
		return time.Time{}, false
	}
	if candidate.Before(now) {
		candidate, err = utils.AtClock(utils.StartOfDay(now).AddDate(0, 0, 1), habit.Reminder.Time)
		if err != nil {
			return time.Time{}, false
		}
	}

	switch habit.Frequency.Type {
	case models.FrequencyDaily:
	default:
		if !utils.IsActive(habit.Frequency, candidate) {
			return time.Time{}, false
		}
	}

	return candidate, true
}

// HabitReminderTrigger builds the trigger for a habit reminder at the given time.
// The trigger ID is the habit ID, so rescheduling replaces the previous one.
func (s *Scheduler) HabitReminderTrigger(habit models.Habit, at time.Time) models.Trigger {
	return models.Trigger{
		ID:  habit.ID,
		Tag: constants.HabitReminderTag,
		At:  at,
		Payload: models.Payload{
			Title:   fmt.Sprintf("Reminder: %s", habit.Name),
			Body:    fmt.Sprintf("Don't forget to track your habit: %s", habit.Name),
			HabitID: habit.ID,
		},
	}
}

// IncompleteHabits returns the tracked habits due on today that have no log
// among todaysLogs.
func (s *Scheduler) IncompleteHabits(habits []models.Habit, todaysLogs []models.HabitLog, today time.Time) []models.Habit {
	logged := make(map[string]bool, len(todaysLogs))
	for _, l := range todaysLogs {
		logged[l.HabitID] = true
	}

	var incomplete []models.Habit
	for _, h := range habits {
		if !h.IsTracked() || logged[h.ID] {
			continue
		}
		if !utils.IsActive(h.Frequency, today) {
			continue
		}
		incomplete = append(incomplete, h)
	}
	return incomplete
}

// PlanPersistentSeries plans the repeating evening reminder for today.
//
// Triggers start at startTime (or now, if later) and repeat every
// intervalMinutes until the end of the day. No triggers are planned when every
// habit due today has been logged.
func (s *Scheduler) PlanPersistentSeries(startTime string, intervalMinutes int, todaysLogs []models.HabitLog, habits []models.Habit, now time.Time) ([]models.Trigger, error) {
	if intervalMinutes <= 0 {
		return nil, ErrInvalidInterval
	}

	start, err := utils.AtClock(now, startTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartTime, startTime)
	}
	end, err := utils.AtClock(now, s.endOfDay)
	if err != nil {
		return nil, fmt.Errorf("invalid end of day %q: %w", s.endOfDay, err)
	}

	incomplete := s.IncompleteHabits(habits, todaysLogs, now)
	if len(incomplete) == 0 {
		return []models.Trigger{}, nil
	}

	payload := models.Payload{
		Title:           "Incomplete Habits",
		Body:            fmt.Sprintf("You have %d habits to track today", len(incomplete)),
		IncompleteCount: len(incomplete),
	}

	step := time.Duration(intervalMinutes) * time.Minute
	at := start
	if now.After(at) {
		at = now
	}

	triggers := []models.Trigger{}
	for i := 0; at.Before(end) && i < constants.MaxTriggersPerDay; i++ {
		triggers = append(triggers, models.Trigger{
			ID:      fmt.Sprintf("%s%d", constants.PersistentReminderPrefix, constants.PersistentReminderBaseID+i),
			Tag:     constants.PersistentReminderTag,
			At:      at,
			Payload: payload,
		})
		at = at.Add(step)
	}

	return triggers, nil
}

// PersistentSeriesIDs lists every ID the persistent series can use, for
// transports that cannot cancel by tag.
func PersistentSeriesIDs() []string {
	ids := make([]string, constants.MaxTriggersPerDay)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%d", constants.PersistentReminderPrefix, constants.PersistentReminderBaseID+i)
	}
	return ids
}
