package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidHabit       ConflictType = "invalid_habit"
	ConflictNeverActive        ConflictType = "never_active"
	ConflictDuplicateLog       ConflictType = "duplicate_log"
	ConflictOrphanLog          ConflictType = "orphan_log"
	ConflictInvalidLog         ConflictType = "invalid_log"
	ConflictFutureLog          ConflictType = "future_log"
	ConflictStaleStatistics    ConflictType = "stale_statistics"
)

// Conflict represents a detected problem in habits, logs or statistics
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Habit names involved
	HabitIDs    []string // IDs of habits involved (for auto-fixing)
	LogIDs      []string // IDs of logs involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks live habits for duplicate names, invalid fields and
// frequencies that can never be active.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	nameIDs := make(map[string][]string)
	var names []string
	for _, h := range habits {
		if h.DeletedAt != nil || h.Name == "" {
			continue
		}
		if _, seen := nameIDs[h.Name]; !seen {
			names = append(names, h.Name)
		}
		nameIDs[h.Name] = append(nameIDs[h.Name], h.ID)
	}
	for _, name := range names {
		if ids := nameIDs[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				HabitIDs:    ids,
			})
		}
	}

	for _, h := range habits {
		if h.DeletedAt != nil {
			continue
		}
		if err := h.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit \"%s\" is invalid: %v", h.Name, err),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		if neverActive(h.Frequency) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNeverActive,
				Description: fmt.Sprintf("Habit \"%s\" has a %s frequency with no days and is never due", h.Name, h.Frequency.Type),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		}
	}

	return result
}

// ValidateLogs checks logs against the habits they reference. habits should
// include deleted ones so that logs kept for restore are not reported.
func (v *Validator) ValidateLogs(habits []models.Habit, logs []models.HabitLog, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	type key struct{ habitID, date string }
	seen := make(map[key][]string)
	var order []key

	for _, l := range logs {
		h, ok := byID[l.HabitID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanLog,
				Description: fmt.Sprintf("Log %s on %s references missing habit %s", l.ID, l.Date, l.HabitID),
				Date:        l.Date,
				LogIDs:      []string{l.ID},
			})
			continue
		}
		if err := l.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidLog,
				Description: fmt.Sprintf("Log %s for \"%s\" is invalid: %v", l.ID, h.Name, err),
				Date:        l.Date,
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
				LogIDs:      []string{l.ID},
			})
			continue
		}
		if today != "" && l.Date > today {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureLog,
				Description: fmt.Sprintf("Log for \"%s\" is dated in the future (%s)", h.Name, l.Date),
				Date:        l.Date,
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
				LogIDs:      []string{l.ID},
			})
		}

		k := key{l.HabitID, l.Date}
		if _, ok := seen[k]; !ok {
			order = append(order, k)
		}
		seen[k] = append(seen[k], l.ID)
	}

	for _, k := range order {
		ids := seen[k]
		if len(ids) < 2 {
			continue
		}
		name := byID[k.habitID].Name
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateLog,
			Description: fmt.Sprintf("Habit \"%s\" has %d logs on %s", name, len(ids), k.date),
			Date:        k.date,
			Items:       []string{name},
			HabitIDs:    []string{k.habitID},
			LogIDs:      ids,
		})
	}

	return result
}

// ValidateStatistics reports live habits whose stored statistics disagree
// with a fresh recomputation. Longest streaks are only checked for being
// below the recomputed current streak, since history may have been unlogged.
func (v *Validator) ValidateStatistics(habits []models.Habit, logs []models.HabitLog, all []models.HabitStatistics, today time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	logsByHabit := make(map[string][]models.HabitLog)
	for _, l := range logs {
		logsByHabit[l.HabitID] = append(logsByHabit[l.HabitID], l)
	}
	statsByHabit := make(map[string]models.HabitStatistics, len(all))
	for _, st := range all {
		statsByHabit[st.HabitID] = st
	}

	for _, h := range habits {
		if h.DeletedAt != nil {
			continue
		}
		stored, ok := statsByHabit[h.ID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStaleStatistics,
				Description: fmt.Sprintf("Habit \"%s\" has no statistics record", h.Name),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		fresh := stats.Recompute(h.ID, logsByHabit[h.ID], stored.LongestStreak, today)
		if fresh.TotalCompletions != stored.TotalCompletions ||
			fresh.TotalFailures != stored.TotalFailures ||
			fresh.CurrentStreak != stored.CurrentStreak ||
			fresh.LongestStreak != stored.LongestStreak {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictStaleStatistics,
				Description: fmt.Sprintf("Statistics for \"%s\" are stale (stored %d/%d streak %d, expected %d/%d streak %d)",
					h.Name, stored.TotalCompletions, stored.TotalFailures, stored.CurrentStreak,
					fresh.TotalCompletions, fresh.TotalFailures, fresh.CurrentStreak),
				Items:    []string{h.Name},
				HabitIDs: []string{h.ID},
			})
		}
	}

	return result
}

func neverActive(f models.Frequency) bool {
	switch f.Type {
	case models.FrequencyWeekly:
		return len(f.Days) == 0
	case models.FrequencyCustom:
		return len(f.CustomDays) == 0
	}
	return false
}

// AutoFixDuplicateHabits keeps the oldest habit of each duplicate name and
// soft-deletes the others through deleteFunc.
func AutoFixDuplicateHabits(conflicts []Conflict, habits []models.Habit, deleteFunc func(id string) error) []FixAction {
	actions := []FixAction{}

	habitMap := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		habitMap[h.ID] = h
	}

	for _, conflict := range conflicts {
		if conflict.Type != ConflictDuplicateHabitName || len(conflict.HabitIDs) <= 1 {
			continue
		}

		var candidates []models.Habit
		for _, id := range conflict.HabitIDs {
			if h, ok := habitMap[id]; ok && h.DeletedAt == nil {
				candidates = append(candidates, h)
			}
		}
		if len(candidates) <= 1 {
			continue
		}

		sort.Slice(candidates, func(i, j int) bool {
			if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
				return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
			}
			return candidates[i].ID < candidates[j].ID
		})

		keep := candidates[0]
		var deletedIDs, failedIDs []string
		for _, h := range candidates[1:] {
			if err := deleteFunc(h.ID); err != nil {
				failedIDs = append(failedIDs, h.ID)
				continue
			}
			deletedIDs = append(deletedIDs, h.ID)
		}

		switch {
		case len(deletedIDs) > 0:
			msg := fmt.Sprintf("Removed %d duplicate habit(s) named \"%s\" (kept ID: %s, removed: %v)", len(deletedIDs), keep.Name, keep.ID, deletedIDs)
			if len(failedIDs) > 0 {
				msg += fmt.Sprintf(" (failed to remove: %v)", failedIDs)
			}
			actions = append(actions, FixAction{Action: msg, SourceConflict: conflict})
		case len(failedIDs) > 0:
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to remove duplicates for \"%s\": %v", keep.Name, failedIDs),
				SourceConflict: conflict,
			})
		}
	}

	return actions
}

// AutoFixOrphanLogs deletes logs whose habit no longer exists.
func AutoFixOrphanLogs(conflicts []Conflict, deleteFunc func(id string) error) []FixAction {
	actions := []FixAction{}
	for _, conflict := range conflicts {
		if conflict.Type != ConflictOrphanLog {
			continue
		}
		for _, id := range conflict.LogIDs {
			if err := deleteFunc(id); err != nil {
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Failed to remove orphan log %s: %v", id, err),
					SourceConflict: conflict,
				})
				continue
			}
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Removed orphan log %s (%s)", id, conflict.Date),
				SourceConflict: conflict,
			})
		}
	}
	return actions
}
