package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

func daily(id, name string) models.Habit {
	return models.Habit{
		ID:        id,
		Name:      name,
		Category:  models.CategoryHealth,
		Frequency: models.Frequency{Type: models.FrequencyDaily},
	}
}

func hasConflict(result ValidationResult, ct ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestValidateHabits_DuplicateNames(t *testing.T) {
	deletedAt := time.Now()
	gone := daily("4", "Read")
	gone.DeletedAt = &deletedAt

	habits := []models.Habit{daily("1", "Read"), daily("2", "Run"), daily("3", "Read"), gone}
	result := New().ValidateHabits(habits)

	if !hasConflict(result, ConflictDuplicateHabitName) {
		t.Fatal("Expected ConflictDuplicateHabitName conflict type")
	}
	for _, c := range result.Conflicts {
		if c.Type == ConflictDuplicateHabitName && len(c.HabitIDs) != 2 {
			t.Errorf("Expected 2 live duplicates, got %v", c.HabitIDs)
		}
	}
}

func TestValidateHabits_InvalidAndNeverActive(t *testing.T) {
	badReminder := daily("1", "Read")
	badReminder.Reminder = &models.Reminder{Enabled: true, Time: "25:00"}

	noDays := daily("2", "Gym")
	noDays.Frequency = models.Frequency{Type: models.FrequencyWeekly}

	noCustom := daily("3", "Hike")
	noCustom.Frequency = models.Frequency{Type: models.FrequencyCustom, CustomDays: []int{}}

	result := New().ValidateHabits([]models.Habit{badReminder, noDays, noCustom})

	if len(result.Conflicts) != 3 {
		t.Fatalf("Expected 3 conflicts, got %d: %s", len(result.Conflicts), result.FormatReport())
	}
	if result.Conflicts[0].Type != ConflictInvalidHabit {
		t.Errorf("Expected invalid habit first, got %s", result.Conflicts[0].Type)
	}
	if result.Conflicts[1].Type != ConflictNeverActive || result.Conflicts[2].Type != ConflictNeverActive {
		t.Errorf("Expected never-active conflicts, got %s", result.FormatReport())
	}
}

func TestValidateHabits_Clean(t *testing.T) {
	result := New().ValidateHabits([]models.Habit{daily("1", "Read"), daily("2", "Run")})
	if result.HasConflicts() {
		t.Errorf("Expected no conflicts, got %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("Unexpected report: %q", result.FormatReport())
	}
}

func TestValidateLogs(t *testing.T) {
	habits := []models.Habit{daily("h1", "Read")}
	logs := []models.HabitLog{
		{ID: "l1", HabitID: "h1", Date: "2026-01-04", Status: models.StatusDone},
		{ID: "l2", HabitID: "h1", Date: "2026-01-04", Status: models.StatusFailed},
		{ID: "l3", HabitID: "ghost", Date: "2026-01-04", Status: models.StatusDone},
		{ID: "l4", HabitID: "h1", Date: "2026-13-01", Status: models.StatusDone},
		{ID: "l5", HabitID: "h1", Date: "2026-02-01", Status: models.StatusDone},
	}

	result := New().ValidateLogs(habits, logs, "2026-01-05")

	tests := []struct {
		ct   ConflictType
		logs string
	}{
		{ConflictDuplicateLog, "l1,l2"},
		{ConflictOrphanLog, "l3"},
		{ConflictInvalidLog, "l4"},
		{ConflictFutureLog, "l5"},
	}
	for _, tt := range tests {
		t.Run(string(tt.ct), func(t *testing.T) {
			for _, c := range result.Conflicts {
				if c.Type == tt.ct {
					if got := strings.Join(c.LogIDs, ","); got != tt.logs {
						t.Errorf("Expected logs %s, got %s", tt.logs, got)
					}
					return
				}
			}
			t.Errorf("Expected %s conflict", tt.ct)
		})
	}
}

func TestValidateStatistics(t *testing.T) {
	today := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	habits := []models.Habit{daily("h1", "Read"), daily("h2", "Run"), daily("h3", "Walk")}
	logs := []models.HabitLog{
		{ID: "l1", HabitID: "h1", Date: "2026-01-05", Status: models.StatusDone},
		{ID: "l2", HabitID: "h2", Date: "2026-01-05", Status: models.StatusDone},
	}
	all := []models.HabitStatistics{
		{HabitID: "h1", TotalCompletions: 1, CurrentStreak: 1, LongestStreak: 4, CompletionRate: 100},
		{HabitID: "h2", TotalCompletions: 0},
	}

	result := New().ValidateStatistics(habits, logs, all, today)

	if len(result.Conflicts) != 2 {
		t.Fatalf("Expected 2 conflicts, got %s", result.FormatReport())
	}
	if result.Conflicts[0].HabitIDs[0] != "h2" || !strings.Contains(result.Conflicts[0].Description, "stale") {
		t.Errorf("Expected stale statistics for h2, got %+v", result.Conflicts[0])
	}
	if result.Conflicts[1].HabitIDs[0] != "h3" || !strings.Contains(result.Conflicts[1].Description, "no statistics") {
		t.Errorf("Expected missing statistics for h3, got %+v", result.Conflicts[1])
	}
}

func TestAutoFixDuplicateHabits(t *testing.T) {
	older := daily("b", "Read")
	older.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := daily("a", "Read")
	newer.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	habits := []models.Habit{newer, older}

	result := New().ValidateHabits(habits)

	var deleted []string
	actions := AutoFixDuplicateHabits(result.Conflicts, habits, func(id string) error {
		deleted = append(deleted, id)
		return nil
	})

	if len(actions) != 1 {
		t.Fatalf("Expected 1 action, got %d", len(actions))
	}
	if len(deleted) != 1 || deleted[0] != "a" {
		t.Errorf("Expected newer habit to be removed, got %v", deleted)
	}
	if !strings.Contains(actions[0].Action, "kept ID: b") {
		t.Errorf("Unexpected action: %s", actions[0].Action)
	}

	actions = AutoFixDuplicateHabits(result.Conflicts, habits, func(string) error { return errors.New("locked") })
	if len(actions) != 1 || !strings.HasPrefix(actions[0].Action, "Failed to remove duplicates") {
		t.Errorf("Expected failure action, got %+v", actions)
	}
}

func TestAutoFixOrphanLogs(t *testing.T) {
	result := New().ValidateLogs(nil, []models.HabitLog{
		{ID: "l1", HabitID: "ghost", Date: "2026-01-01", Status: models.StatusDone},
		{ID: "l2", HabitID: "ghost", Date: "2026-01-02", Status: models.StatusDone},
	}, "")

	var deleted []string
	actions := AutoFixOrphanLogs(result.Conflicts, func(id string) error {
		if id == "l2" {
			return errors.New("busy")
		}
		deleted = append(deleted, id)
		return nil
	})

	if len(actions) != 2 {
		t.Fatalf("Expected 2 actions, got %d", len(actions))
	}
	if len(deleted) != 1 || deleted[0] != "l1" {
		t.Errorf("Expected l1 deleted, got %v", deleted)
	}
	if !strings.Contains(actions[1].Action, "Failed") {
		t.Errorf("Expected failure for l2, got %s", actions[1].Action)
	}
}
