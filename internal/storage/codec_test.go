package storage

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

func TestWeekDaysCodec(t *testing.T) {
	days := []models.WeekDay{models.Mon, models.Wed, models.Sun}
	if got := EncodeWeekDays(days); got != "Mon,Wed,Sun" {
		t.Errorf("EncodeWeekDays() = %q", got)
	}
	if got := DecodeWeekDays("Mon,Wed,Sun"); !reflect.DeepEqual(got, days) {
		t.Errorf("DecodeWeekDays() = %v", got)
	}
	if got := DecodeWeekDays(""); got != nil {
		t.Errorf("DecodeWeekDays(\"\") = %v, want nil", got)
	}
}

func TestCustomDaysCodec(t *testing.T) {
	if got := EncodeCustomDays([]int{0, 6}); got != "0,6" {
		t.Errorf("EncodeCustomDays() = %q", got)
	}
	got, err := DecodeCustomDays("0,6")
	if err != nil || !reflect.DeepEqual(got, []int{0, 6}) {
		t.Errorf("DecodeCustomDays() = %v, %v", got, err)
	}
	if _, err := DecodeCustomDays("0,x"); err == nil {
		t.Error("DecodeCustomDays should reject non-numeric days")
	}
}

func TestHabitRowRoundTrip(t *testing.T) {
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	archived := created.Add(time.Hour)
	h := models.Habit{
		ID:         "h1",
		Name:       "Stretch",
		Category:   models.CategoryHealth,
		Frequency:  models.Frequency{Type: models.FrequencyWeekly, Days: []models.WeekDay{models.Tue}},
		Reminder:   &models.Reminder{Enabled: true, Time: "07:00"},
		CreatedAt:  created,
		UpdatedAt:  created,
		ArchivedAt: &archived,
	}

	args := HabitArgs(h)
	row := HabitRow{
		ID:              args[0].(string),
		Name:            args[1].(string),
		Description:     args[2].(string),
		Category:        args[3].(string),
		FrequencyType:   args[4].(string),
		FrequencyDays:   args[5].(string),
		CustomDays:      args[6].(string),
		ReminderEnabled: args[7].(bool),
		ReminderTime:    args[8].(sql.NullString),
		CreatedAt:       args[9].(string),
		UpdatedAt:       args[10].(string),
		ArchivedAt:      args[11].(sql.NullString),
		DeletedAt:       args[12].(sql.NullString),
	}

	got, err := row.Habit()
	if err != nil {
		t.Fatalf("Habit() failed: %v", err)
	}
	if got.Name != h.Name || !reflect.DeepEqual(got.Frequency, h.Frequency) || *got.Reminder != *h.Reminder {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.ArchivedAt == nil || !got.ArchivedAt.Equal(archived) {
		t.Errorf("ArchivedAt = %v, want %v", got.ArchivedAt, archived)
	}
	if got.DeletedAt != nil {
		t.Errorf("DeletedAt = %v, want nil", got.DeletedAt)
	}
}

func TestScheduledNotificationArgs_UTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	n := models.ScheduledNotification{ID: "x", FireAt: time.Date(2026, 1, 5, 20, 0, 0, 0, est)}
	args := ScheduledNotificationArgs(n)
	if args[2] != "2026-01-06T01:00:00Z" {
		t.Errorf("fire_at = %v, want UTC text", args[2])
	}
	if args[5].(sql.NullString).Valid {
		t.Error("empty habit id should be stored as NULL")
	}
}
