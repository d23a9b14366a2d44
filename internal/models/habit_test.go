package models

import (
	"testing"
	"time"
)

func TestHabit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		habit   Habit
		wantErr bool
	}{
		{
			name: "valid daily habit",
			habit: Habit{
				Name:      "Read",
				Category:  CategoryEducation,
				Frequency: Frequency{Type: FrequencyDaily},
			},
			wantErr: false,
		},
		{
			name: "valid weekly habit with reminder",
			habit: Habit{
				Name:      "Gym",
				Category:  CategoryHealth,
				Frequency: Frequency{Type: FrequencyWeekly, Days: []WeekDay{Mon, Wed, Fri}},
				Reminder:  &Reminder{Enabled: true, Time: "07:30"},
			},
			wantErr: false,
		},
		{
			name: "weekly habit with no days is degenerate but valid",
			habit: Habit{
				Name:      "Someday",
				Category:  CategoryOther,
				Frequency: Frequency{Type: FrequencyWeekly},
			},
			wantErr: false,
		},
		{
			name: "empty name",
			habit: Habit{
				Name:      "   ",
				Category:  CategoryOther,
				Frequency: Frequency{Type: FrequencyDaily},
			},
			wantErr: true,
		},
		{
			name: "unknown category",
			habit: Habit{
				Name:      "Read",
				Category:  Category("hobby"),
				Frequency: Frequency{Type: FrequencyDaily},
			},
			wantErr: true,
		},
		{
			name: "unknown frequency",
			habit: Habit{
				Name:      "Read",
				Category:  CategoryOther,
				Frequency: Frequency{Type: FrequencyType("monthly")},
			},
			wantErr: true,
		},
		{
			name: "bad weekday name",
			habit: Habit{
				Name:      "Read",
				Category:  CategoryOther,
				Frequency: Frequency{Type: FrequencyWeekly, Days: []WeekDay{"Monday"}},
			},
			wantErr: true,
		},
		{
			name: "custom day out of range",
			habit: Habit{
				Name:      "Read",
				Category:  CategoryOther,
				Frequency: Frequency{Type: FrequencyCustom, CustomDays: []int{0, 7}},
			},
			wantErr: true,
		},
		{
			name: "invalid reminder time",
			habit: Habit{
				Name:      "Read",
				Category:  CategoryOther,
				Frequency: Frequency{Type: FrequencyDaily},
				Reminder:  &Reminder{Enabled: true, Time: "25:00"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.habit.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Habit.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHabit_IsTracked(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		habit Habit
		want  bool
	}{
		{name: "active", habit: Habit{}, want: true},
		{name: "archived", habit: Habit{ArchivedAt: &now}, want: false},
		{name: "deleted", habit: Habit{DeletedAt: &now}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.habit.IsTracked(); got != tt.want {
				t.Errorf("Habit.IsTracked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekDayOf(t *testing.T) {
	if got := WeekDayOf(time.Sunday); got != Sun {
		t.Errorf("WeekDayOf(Sunday) = %q, want %q", got, Sun)
	}
	if got := WeekDayOf(time.Wednesday); got != Wed {
		t.Errorf("WeekDayOf(Wednesday) = %q, want %q", got, Wed)
	}
}

func TestHabitLog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		log     HabitLog
		wantErr bool
	}{
		{name: "valid", log: HabitLog{HabitID: "h1", Date: "2026-01-15", Status: StatusDone}},
		{name: "missing habit", log: HabitLog{Date: "2026-01-15", Status: StatusDone}, wantErr: true},
		{name: "bad date", log: HabitLog{HabitID: "h1", Date: "2026/01/15", Status: StatusDone}, wantErr: true},
		{name: "pending is not a log status", log: HabitLog{HabitID: "h1", Date: "2026-01-15", Status: "pending"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.log.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("HabitLog.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
