package models

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryHealth    Category = "health"
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryEducation Category = "education"
	CategorySocial    Category = "social"
	CategoryOther     Category = "other"
)

// Categories lists every valid habit category in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryWork,
	CategoryPersonal,
	CategoryEducation,
	CategorySocial,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type FrequencyType string

const (
	FrequencyDaily  FrequencyType = "daily"
	FrequencyWeekly FrequencyType = "weekly"
	FrequencyCustom FrequencyType = "custom"
)

// WeekDay is a three-letter English weekday name (Mon..Sun).
type WeekDay string

const (
	Mon WeekDay = "Mon"
	Tue WeekDay = "Tue"
	Wed WeekDay = "Wed"
	Thu WeekDay = "Thu"
	Fri WeekDay = "Fri"
	Sat WeekDay = "Sat"
	Sun WeekDay = "Sun"
)

var weekdayNames = map[time.Weekday]WeekDay{
	time.Sunday:    Sun,
	time.Monday:    Mon,
	time.Tuesday:   Tue,
	time.Wednesday: Wed,
	time.Thursday:  Thu,
	time.Friday:    Fri,
	time.Saturday:  Sat,
}

// WeekDayOf returns the WeekDay name for a time.Weekday.
func WeekDayOf(wd time.Weekday) WeekDay {
	return weekdayNames[wd]
}

// Valid reports whether d is one of Mon..Sun.
func (d WeekDay) Valid() bool {
	for _, name := range weekdayNames {
		if d == name {
			return true
		}
	}
	return false
}

// Frequency decides on which calendar days a habit is tracked.
// Only the field matching Type is consulted.
type Frequency struct {
	Type       FrequencyType `json:"type"`
	Days       []WeekDay     `json:"days,omitempty"`        // weekly
	CustomDays []int         `json:"custom_days,omitempty"` // custom, 0=Sunday..6=Saturday
}

func (f Frequency) Validate() error {
	switch f.Type {
	case FrequencyDaily:
		return nil
	case FrequencyWeekly:
		for _, d := range f.Days {
			if !d.Valid() {
				return fmt.Errorf("invalid weekday %q (expected Mon..Sun)", d)
			}
		}
		return nil
	case FrequencyCustom:
		for _, d := range f.CustomDays {
			if d < 0 || d > 6 {
				return fmt.Errorf("invalid custom day %d (expected 0..6)", d)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown frequency type %q", f.Type)
	}
}

type Reminder struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"` // HH:MM format
}

func (r *Reminder) Validate() error {
	if r.Time == "" {
		return fmt.Errorf("reminder time cannot be empty")
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return fmt.Errorf("invalid reminder time (expected HH:MM): %w", err)
	}
	return nil
}

// Habit represents a recurring practice to track
type Habit struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Frequency   Frequency  `json:"frequency"`
	Reminder    *Reminder  `json:"reminder,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if !h.Category.Valid() {
		return fmt.Errorf("unknown category %q", h.Category)
	}
	if err := h.Frequency.Validate(); err != nil {
		return err
	}
	if h.Reminder != nil {
		if err := h.Reminder.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsTracked reports whether the habit is neither archived nor deleted.
func (h *Habit) IsTracked() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}

// HasReminder reports whether a reminder is configured and switched on.
func (h *Habit) HasReminder() bool {
	return h.Reminder != nil && h.Reminder.Enabled
}
