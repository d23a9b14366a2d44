package models

import (
	"fmt"
	"time"
)

// Settings represents application-wide settings
type Settings struct {
	NotificationsEnabled       bool   `json:"notifications_enabled"`         // whether reminders are scheduled at all
	NotificationStartTime      string `json:"notification_start_time"`       // when the evening reminder series starts, e.g. "20:00"
	NotificationIntervalMin    int    `json:"notification_interval_min"`     // minutes between evening reminders
	NotificationGracePeriodMin int    `json:"notification_grace_period_min"` // how late a reminder may still be delivered
	Timezone                   string `json:"timezone"`                      // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	LastPlannedDate            string `json:"last_planned_date,omitempty"`   // YYYY-MM-DD of the last day rollover, empty before the first one
}

func (s *Settings) Validate() error {
	if _, err := time.Parse("15:04", s.NotificationStartTime); err != nil {
		return fmt.Errorf("invalid notification start time (expected HH:MM): %w", err)
	}
	if s.NotificationIntervalMin < 1 {
		return fmt.Errorf("notification interval must be at least 1 minute, got %d", s.NotificationIntervalMin)
	}
	if s.NotificationGracePeriodMin < 0 {
		return fmt.Errorf("grace period cannot be negative")
	}
	if s.Timezone != "" && s.Timezone != "Local" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
		}
	}
	return nil
}
