package settings

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	NotificationsEnabled *bool   `help:"Enable or disable reminders."`
	StartTime            *string `help:"When the evening reminder series starts (HH:MM)."`
	IntervalMin          *int    `help:"Minutes between evening reminders."`
	GracePeriodMin       *int    `help:"How many minutes late a reminder may still be delivered (0 = always)."`
	Timezone             *string `help:"IANA timezone name, or 'Local' for the system timezone."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Tracker.Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		ctx.Println("\nReminder Settings:")
		ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		ctx.Printf("  Series Start:          %s\n", settings.NotificationStartTime)
		ctx.Printf("  Series Interval:       %d min\n", settings.NotificationIntervalMin)
		ctx.Printf("  Grace Period:          %d min\n", settings.NotificationGracePeriodMin)
		return nil
	}

	updated := false
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.StartTime != nil {
		if !utils.ValidateTimeFormat(*c.StartTime) {
			return fmt.Errorf("invalid start time %q (expected HH:MM)", *c.StartTime)
		}
		settings.NotificationStartTime = *c.StartTime
		updated = true
	}
	if c.IntervalMin != nil {
		settings.NotificationIntervalMin = *c.IntervalMin
		updated = true
	}
	if c.GracePeriodMin != nil {
		settings.NotificationGracePeriodMin = *c.GracePeriodMin
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Settled(ctx.Tracker.UpdateSettings(ctx.Context(), settings)); err != nil {
		return err
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
