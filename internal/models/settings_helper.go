package models

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
)

// DefaultSettings returns the settings a fresh database is initialized with.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled:       constants.DefaultNotificationsEnabled,
		NotificationStartTime:      constants.DefaultNotificationStartTime,
		NotificationIntervalMin:    constants.DefaultNotificationIntervalMin,
		NotificationGracePeriodMin: constants.DefaultNotificationGracePeriodMin,
		Timezone:                   constants.DefaultTimezone,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys missing from data keep their default values.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingNotificationStartTime:
			settings.NotificationStartTime = value
		case constants.SettingNotificationIntervalMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.NotificationIntervalMin); err != nil {
				return Settings{}, fmt.Errorf("parsing notification_interval_min: %w", err)
			}
		case constants.SettingNotificationGracePeriodMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.NotificationGracePeriodMin); err != nil {
				return Settings{}, fmt.Errorf("parsing notification_grace_period_min: %w", err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingLastPlannedDate:
			settings.LastPlannedDate = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingNotificationsEnabled:       fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingNotificationStartTime:      settings.NotificationStartTime,
		constants.SettingNotificationIntervalMin:    fmt.Sprintf("%d", settings.NotificationIntervalMin),
		constants.SettingNotificationGracePeriodMin: fmt.Sprintf("%d", settings.NotificationGracePeriodMin),
		constants.SettingTimezone:                   settings.Timezone,
		constants.SettingLastPlannedDate:            settings.LastPlannedDate,
	}
}
