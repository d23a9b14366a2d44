package constants

const (
	SettingNotificationsEnabled       = "notifications_enabled"
	SettingNotificationStartTime      = "notification_start_time"
	SettingNotificationIntervalMin    = "notification_interval_min"
	SettingNotificationGracePeriodMin = "notification_grace_period_min"
	SettingTimezone                   = "timezone"
	SettingLastPlannedDate            = "last_planned_date"

	// Default Settings Values
	DefaultNotificationsEnabled       = true
	DefaultNotificationStartTime      = "20:00"
	DefaultNotificationIntervalMin    = 15
	DefaultNotificationGracePeriodMin = 10
	DefaultTimezone                   = "Local" // Use system local timezone by default
)
