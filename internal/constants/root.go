package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.3.0"

	// EnvDBConnection holds a PostgreSQL connection string when no keyring entry exists
	EnvDBConnection = "HABITUAL_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// EndOfDay is the exclusive upper bound for persistent reminders
	EndOfDay = "23:59"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitual"
	TrayExecutablePrefix   = "habitual-tray"

	// Reminder identity. Per-habit reminders use the habit ID; the evening
	// series uses PersistentReminderPrefix + a counter starting at PersistentReminderBaseID.
	PersistentReminderTag    = "persistent"
	PersistentReminderPrefix = "persistent-"
	PersistentReminderBaseID = 1000
	HabitReminderTag         = "habit"

	// MaxTriggersPerDay bounds the persistent series: one per minute at most
	MaxTriggersPerDay = 24 * 60
)

// Session States. The first two are tabs.
const (
	StateToday SessionState = iota
	StateStats
	StateAddHabit
	StateConfirmDelete
)

// TabCount is the number of tabbed session states.
const TabCount = 2
