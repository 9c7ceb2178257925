package constants

import "time"

const (
	AppName            = "dayspent"
	DefaultKeyringUser = "database-connection"
	OwnerKeyringUser   = "current-owner"
	DefaultConfigDir   = "~/.config/dayspent"
	DefaultConfigPath  = "~/.config/dayspent/dayspent.db"
	ConfigFileName     = "config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MinutesPerDay is the planning budget for a single day type.
	MinutesPerDay = 1440

	// SecondsPerDay bounds the dashboard day ring.
	SecondsPerDay = 86400

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dayspent-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "dayspent-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.dayspentwell.tray"
	TrayAppExecutable      = "dayspent-tray"

	// Tracker defaults
	DefaultHistoryLimit = 10
	DefaultTickInterval = time.Second
	DefaultSyncInterval = 15 * time.Second
	DefaultServerAddr   = "127.0.0.1:7420"

	// OverdoneTolerance is the fraction over target after which a plan counts as overdone.
	OverdoneTolerance = 0.10
)
