package constants

const (
	// Persisted settings keys
	SettingTimezone           = "timezone"
	SettingDefaultReportRange = "default_report_range"
	SettingNotifyOnTarget     = "notify_on_target"

	// Default Settings Values
	DefaultTimezone       = "Local" // Use system local timezone by default
	DefaultReportRange    = "rolling"
	DefaultNotifyOnTarget = true

	// Environment overrides
	EnvDatabase = "DAYSPENT_DB"
	EnvOwner    = "DAYSPENT_OWNER"
	EnvDebug    = "DAYSPENT_DEBUG"
)
