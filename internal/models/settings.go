package models

// Settings represents per-owner application settings
type Settings struct {
	Timezone           string `json:"timezone"`             // IANA timezone name, or "Local" for the system timezone
	DefaultReportRange string `json:"default_report_range"` // "rolling" or "calendar"
	NotifyOnTarget     bool   `json:"notify_on_target"`     // notify when a running session reaches its plan target
}
