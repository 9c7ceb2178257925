package models

import (
	"fmt"
	"strconv"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
)

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		Timezone:           constants.DefaultTimezone,
		DefaultReportRange: constants.DefaultReportRange,
		NotifyOnTarget:     constants.DefaultNotifyOnTarget,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys missing from the map keep their default values.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingDefaultReportRange:
			if value != "rolling" && value != "calendar" {
				return Settings{}, fmt.Errorf("parsing default_report_range: invalid value %q", value)
			}
			settings.DefaultReportRange = value
		case constants.SettingNotifyOnTarget:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing notify_on_target: %w", err)
			}
			settings.NotifyOnTarget = b
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:           settings.Timezone,
		constants.SettingDefaultReportRange: settings.DefaultReportRange,
		constants.SettingNotifyOnTarget:     strconv.FormatBool(settings.NotifyOnTarget),
	}
}

// ApplyDefaultSettings applies default values to missing string settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.DefaultReportRange == "" {
		settings.DefaultReportRange = constants.DefaultReportRange
	}
}
