package models

import (
	"github.com/julianstephens/habitual/internal/constants"
)

// Settings represents application settings
type Settings struct {
	Timezone    string `json:"timezone"`     // IANA timezone name, or "Local" for the system zone
	DefaultUser string `json:"default_user"` // username used when --user is not given
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{Timezone: constants.DefaultTimezone}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Unknown keys are ignored.
func MapToSettings(data map[string]string) Settings {
	settings := DefaultSettings()
	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			if value != "" {
				settings.Timezone = value
			}
		case constants.SettingDefaultUser:
			settings.DefaultUser = value
		}
	}
	return settings
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:    settings.Timezone,
		constants.SettingDefaultUser: settings.DefaultUser,
	}
}
