package constants

const (
	SettingTimezone    = "timezone"
	SettingDefaultUser = "default_user"

	DefaultTimezone = "Local" // Use system local timezone by default
)
