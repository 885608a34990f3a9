package constants

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current state of the TUI application
type SessionState int

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.1.0"

	// KeyringConfigValue selects the connection string stored in the OS keyring.
	KeyringConfigValue = "keyring"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"
	// MonthFormat selects a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// MaxNameLength bounds user and habit names, counted in runes.
	MaxNameLength = 64

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// LockfileName is created next to the database while a session is open.
	LockfileName = "habitual.lock"

	// Sample data
	SampleUserName   = "SampleUser"
	SampleDays       = 28
	SampleDailyRate  = 0.8
	SampleWeeklyRate = 0.9
)

// Session States
const (
	StateHabits SessionState = iota
	StateStats
	StateAddHabit
	StateConfirmDelete
)
