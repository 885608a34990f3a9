package storage

import "github.com/julianstephens/habitual/internal/models"

// Provider is a persistent habit repository. Habits are always returned
// with their completion history and persisted streak state loaded.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Users
	AddUser(models.User) error
	GetUserByName(username string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	// DeleteUser removes the user together with all of its habits and
	// streak rows in one transaction.
	DeleteUser(id string) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(userID, name string) (models.Habit, error)
	GetAllHabits(userID string) ([]models.Habit, error)
	// SaveHabitProgress writes the completion history and all streak
	// fields of h atomically.
	SaveHabitProgress(h models.Habit) error
	DeleteHabit(id string) error

	// Utils
	GetConfigPath() string
}

// SchemaManager is implemented by the SQL-backed providers.
type SchemaManager interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
	Ping() error
}
