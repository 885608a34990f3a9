package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/logger"
)

var (
	// ErrAlreadyCompleted is returned when the period (or exact date) being
	// completed already has a completion. No state was changed.
	ErrAlreadyCompleted = errors.New("habit already completed")
	// ErrCompletionNotFound is returned when deleting a completion date
	// that is not recorded. No state was changed.
	ErrCompletionNotFound = errors.New("completion not found")
	// ErrInvalidDate is returned for date input that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrFutureDate is returned when a past-date completion lies after today.
	ErrFutureDate = errors.New("date is in the future")
	// ErrEmptyHabitSet is returned by aggregates that are undefined over
	// zero habits.
	ErrEmptyHabitSet = errors.New("no habits to analyze")

	ErrHabitNotFound    = errors.New("habit not found")
	ErrHabitExists      = errors.New("habit already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrNoUserSelected   = errors.New("no user selected")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrSessionLocked is returned when another live process holds the
	// session lock for the same database.
	ErrSessionLocked = errors.New("another habitual session is running")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// IsRecoverable reports whether err is a user-facing outcome that leaves
// all state untouched and should not fail the command.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrAlreadyCompleted) || errors.Is(err, ErrCompletionNotFound)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
