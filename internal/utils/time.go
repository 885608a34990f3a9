package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/streak"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// Today returns the civil date of now as observed in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return streak.Day(now.In(loc))
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", errors.ErrInvalidDate, s)
	}
	return streak.Day(t), nil
}

// ParsePastDate parses s and rejects dates after today.
func ParsePastDate(s string, today time.Time) (time.Time, error) {
	d, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if d.After(streak.Day(today)) {
		return time.Time{}, fmt.Errorf("%w: %s", errors.ErrFutureDate, FormatDate(d))
	}
	return d, nil
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(constants.DateFormat)
}

// ParseMonth parses a YYYY-MM string. An empty string selects the month
// containing today.
func ParseMonth(s string, today time.Time) (int, time.Month, error) {
	if strings.TrimSpace(s) == "" {
		return today.Year(), today.Month(), nil
	}
	t, err := time.Parse(constants.MonthFormat, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q (expected YYYY-MM)", errors.ErrInvalidDate, s)
	}
	return t.Year(), t.Month(), nil
}
