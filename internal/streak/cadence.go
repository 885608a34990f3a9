package streak

import (
	"fmt"
	"strings"
	"time"
)

// Cadence is how often a habit is expected to be completed.
type Cadence string

const (
	Daily  Cadence = "daily"
	Weekly Cadence = "weekly"
)

const hoursPerDay = 24

// ParseCadence accepts "daily" or "weekly" in any letter case.
func ParseCadence(s string) (Cadence, error) {
	switch c := Cadence(strings.ToLower(strings.TrimSpace(s))); c {
	case Daily, Weekly:
		return c, nil
	default:
		return "", fmt.Errorf("unknown cadence %q (expected daily or weekly)", s)
	}
}

func (c Cadence) String() string { return string(c) }

// Valid reports whether c is one of the known cadences.
func (c Cadence) Valid() bool {
	return c == Daily || c == Weekly
}

// Day strips the clock from t and returns the civil date at midnight UTC.
// All period arithmetic operates on values produced by Day so a DST switch
// in the caller's zone can never turn a one-day gap into 23 or 25 hours.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PeriodStart returns the canonical first day of the period containing d.
// Daily periods start on the day itself, weekly periods on the Monday of
// the ISO week.
func PeriodStart(d time.Time, c Cadence) time.Time {
	day := Day(d)
	if c != Weekly {
		return day
	}
	// Monday=0 ... Sunday=6
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// PeriodsApart returns how many periods b lies after a. It is negative
// when b precedes a.
func PeriodsApart(a, b time.Time, c Cadence) int {
	days := daysBetween(PeriodStart(a, c), PeriodStart(b, c))
	if c == Weekly {
		return days / 7
	}
	return days
}

// IsConsecutive reports whether b falls in the period right after a's.
func IsConsecutive(a, b time.Time, c Cadence) bool {
	return PeriodsApart(a, b, c) == 1
}

// SamePeriod reports whether a and b fall in the same period.
func SamePeriod(a, b time.Time, c Cadence) bool {
	return PeriodsApart(a, b, c) == 0
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / hoursPerDay)
}
