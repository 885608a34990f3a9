package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
)

// Completion dates and broken streak lengths are stored as comma-joined
// text columns. An empty string is an empty list.

func EncodeDates(dates []time.Time) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format(constants.DateFormat)
	}
	return strings.Join(parts, ",")
}

func DecodeDates(s string) ([]time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return []time.Time{}, nil
	}
	parts := strings.Split(s, ",")
	dates := make([]time.Time, 0, len(parts))
	for _, p := range parts {
		d, err := time.Parse(constants.DateFormat, strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid completion date %q: %w", p, err)
		}
		dates = append(dates, streak.Day(d))
	}
	return dates, nil
}

func EncodeInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func DecodeInts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid streak length %q: %w", p, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// FormatTimestamp and ParseTimestamp handle created_at columns.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// HabitRow is the flattened habits+streaks row shared by the SQL backends.
type HabitRow struct {
	ID, UserID, Name, Frequency, CreatedAt string
	CompletionDates, BrokenHistory         string
	Current, Longest                       int
}

// ToHabit decodes r into a habit.
func (r HabitRow) ToHabit() (models.Habit, error) {
	freq, err := streak.ParseCadence(r.Frequency)
	if err != nil {
		return models.Habit{}, err
	}
	created, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return models.Habit{}, err
	}
	dates, err := DecodeDates(r.CompletionDates)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q: %w", r.Name, err)
	}
	broken, err := DecodeInts(r.BrokenHistory)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q: %w", r.Name, err)
	}
	return models.Habit{
		ID:              r.ID,
		UserID:          r.UserID,
		Name:            r.Name,
		Frequency:       freq,
		CreatedAt:       created,
		CompletionDates: dates,
		Streak:          streak.State{Current: r.Current, Longest: r.Longest, Broken: broken},
	}, nil
}
