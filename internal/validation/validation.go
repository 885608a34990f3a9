package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
)

// ValidateName trims name and checks it is non-empty and at most
// constants.MaxNameLength runes.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", errors.ErrInvalidName)
	}
	if n := utf8.RuneCountInString(name); n > constants.MaxNameLength {
		return "", fmt.Errorf("%w: %d characters exceeds the limit of %d", errors.ErrInvalidName, n, constants.MaxNameLength)
	}
	if strings.ContainsAny(name, "\n\r\t") {
		return "", fmt.Errorf("%w: name cannot contain control whitespace", errors.ErrInvalidName)
	}
	return name, nil
}

// ValidateFrequency parses s as a cadence.
func ValidateFrequency(s string) (streak.Cadence, error) {
	c, err := streak.ParseCadence(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidFrequency, err)
	}
	return c, nil
}

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidFrequency   ConflictType = "invalid_frequency"
	ConflictFutureCompletion   ConflictType = "future_completion"
	ConflictDuplicatePeriod    ConflictType = "duplicate_period"
	ConflictUnsortedHistory    ConflictType = "unsorted_history"
	ConflictStreakDrift        ConflictType = "streak_drift"
)

// Conflict is one problem found in stored habit data.
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []string
	// Fixable conflicts are repaired by rewriting the history and
	// recomputing the streak.
	Fixable bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FixableHabitIDs returns the distinct habit IDs with fixable conflicts.
func (vr *ValidationResult) FixableHabitIDs() []string {
	var ids []string
	for _, c := range vr.Conflicts {
		if !c.Fixable {
			continue
		}
		for _, id := range c.HabitIDs {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks persisted habits against the invariants the streak
// engine relies on.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks one user's habits as of today.
func (v *Validator) ValidateHabits(habits []models.Habit, today time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	today = streak.Day(today)

	byName := make(map[string][]string)
	var order []string
	for _, h := range habits {
		key := strings.ToLower(strings.TrimSpace(h.Name))
		if _, seen := byName[key]; !seen {
			order = append(order, key)
		}
		byName[key] = append(byName[key], h.ID)
	}
	for _, key := range order {
		if ids := byName[key]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Habit name %q is used by %d habits", key, len(ids)),
				HabitIDs:    ids,
			})
		}
	}

	for _, h := range habits {
		result.Conflicts = append(result.Conflicts, v.validateHabit(h, today)...)
	}

	return result
}

func (v *Validator) validateHabit(h models.Habit, today time.Time) []Conflict {
	if !h.Frequency.Valid() {
		return []Conflict{{
			Type:        ConflictInvalidFrequency,
			Description: fmt.Sprintf("Habit %q has unknown frequency %q", h.Name, h.Frequency),
			HabitIDs:    []string{h.ID},
		}}
	}

	var conflicts []Conflict

	if !slices.IsSortedFunc(h.CompletionDates, func(a, b time.Time) int { return a.Compare(b) }) {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictUnsortedHistory,
			Description: fmt.Sprintf("Habit %q has completion dates out of order", h.Name),
			HabitIDs:    []string{h.ID},
			Fixable:     true,
		})
	}

	for _, d := range h.CompletionDates {
		if d.After(today) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictFutureCompletion,
				Description: fmt.Sprintf("Habit %q has a completion in the future (%s)", h.Name, d.Format(constants.DateFormat)),
				HabitIDs:    []string{h.ID},
			})
		}
	}

	seen := make(map[time.Time]bool)
	for _, d := range h.CompletionDates {
		start := streak.PeriodStart(d, h.Frequency)
		if seen[start] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicatePeriod,
				Description: fmt.Sprintf("Habit %q has more than one completion in the %s period starting %s", h.Name, h.Frequency, start.Format(constants.DateFormat)),
				HabitIDs:    []string{h.ID},
			})
		}
		seen[start] = true
	}

	var expected streak.State
	expected.Recompute(h.Frequency, h.CompletionDates)
	if !expected.Equal(h.Streak) {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictStreakDrift,
			Description: fmt.Sprintf("Habit %q stores streak %s but its history gives %s", h.Name, h.Streak, expected),
			HabitIDs:    []string{h.ID},
			Fixable:     true,
		})
	}

	return conflicts
}
