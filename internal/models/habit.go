package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/streak"
)

// Habit is a recurring practice owned by one user. It owns its completion
// history and the streak state derived from it.
type Habit struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	Frequency streak.Cadence `json:"frequency"`
	CreatedAt time.Time      `json:"created_at"`

	// CompletionDates holds civil dates (streak.Day) in ascending order,
	// at most one per period.
	CompletionDates []time.Time  `json:"completion_dates"`
	Streak          streak.State `json:"streak"`
}

// CompletionsCount returns the number of recorded completions.
func (h *Habit) CompletionsCount() int {
	return len(h.CompletionDates)
}

// HasCompletion reports whether day is an exact recorded completion date.
func (h *Habit) HasCompletion(day time.Time) bool {
	day = streak.Day(day)
	for _, d := range h.CompletionDates {
		if d.Equal(day) {
			return true
		}
	}
	return false
}

// CompletedInPeriod reports whether any completion falls in the period
// containing day. It is computed from the history on every call.
func (h *Habit) CompletedInPeriod(day time.Time) bool {
	for _, d := range h.CompletionDates {
		if streak.SamePeriod(d, day, h.Frequency) {
			return true
		}
	}
	return false
}

// LastCompletion returns the most recent completion date. Stored
// histories are not trusted to be ordered.
func (h *Habit) LastCompletion() (time.Time, bool) {
	if len(h.CompletionDates) == 0 {
		return time.Time{}, false
	}
	return slices.MaxFunc(h.CompletionDates, compareDates), true
}

// TodayUpdateKind reports how completing today would update the streak.
// Only an ordered history whose dates all precede today is extended
// incrementally.
func (h *Habit) TodayUpdateKind(today time.Time) streak.UpdateKind {
	today = streak.Day(today)
	if !slices.IsSortedFunc(h.CompletionDates, compareDates) {
		return streak.HistoryEdit
	}
	if last, ok := h.LastCompletion(); ok && last.After(today) {
		return streak.HistoryEdit
	}
	return streak.TodayAppend
}

// CompleteForToday records a completion for today and extends the streak
// incrementally when TodayUpdateKind allows it.
func (h *Habit) CompleteForToday(today time.Time) error {
	today = streak.Day(today)
	if h.CompletedInPeriod(today) {
		return fmt.Errorf("%q for %s: %w", h.Name, periodLabel(h.Frequency), errors.ErrAlreadyCompleted)
	}
	if h.TodayUpdateKind(today) == streak.HistoryEdit {
		return h.insert(today)
	}

	h.CompletionDates = append(h.CompletionDates, today)
	h.Streak.Update(streak.TodayAppend, h.Frequency, h.CompletionDates)
	return nil
}

// CompleteForPastDate records a completion on day and recomputes the
// streak from the full history.
func (h *Habit) CompleteForPastDate(day, today time.Time) error {
	day = streak.Day(day)
	if day.After(streak.Day(today)) {
		return fmt.Errorf("%s: %w", day.Format("2006-01-02"), errors.ErrFutureDate)
	}
	if h.CompletedInPeriod(day) {
		return fmt.Errorf("%q on %s: %w", h.Name, day.Format("2006-01-02"), errors.ErrAlreadyCompleted)
	}
	return h.insert(day)
}

// DeleteCompletion removes day from the history and recomputes the streak.
func (h *Habit) DeleteCompletion(day time.Time) error {
	day = streak.Day(day)
	i := slices.IndexFunc(h.CompletionDates, func(d time.Time) bool { return d.Equal(day) })
	if i < 0 {
		return fmt.Errorf("%q on %s: %w", h.Name, day.Format("2006-01-02"), errors.ErrCompletionNotFound)
	}

	h.CompletionDates = slices.Delete(h.CompletionDates, i, i+1)
	h.Streak.Update(streak.HistoryEdit, h.Frequency, h.CompletionDates)
	return nil
}

// ReplaceCompletions swaps in a whole new history, as sample generation
// and imports do, and recomputes the streak once.
func (h *Habit) ReplaceCompletions(dates []time.Time) {
	h.CompletionDates = normalizeDates(dates)
	h.Streak.Update(streak.HistoryEdit, h.Frequency, h.CompletionDates)
}

// RecomputeStreak rebuilds the streak from the stored history and reports
// whether the previous state differed.
func (h *Habit) RecomputeStreak() bool {
	before := h.Streak
	before.Broken = slices.Clone(h.Streak.Broken)
	h.Streak.Update(streak.HistoryEdit, h.Frequency, h.CompletionDates)
	return !before.Equal(h.Streak)
}

func (h *Habit) insert(day time.Time) error {
	h.CompletionDates = normalizeDates(append(h.CompletionDates, day))
	h.Streak.Update(streak.HistoryEdit, h.Frequency, h.CompletionDates)
	return nil
}

// normalizeDates strips clocks, sorts ascending and drops exact duplicates.
func normalizeDates(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, streak.Day(d))
	}
	slices.SortFunc(out, compareDates)
	return slices.CompactFunc(out, func(a, b time.Time) bool { return a.Equal(b) })
}

func compareDates(a, b time.Time) int { return a.Compare(b) }

func periodLabel(c streak.Cadence) string {
	if c == streak.Weekly {
		return "this week"
	}
	return "today"
}
