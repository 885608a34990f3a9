package streak

import (
	"fmt"
	"slices"
	"time"
)

// UpdateKind names why a habit's completion dates changed, which in turn
// decides how its State is recalculated.
type UpdateKind int

const (
	// TodayAppend means today's date was just appended to the history.
	TodayAppend UpdateKind = iota
	// HistoryEdit covers everything else: past-date completions,
	// deletions and bulk imports.
	HistoryEdit
)

func (k UpdateKind) String() string {
	switch k {
	case TodayAppend:
		return "today-append"
	case HistoryEdit:
		return "history-edit"
	default:
		return fmt.Sprintf("UpdateKind(%d)", int(k))
	}
}

// State is the streak record owned by a single habit.
type State struct {
	Current int   `json:"current_streak"`
	Longest int   `json:"longest_streak"`
	Broken  []int `json:"broken_streak_lengths"`
}

// Update recalculates s for the given kind of change.
func (s *State) Update(kind UpdateKind, c Cadence, dates []time.Time) {
	if kind == TodayAppend {
		s.ExtendForToday(c, dates)
		return
	}
	s.Recompute(c, dates)
}

// ExtendForToday is the incremental path. The newest element of dates must
// be the completion that was just added; s must hold the state computed for
// dates without that element.
func (s *State) ExtendForToday(c Cadence, dates []time.Time) {
	if len(dates) == 0 {
		s.Current = 0
		return
	}

	sorted := sortedDays(dates)
	if len(sorted) == 1 {
		s.Current = 1
		s.Longest = max(s.Longest, 1)
		return
	}

	prev, last := sorted[len(sorted)-2], sorted[len(sorted)-1]
	if !IsConsecutive(prev, last, c) {
		if s.Current > 0 {
			s.Broken = append(s.Broken, s.Current)
		}
		s.Current = 1
		s.Longest = max(s.Longest, 1)
		return
	}

	s.Current++
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
}

// Recompute rebuilds s from scratch, ignoring whatever it held before.
func (s *State) Recompute(c Cadence, dates []time.Time) {
	runs := Runs(c, dates)
	if len(runs) == 0 {
		s.Current = 0
		s.Longest = 0
		s.Broken = []int{}
		return
	}

	s.Current = runs[len(runs)-1]
	s.Broken = slices.Clone(runs[:len(runs)-1])
	s.Longest = slices.Max(runs)
}

// LongestStreak returns the longest run recorded for the habit.
func (s State) LongestStreak() int {
	return s.Longest
}

// Total returns the number of completions accounted for by s.
func (s State) Total() int {
	total := s.Current
	for _, n := range s.Broken {
		total += n
	}
	return total
}

// Lengths returns every positive run length in chronological order: the
// broken runs followed by the current one.
func (s State) Lengths() []int {
	lengths := slices.Clone(s.Broken)
	if s.Current > 0 {
		lengths = append(lengths, s.Current)
	}
	return lengths
}

// Equal reports whether s and o hold the same values. A nil and an empty
// broken history compare equal.
func (s State) Equal(o State) bool {
	return s.Current == o.Current && s.Longest == o.Longest && slices.Equal(s.Broken, o.Broken)
}

func (s State) String() string {
	return fmt.Sprintf("current=%d longest=%d broken=%v", s.Current, s.Longest, s.Broken)
}

// Runs splits dates into maximal runs of consecutive periods and returns
// their lengths in chronological order.
func Runs(c Cadence, dates []time.Time) []int {
	if len(dates) == 0 {
		return nil
	}

	sorted := sortedDays(dates)
	var runs []int
	run := 1
	for i := 1; i < len(sorted); i++ {
		if IsConsecutive(sorted[i-1], sorted[i], c) {
			run++
			continue
		}
		runs = append(runs, run)
		run = 1
	}
	return append(runs, run)
}

func sortedDays(dates []time.Time) []time.Time {
	sorted := make([]time.Time, len(dates))
	for i, d := range dates {
		sorted[i] = Day(d)
	}
	slices.SortFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })
	return sorted
}
