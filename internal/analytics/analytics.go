// Package analytics reads streak state across habits. It never recomputes
// streaks; every figure comes from the state the habits already carry.
//
// When several habits tie for a maximum or minimum the first one in the
// input order wins. Callers should treat the choice as arbitrary.
package analytics

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
)

// Result pairs a habit name with the value it was selected for.
type Result struct {
	HabitName string
	Value     int
}

// NoResult is returned by the cadence-filtered selections when no habit
// has the requested cadence.
var NoResult = Result{HabitName: "None", Value: 0}

// ByFrequency returns the habits with cadence c, preserving order.
func ByFrequency(habits []models.Habit, c streak.Cadence) []models.Habit {
	var out []models.Habit
	for _, h := range habits {
		if h.Frequency == c {
			out = append(out, h)
		}
	}
	return out
}

func longest(h models.Habit) int   { return h.Streak.LongestStreak() }
func completed(h models.Habit) int { return h.CompletionsCount() }

// pick folds habits keeping the first element for which better reports a
// strict improvement.
func pick(habits []models.Habit, key func(models.Habit) int, better func(a, b int) bool) Result {
	best := Result{HabitName: habits[0].Name, Value: key(habits[0])}
	for _, h := range habits[1:] {
		if v := key(h); better(v, best.Value) {
			best = Result{HabitName: h.Name, Value: v}
		}
	}
	return best
}

func greater(a, b int) bool { return a > b }
func less(a, b int) bool    { return a < b }

func selectAll(habits []models.Habit, key func(models.Habit) int, better func(a, b int) bool) (Result, error) {
	if len(habits) == 0 {
		return Result{}, errors.ErrEmptyHabitSet
	}
	return pick(habits, key, better), nil
}

func selectByFrequency(habits []models.Habit, c streak.Cadence, key func(models.Habit) int, better func(a, b int) bool) Result {
	filtered := ByFrequency(habits, c)
	if len(filtered) == 0 {
		return NoResult
	}
	return pick(filtered, key, better)
}

// LongestStreak returns the habit with the highest longest streak.
func LongestStreak(habits []models.Habit) (Result, error) {
	return selectAll(habits, longest, greater)
}

// LongestStreakByFrequency is LongestStreak over habits with cadence c.
func LongestStreakByFrequency(habits []models.Habit, c streak.Cadence) Result {
	return selectByFrequency(habits, c, longest, greater)
}

// LongestStreakForHabit returns the longest streak of the named habit.
func LongestStreakForHabit(habits []models.Habit, name string) (Result, error) {
	for _, h := range habits {
		if h.Name == name {
			return Result{HabitName: h.Name, Value: longest(h)}, nil
		}
	}
	return Result{}, fmt.Errorf("%q: %w", name, errors.ErrHabitNotFound)
}

// MostCompleted returns the habit with the most completions.
func MostCompleted(habits []models.Habit) (Result, error) {
	return selectAll(habits, completed, greater)
}

func MostCompletedByFrequency(habits []models.Habit, c streak.Cadence) Result {
	return selectByFrequency(habits, c, completed, greater)
}

// LeastCompleted returns the habit with the fewest completions.
func LeastCompleted(habits []models.Habit) (Result, error) {
	return selectAll(habits, completed, less)
}

func LeastCompletedByFrequency(habits []models.Habit, c streak.Cadence) Result {
	return selectByFrequency(habits, c, completed, less)
}

// AverageStreak is the mean run length of one habit: its broken runs plus
// the current run when positive. It is 0 when there are no runs.
func AverageStreak(h models.Habit) float64 {
	return mean(h.Streak.Lengths())
}

// AverageStreakAll averages over the runs of every habit together.
func AverageStreakAll(habits []models.Habit) float64 {
	var lengths []int
	for _, h := range habits {
		lengths = append(lengths, h.Streak.Lengths()...)
	}
	return mean(lengths)
}

// AverageStreakByFrequency is AverageStreakAll over habits with cadence c.
func AverageStreakByFrequency(habits []models.Habit, c streak.Cadence) float64 {
	return AverageStreakAll(ByFrequency(habits, c))
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// CadenceSummary holds the cadence-filtered figures.
type CadenceSummary struct {
	Cadence        streak.Cadence
	Habits         int
	LongestStreak  Result
	MostCompleted  Result
	LeastCompleted Result
	AverageStreak  float64
}

// Summary bundles every aggregate shown by the stats screens.
type Summary struct {
	Habits         int
	LongestStreak  Result
	MostCompleted  Result
	LeastCompleted Result
	AverageStreak  float64
	Daily          CadenceSummary
	Weekly         CadenceSummary
}

// Summarize computes every aggregate at once. It fails with
// errors.ErrEmptyHabitSet when habits is empty.
func Summarize(habits []models.Habit) (Summary, error) {
	if len(habits) == 0 {
		return Summary{}, errors.ErrEmptyHabitSet
	}

	s := Summary{
		Habits:         len(habits),
		LongestStreak:  pick(habits, longest, greater),
		MostCompleted:  pick(habits, completed, greater),
		LeastCompleted: pick(habits, completed, less),
		AverageStreak:  AverageStreakAll(habits),
		Daily:          summarizeCadence(habits, streak.Daily),
		Weekly:         summarizeCadence(habits, streak.Weekly),
	}
	return s, nil
}

func summarizeCadence(habits []models.Habit, c streak.Cadence) CadenceSummary {
	return CadenceSummary{
		Cadence:        c,
		Habits:         len(ByFrequency(habits, c)),
		LongestStreak:  LongestStreakByFrequency(habits, c),
		MostCompleted:  MostCompletedByFrequency(habits, c),
		LeastCompleted: LeastCompletedByFrequency(habits, c),
		AverageStreak:  AverageStreakByFrequency(habits, c),
	}
}
