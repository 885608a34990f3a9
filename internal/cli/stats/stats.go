package stats

import (
	stderrors "errors"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/validation"
)

type StatsCmd struct {
	Frequency string `short:"f" help:"Only analyze habits with this cadence (daily or weekly)."`
	Habit     string `help:"Show the longest streak of a single habit."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	habits, err := ctx.Tracker.Habits(user)
	if err != nil {
		return err
	}

	if c.Habit != "" {
		res, err := analytics.LongestStreakForHabit(habits, c.Habit)
		if err != nil {
			return err
		}
		ctx.Printf("Longest streak for %s: %d\n", res.HabitName, res.Value)
		return nil
	}

	if c.Frequency != "" {
		freq, err := validation.ValidateFrequency(c.Frequency)
		if err != nil {
			return err
		}
		ctx.Printf("%s habits: %d\n", freq, len(analytics.ByFrequency(habits, freq)))
		printResult(ctx, "Longest streak", analytics.LongestStreakByFrequency(habits, freq))
		printResult(ctx, "Most completed", analytics.MostCompletedByFrequency(habits, freq))
		printResult(ctx, "Least completed", analytics.LeastCompletedByFrequency(habits, freq))
		ctx.Printf("  %-16s %.2f\n", "Average streak", analytics.AverageStreakByFrequency(habits, freq))
		return nil
	}

	summary, err := analytics.Summarize(habits)
	if stderrors.Is(err, errors.ErrEmptyHabitSet) {
		ctx.Println("No habits to analyze yet.")
		return nil
	}
	if err != nil {
		return err
	}

	ctx.Printf("All habits: %d\n", summary.Habits)
	printResult(ctx, "Longest streak", summary.LongestStreak)
	printResult(ctx, "Most completed", summary.MostCompleted)
	printResult(ctx, "Least completed", summary.LeastCompleted)
	ctx.Printf("  %-16s %.2f\n", "Average streak", summary.AverageStreak)

	for _, cs := range []analytics.CadenceSummary{summary.Daily, summary.Weekly} {
		ctx.Printf("\n%s habits: %d\n", cs.Cadence, cs.Habits)
		printResult(ctx, "Longest streak", cs.LongestStreak)
		printResult(ctx, "Most completed", cs.MostCompleted)
		printResult(ctx, "Least completed", cs.LeastCompleted)
		ctx.Printf("  %-16s %.2f\n", "Average streak", cs.AverageStreak)
	}
	return nil
}

func printResult(ctx *cli.Context, label string, r analytics.Result) {
	ctx.Printf("  %-16s %s (%d)\n", label, r.HabitName, r.Value)
}
