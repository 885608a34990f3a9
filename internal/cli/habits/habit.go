package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits with their streaks."`
	Show     HabitShowCmd     `cmd:"" help:"Show one habit in detail."`
	Done     HabitDoneCmd     `cmd:"" help:"Mark a habit as done for today or a past date."`
	Undo     HabitUndoCmd     `cmd:"" help:"Remove a completion."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and its history."`
	Calendar HabitCalendarCmd `cmd:"" help:"Show a month of a habit's history."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Frequency string `short:"f" help:"Cadence: daily or weekly." default:"daily"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	h, err := ctx.Tracker.CreateHabit(user, c.Name, c.Frequency)
	if err != nil {
		return err
	}

	ctx.Printf("Added %s habit: %s\n", h.Frequency, h.Name)
	return nil
}

type HabitListCmd struct {
	Frequency string `short:"f" help:"Only list habits with this cadence (daily or weekly)."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	habits, err := ctx.Tracker.Habits(user)
	if err != nil {
		return err
	}

	if c.Frequency != "" {
		freq, err := validation.ValidateFrequency(c.Frequency)
		if err != nil {
			return err
		}
		habits = analytics.ByFrequency(habits, freq)
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today := ctx.Tracker.Today()
	width := 0
	for _, h := range habits {
		width = max(width, len(h.Name))
	}
	for _, h := range habits {
		ctx.Printf("%s  %-*s  %-6s  current %3d  longest %3d\n",
			doneMark(h, today), width, h.Name, h.Frequency, h.Streak.Current, h.Streak.LongestStreak())
	}
	return nil
}

func doneMark(h models.Habit, today time.Time) string {
	if h.CompletedInPeriod(today) {
		return "[x]"
	}
	return "[ ]"
}

type HabitShowCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(user, c.Name)
	if err != nil {
		return err
	}

	today := ctx.Tracker.Today()
	ctx.Printf("Habit:          %s\n", h.Name)
	ctx.Printf("Frequency:      %s\n", h.Frequency)
	ctx.Printf("Created:        %s\n", utils.FormatDate(h.CreatedAt.In(ctx.Tracker.Location())))
	ctx.Printf("Completions:    %d\n", h.CompletionsCount())
	if last, ok := h.LastCompletion(); ok {
		ctx.Printf("Last completed: %s\n", utils.FormatDate(last))
	}
	ctx.Printf("Current streak: %d\n", h.Streak.Current)
	ctx.Printf("Longest streak: %d\n", h.Streak.LongestStreak())
	ctx.Printf("Average streak: %.2f\n", analytics.AverageStreak(h))
	if len(h.Streak.Broken) > 0 {
		ctx.Printf("Broken streaks: %s\n", joinInts(h.Streak.Broken))
	}
	ctx.Printf("Done %-10s %s\n", periodName(h.Frequency)+":", yesNo(h.CompletedInPeriod(today)))
	return nil
}

type HabitDoneCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Past date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	var h models.Habit
	if c.Date == "" {
		h, err = ctx.Tracker.CompleteToday(user, c.Name)
	} else {
		day, perr := utils.ParsePastDate(c.Date, ctx.Tracker.Today())
		if perr != nil {
			return perr
		}
		h, err = ctx.Tracker.CompletePastDate(user, c.Name, day)
	}
	if errors.IsRecoverable(err) {
		ctx.Printf("Nothing to do: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	ctx.Printf("✓ %s done. Current streak: %d (longest %d)\n", h.Name, h.Streak.Current, h.Streak.LongestStreak())
	return nil
}

type HabitUndoCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Completion date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitUndoCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	day := ctx.Tracker.Today()
	if c.Date != "" {
		if day, err = utils.ParseDate(c.Date); err != nil {
			return err
		}
	}

	h, err := ctx.Tracker.DeleteCompletion(user, c.Name, day)
	if errors.IsRecoverable(err) {
		ctx.Printf("Nothing to do: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	ctx.Printf("Removed %s from %s. Current streak: %d (longest %d)\n",
		utils.FormatDate(day), h.Name, h.Streak.Current, h.Streak.LongestStreak())
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(user, c.Name)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q and its %d completion(s)?", h.Name, h.CompletionsCount()))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Tracker.DeleteHabit(user, h.Name); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

type HabitCalendarCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Month string `help:"Month in YYYY-MM format (default: current month)."`
}

func (c *HabitCalendarCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(user, c.Name)
	if err != nil {
		return err
	}

	today := ctx.Tracker.Today()
	year, month, err := utils.ParseMonth(c.Month, today)
	if err != nil {
		return err
	}

	ctx.Println(calendar.Render(h, year, month, today))
	return nil
}

func periodName(c streak.Cadence) string {
	if c == streak.Weekly {
		return "this week"
	}
	return "today"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
