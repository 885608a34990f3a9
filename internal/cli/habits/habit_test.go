package habits

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/clitest"
	"github.com/julianstephens/habitual/internal/errors"
)

// Wednesday 2024-01-03.
var now = time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, input string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx, out := clitest.New(t, now, input)
	if _, err := ctx.Tracker.CreateUser("alice"); err != nil {
		t.Fatal(err)
	}
	return ctx, out
}

func run(t *testing.T, ctx *cli.Context, cmd interface{ Run(*cli.Context) error }) {
	t.Helper()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("%T.Run() error = %v", cmd, err)
	}
}

func TestAddAndList(t *testing.T) {
	ctx, out := setup(t, "")

	run(t, ctx, &HabitAddCmd{Name: "Read", Frequency: "daily"})
	run(t, ctx, &HabitAddCmd{Name: "Plan", Frequency: "weekly"})

	err := (&HabitAddCmd{Name: "Read", Frequency: "daily"}).Run(ctx)
	if !stderrors.Is(err, errors.ErrHabitExists) {
		t.Errorf("duplicate add error = %v, want ErrHabitExists", err)
	}
	err = (&HabitAddCmd{Name: "Swim", Frequency: "monthly"}).Run(ctx)
	if !stderrors.Is(err, errors.ErrInvalidFrequency) {
		t.Errorf("bad frequency error = %v, want ErrInvalidFrequency", err)
	}

	run(t, ctx, &HabitDoneCmd{Name: "Read"})
	out.Reset()
	run(t, ctx, &HabitListCmd{})
	listing := out.String()
	if !strings.Contains(listing, "[x]  Read") || !strings.Contains(listing, "[ ]  Plan") {
		t.Errorf("unexpected listing:\n%s", listing)
	}

	out.Reset()
	run(t, ctx, &HabitListCmd{Frequency: "weekly"})
	if strings.Contains(out.String(), "Read") {
		t.Errorf("weekly filter listed a daily habit:\n%s", out.String())
	}
}

func TestDoneTodayAndPast(t *testing.T) {
	ctx, out := setup(t, "")
	run(t, ctx, &HabitAddCmd{Name: "Read", Frequency: "daily"})

	run(t, ctx, &HabitDoneCmd{Name: "Read"})
	run(t, ctx, &HabitDoneCmd{Name: "Read", Date: "2024-01-02"})
	run(t, ctx, &HabitDoneCmd{Name: "Read", Date: "2024-01-01"})
	if !strings.Contains(out.String(), "Current streak: 3 (longest 3)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	// Completing twice is reported but not an error.
	out.Reset()
	run(t, ctx, &HabitDoneCmd{Name: "Read"})
	if !strings.Contains(out.String(), "Nothing to do") {
		t.Errorf("expected friendly message, got %q", out.String())
	}

	user, _ := ctx.ActiveUser()
	h, err := ctx.Tracker.Habit(user, "Read")
	if err != nil {
		t.Fatal(err)
	}
	if h.CompletionsCount() != 3 {
		t.Errorf("completions = %d, want 3", h.CompletionsCount())
	}
}

func TestDoneRejectsBadDates(t *testing.T) {
	ctx, _ := setup(t, "")
	run(t, ctx, &HabitAddCmd{Name: "Read", Frequency: "daily"})

	tests := []struct {
		date string
		want error
	}{
		{date: "2024-01-04", want: errors.ErrFutureDate},
		{date: "01/02/2024", want: errors.ErrInvalidDate},
	}
	for _, tt := range tests {
		err := (&HabitDoneCmd{Name: "Read", Date: tt.date}).Run(ctx)
		if !stderrors.Is(err, tt.want) {
			t.Errorf("date %q error = %v, want %v", tt.date, err, tt.want)
		}
	}

	err := (&HabitDoneCmd{Name: "Nope"}).Run(ctx)
	if !stderrors.Is(err, errors.ErrHabitNotFound) {
		t.Errorf("unknown habit error = %v, want ErrHabitNotFound", err)
	}
}

func TestUndo(t *testing.T) {
	ctx, out := setup(t, "")
	run(t, ctx, &HabitAddCmd{Name: "Read", Frequency: "daily"})
	run(t, ctx, &HabitDoneCmd{Name: "Read", Date: "2024-01-01"})
	run(t, ctx, &HabitDoneCmd{Name: "Read", Date: "2024-01-02"})
	run(t, ctx, &HabitDoneCmd{Name: "Read"})

	out.Reset()
	run(t, ctx, &HabitUndoCmd{Name: "Read"})
	if !strings.Contains(out.String(), "Removed 2024-01-03 from Read. Current streak: 2 (longest 2)") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	run(t, ctx, &HabitUndoCmd{Name: "Read", Date: "2023-12-25"})
	if !strings.Contains(out.String(), "Nothing to do") {
		t.Errorf("expected friendly message, got %q", out.String())
	}
}

func TestShow(t *testing.T) {
	ctx, out := setup(t, "")
	run(t, ctx, &HabitAddCmd{Name: "Plan", Frequency: "weekly"})
	run(t, ctx, &HabitDoneCmd{Name: "Plan", Date: "2023-12-20"})
	run(t, ctx, &HabitDoneCmd{Name: "Plan"})

	out.Reset()
	run(t, ctx, &HabitShowCmd{Name: "Plan"})
	got := out.String()
	for _, want := range []string{
		"Frequency:      weekly",
		"Completions:    2",
		"Current streak: 1",
		"Broken streaks: 1",
		"Average streak: 1.00",
		"Done this week: yes",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("show output missing %q:\n%s", want, got)
		}
	}
}

func TestDeleteConfirmation(t *testing.T) {
	ctx, out := setup(t, "n\n")
	run(t, ctx, &HabitAddCmd{Name: "Read", Frequency: "daily"})

	run(t, ctx, &HabitDeleteCmd{Name: "Read"})
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("expected cancellation, got %q", out.String())
	}

	run(t, ctx, &HabitDeleteCmd{Name: "Read", Yes: true})
	user, _ := ctx.ActiveUser()
	if _, err := ctx.Tracker.Habit(user, "Read"); !stderrors.Is(err, errors.ErrHabitNotFound) {
		t.Errorf("habit still present: %v", err)
	}
}

func TestCalendar(t *testing.T) {
	ctx, out := setup(t, "")
	run(t, ctx, &HabitAddCmd{Name: "Read", Frequency: "daily"})
	run(t, ctx, &HabitDoneCmd{Name: "Read", Date: "2024-01-02"})

	out.Reset()
	run(t, ctx, &HabitCalendarCmd{Name: "Read"})
	if !strings.Contains(out.String(), "[ 2]") || !strings.Contains(out.String(), "January 2024") {
		t.Errorf("unexpected calendar:\n%s", out.String())
	}

	err := (&HabitCalendarCmd{Name: "Read", Month: "2024-13"}).Run(ctx)
	if !stderrors.Is(err, errors.ErrInvalidDate) {
		t.Errorf("bad month error = %v, want ErrInvalidDate", err)
	}
}
