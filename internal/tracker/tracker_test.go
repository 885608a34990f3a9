package tracker

import (
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/streak"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) advance(days int) { c.now = c.now.AddDate(0, 0, days) }

func setupTestSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// setupTracker starts the clock on Monday 2024-01-01 at noon UTC.
func setupTracker(t *testing.T) (*Tracker, *clock, *sqlite.Store) {
	t.Helper()
	store := setupTestSQLiteStore(t)
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New(store, WithClock(c.Now), WithLocation(time.UTC)), c, store
}

func mustUser(t *testing.T, tr *Tracker, name string) models.User {
	t.Helper()
	u, err := tr.CreateUser(name)
	if err != nil {
		t.Fatalf("CreateUser(%q) error = %v", name, err)
	}
	return u
}

func mustHabit(t *testing.T, tr *Tracker, u models.User, name, freq string) models.Habit {
	t.Helper()
	h, err := tr.CreateHabit(u, name, freq)
	if err != nil {
		t.Fatalf("CreateHabit(%q) error = %v", name, err)
	}
	return h
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateUser(t *testing.T) {
	tr, _, _ := setupTracker(t)

	u := mustUser(t, tr, "  alice ")
	if u.Username != "alice" || u.ID == "" {
		t.Errorf("unexpected user %+v", u)
	}
	if _, err := tr.CreateUser("alice"); !stderrors.Is(err, errors.ErrUserExists) {
		t.Errorf("duplicate error = %v, want ErrUserExists", err)
	}
	if _, err := tr.CreateUser(""); !stderrors.Is(err, errors.ErrInvalidName) {
		t.Errorf("empty name error = %v, want ErrInvalidName", err)
	}
}

func TestResolveUser(t *testing.T) {
	tr, _, store := setupTracker(t)

	if _, err := tr.ResolveUser(""); !stderrors.Is(err, errors.ErrNoUserSelected) {
		t.Errorf("no users error = %v, want ErrNoUserSelected", err)
	}

	mustUser(t, tr, "alice")
	if u, err := tr.ResolveUser(""); err != nil || u.Username != "alice" {
		t.Errorf("sole user = %+v, %v", u, err)
	}

	mustUser(t, tr, "bob")
	if _, err := tr.ResolveUser(""); !stderrors.Is(err, errors.ErrNoUserSelected) {
		t.Errorf("ambiguous error = %v, want ErrNoUserSelected", err)
	}
	if u, err := tr.ResolveUser("bob"); err != nil || u.Username != "bob" {
		t.Errorf("explicit user = %+v, %v", u, err)
	}

	settings, _ := store.GetSettings()
	settings.DefaultUser = "bob"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	if u, err := tr.ResolveUser(""); err != nil || u.Username != "bob" {
		t.Errorf("default user = %+v, %v", u, err)
	}
	if _, err := tr.ResolveUser("carol"); !stderrors.Is(err, errors.ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}
}

type failingSettingsStore struct {
	*sqlite.Store
}

func (failingSettingsStore) GetSettings() (models.Settings, error) {
	return models.Settings{}, stderrors.New("settings table unreadable")
}

func TestResolveUserSettingsError(t *testing.T) {
	store := setupTestSQLiteStore(t)
	tr := New(failingSettingsStore{store}, WithLocation(time.UTC))
	mustUser(t, tr, "alice")

	_, err := tr.ResolveUser("")
	if err == nil || stderrors.Is(err, errors.ErrNoUserSelected) {
		t.Fatalf("ResolveUser() error = %v, want settings failure", err)
	}

	if u, err := tr.ResolveUser("alice"); err != nil || u.Username != "alice" {
		t.Errorf("explicit user = %+v, %v", u, err)
	}
}

func TestCreateHabit(t *testing.T) {
	tr, _, _ := setupTracker(t)
	u := mustUser(t, tr, "alice")

	h := mustHabit(t, tr, u, "Morning Meditation", "Daily")
	if h.Frequency != streak.Daily || h.UserID != u.ID {
		t.Errorf("unexpected habit %+v", h)
	}

	tests := []struct {
		name, habit, freq string
		want              error
	}{
		{name: "duplicate", habit: "Morning Meditation", freq: "daily", want: errors.ErrHabitExists},
		{name: "bad frequency", habit: "Yoga", freq: "monthly", want: errors.ErrInvalidFrequency},
		{name: "blank name", habit: " ", freq: "daily", want: errors.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.CreateHabit(u, tt.habit, tt.freq); !stderrors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompleteTodayAcrossDays(t *testing.T) {
	tr, c, _ := setupTracker(t)
	u := mustUser(t, tr, "alice")
	mustHabit(t, tr, u, "Read", "daily")

	for i := 0; i < 3; i++ {
		if _, err := tr.CompleteToday(u, "Read"); err != nil {
			t.Fatalf("day %d: CompleteToday() error = %v", i, err)
		}
		c.advance(1)
	}
	c.advance(1) // skip a day

	h, err := tr.CompleteToday(u, "Read")
	if err != nil {
		t.Fatal(err)
	}
	want := streak.State{Current: 1, Longest: 3, Broken: []int{3}}
	if !h.Streak.Equal(want) {
		t.Errorf("got %s, want %s", h.Streak, want)
	}

	stored, err := tr.Habit(u, "Read")
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Streak.Equal(want) || stored.CompletionsCount() != 4 {
		t.Errorf("persisted %s with %d completions", stored.Streak, stored.CompletionsCount())
	}
}

func TestCompleteTodayTwiceIsRecoverable(t *testing.T) {
	tr, _, _ := setupTracker(t)
	u := mustUser(t, tr, "alice")
	mustHabit(t, tr, u, "Plan", "weekly")

	if _, err := tr.CompleteToday(u, "Plan"); err != nil {
		t.Fatal(err)
	}
	_, err := tr.CompleteToday(u, "Plan")
	if !errors.IsRecoverable(err) || !stderrors.Is(err, errors.ErrAlreadyCompleted) {
		t.Fatalf("error = %v, want recoverable ErrAlreadyCompleted", err)
	}

	stored, _ := tr.Habit(u, "Plan")
	if stored.CompletionsCount() != 1 {
		t.Errorf("CompletionsCount() = %d, want 1", stored.CompletionsCount())
	}
}

func TestCompleteTodayBeforeLaterCompletion(t *testing.T) {
	tr, c, _ := setupTracker(t)
	u := mustUser(t, tr, "alice")
	mustHabit(t, tr, u, "Read", "daily")

	if _, err := tr.CompleteToday(u, "Read"); err != nil {
		t.Fatal(err)
	}
	c.advance(2)
	if _, err := tr.CompleteToday(u, "Read"); err != nil {
		t.Fatal(err)
	}

	// The clock moved back, so today now falls between recorded dates.
	c.advance(-1)
	h, err := tr.CompleteToday(u, "Read")
	if err != nil {
		t.Fatal(err)
	}
	want := streak.State{Current: 3, Longest: 3, Broken: []int{}}
	if !h.Streak.Equal(want) {
		t.Errorf("got %s, want %s", h.Streak, want)
	}
	last, _ := h.LastCompletion()
	if !last.Equal(day(2024, 1, 3)) {
		t.Errorf("LastCompletion() = %s, want 2024-01-03", last)
	}
}

func TestTodayUsesLocation(t *testing.T) {
	store := setupTestSQLiteStore(t)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	tr := New(store, WithClock(func() time.Time { return now }), WithLocation(tokyo))

	if got := tr.Today(); !got.Equal(day(2024, 1, 2)) {
		t.Errorf("Today() = %v, want 2024-01-02", got)
	}
}

func TestCompletePastDateAndDelete(t *testing.T) {
	tr, c, _ := setupTracker(t)
	u := mustUser(t, tr, "alice")
	mustHabit(t, tr, u, "Walk", "daily")
	c.advance(9) // 2024-01-10

	for _, d := range []time.Time{day(2024, 1, 1), day(2024, 1, 3), day(2024, 1, 4)} {
		if _, err := tr.CompletePastDate(u, "Walk", d); err != nil {
			t.Fatalf("CompletePastDate(%v) error = %v", d, err)
		}
	}
	h, err := tr.CompletePastDate(u, "Walk", day(2024, 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if want := (streak.State{Current: 4, Longest: 4}); !h.Streak.Equal(want) {
		t.Errorf("after backfill got %s, want %s", h.Streak, want)
	}

	if _, err := tr.CompletePastDate(u, "Walk", day(2024, 1, 11)); !stderrors.Is(err, errors.ErrFutureDate) {
		t.Errorf("future date error = %v, want ErrFutureDate", err)
	}

	h, err = tr.DeleteCompletion(u, "Walk", day(2024, 1, 4))
	if err != nil {
		t.Fatal(err)
	}
	// The deleted date was part of the only run, so longest drops too.
	if want := (streak.State{Current: 3, Longest: 3}); !h.Streak.Equal(want) {
		t.Errorf("after delete got %s, want %s", h.Streak, want)
	}

	if _, err := tr.DeleteCompletion(u, "Walk", day(2024, 1, 4)); !stderrors.Is(err, errors.ErrCompletionNotFound) {
		t.Errorf("second delete error = %v, want ErrCompletionNotFound", err)
	}
}

func TestMissingHabit(t *testing.T) {
	tr, _, _ := setupTracker(t)
	u := mustUser(t, tr, "alice")

	if _, err := tr.CompleteToday(u, "Nope"); !stderrors.Is(err, errors.ErrHabitNotFound) {
		t.Errorf("error = %v, want ErrHabitNotFound", err)
	}
	if err := tr.DeleteHabit(u, "Nope"); !stderrors.Is(err, errors.ErrHabitNotFound) {
		t.Errorf("error = %v, want ErrHabitNotFound", err)
	}
}

func TestDeleteHabitAndUser(t *testing.T) {
	tr, _, _ := setupTracker(t)
	u := mustUser(t, tr, "alice")
	mustHabit(t, tr, u, "Walk", "daily")
	mustHabit(t, tr, u, "Plan", "weekly")

	if err := tr.DeleteHabit(u, "Walk"); err != nil {
		t.Fatal(err)
	}
	habits, _ := tr.Habits(u)
	if len(habits) != 1 || habits[0].Name != "Plan" {
		t.Errorf("habits after delete = %+v", habits)
	}

	if err := tr.DeleteUser("alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.User("alice"); !stderrors.Is(err, errors.ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestCheckAndRepair(t *testing.T) {
	tr, c, store := setupTracker(t)
	u := mustUser(t, tr, "alice")
	h := mustHabit(t, tr, u, "Walk", "daily")
	c.advance(5)

	h.CompletionDates = []time.Time{day(2024, 1, 1), day(2024, 1, 2)}
	h.Streak = streak.State{Current: 5, Longest: 5}
	if err := store.SaveHabitProgress(h); err != nil {
		t.Fatal(err)
	}

	result, err := tr.Check(u)
	if err != nil {
		t.Fatal(err)
	}
	if !result.HasConflicts() {
		t.Fatal("expected drift to be reported")
	}

	n, err := tr.Repair(u)
	if err != nil || n != 1 {
		t.Fatalf("Repair() = %d, %v", n, err)
	}
	fixed, _ := tr.Habit(u, "Walk")
	if want := (streak.State{Current: 2, Longest: 2}); !fixed.Streak.Equal(want) {
		t.Errorf("repaired streak %s, want %s", fixed.Streak, want)
	}
	if result, _ := tr.Check(u); result.HasConflicts() {
		t.Errorf("conflicts remain after repair:\n%s", result.FormatReport())
	}
}
