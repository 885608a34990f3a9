// Package tracker applies user actions to habits and persists the results.
// Each action loads the habit, runs exactly one completion operation on it
// and saves the history together with the recalculated streak.
package tracker

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// Repository is the persistence boundary the tracker needs. Every
// storage.Provider satisfies it.
type Repository interface {
	GetSettings() (models.Settings, error)

	AddUser(models.User) error
	GetUserByName(username string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	DeleteUser(id string) error

	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(userID, name string) (models.Habit, error)
	GetAllHabits(userID string) ([]models.Habit, error)
	SaveHabitProgress(models.Habit) error
	DeleteHabit(id string) error
}

type Tracker struct {
	repo  Repository
	now   func() time.Time
	loc   *time.Location
	newID func() string
}

type Option func(*Tracker)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the zone in which "today" is decided.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

func New(repo Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:  repo,
		now:   time.Now,
		loc:   time.Local,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Today returns the current civil date in the tracker's zone.
func (t *Tracker) Today() time.Time {
	return utils.Today(t.now(), t.loc)
}

// Location returns the zone in which "today" is decided.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Users

func (t *Tracker) CreateUser(name string) (models.User, error) {
	name, err := validation.ValidateName(name)
	if err != nil {
		return models.User{}, err
	}

	if _, err := t.repo.GetUserByName(name); err == nil {
		return models.User{}, fmt.Errorf("%q: %w", name, errors.ErrUserExists)
	} else if !stderrors.Is(err, errors.ErrUserNotFound) {
		return models.User{}, err
	}

	u := models.User{ID: t.newID(), Username: name, CreatedAt: t.now().UTC()}
	if err := t.repo.AddUser(u); err != nil {
		return models.User{}, err
	}
	logger.Debug("Created user", "user", u.Username, "id", u.ID)
	return u, nil
}

func (t *Tracker) Users() ([]models.User, error) {
	return t.repo.GetAllUsers()
}

func (t *Tracker) User(name string) (models.User, error) {
	return t.repo.GetUserByName(name)
}

// DeleteUser removes the user and every habit it owns.
func (t *Tracker) DeleteUser(name string) error {
	u, err := t.repo.GetUserByName(name)
	if err != nil {
		return err
	}
	if err := t.repo.DeleteUser(u.ID); err != nil {
		return err
	}
	logger.Debug("Deleted user", "user", u.Username)
	return nil
}

// ResolveUser picks the active user: the explicit name when given, else
// the default_user setting, else the only user when exactly one exists.
func (t *Tracker) ResolveUser(explicit string) (models.User, error) {
	if explicit != "" {
		return t.repo.GetUserByName(explicit)
	}

	settings, err := t.repo.GetSettings()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if settings.DefaultUser != "" {
		return t.repo.GetUserByName(settings.DefaultUser)
	}

	users, err := t.repo.GetAllUsers()
	if err != nil {
		return models.User{}, err
	}
	switch len(users) {
	case 1:
		return users[0], nil
	case 0:
		return models.User{}, fmt.Errorf("%w: create one with 'habitual user add NAME'", errors.ErrNoUserSelected)
	default:
		return models.User{}, fmt.Errorf("%w: %d users exist, pass --user or set default_user", errors.ErrNoUserSelected, len(users))
	}
}

// Habits

func (t *Tracker) CreateHabit(user models.User, name, frequency string) (models.Habit, error) {
	name, err := validation.ValidateName(name)
	if err != nil {
		return models.Habit{}, err
	}
	freq, err := validation.ValidateFrequency(frequency)
	if err != nil {
		return models.Habit{}, err
	}

	if _, err := t.repo.GetHabitByName(user.ID, name); err == nil {
		return models.Habit{}, fmt.Errorf("%q: %w", name, errors.ErrHabitExists)
	} else if !stderrors.Is(err, errors.ErrHabitNotFound) {
		return models.Habit{}, err
	}

	h := models.Habit{
		ID:              t.newID(),
		UserID:          user.ID,
		Name:            name,
		Frequency:       freq,
		CreatedAt:       t.now().UTC(),
		CompletionDates: []time.Time{},
		Streak:          streak.State{Broken: []int{}},
	}
	if err := t.repo.AddHabit(h); err != nil {
		return models.Habit{}, err
	}
	logger.Debug("Created habit", "user", user.Username, "habit", h.Name, "frequency", h.Frequency)
	return h, nil
}

func (t *Tracker) Habits(user models.User) ([]models.Habit, error) {
	return t.repo.GetAllHabits(user.ID)
}

func (t *Tracker) Habit(user models.User, name string) (models.Habit, error) {
	return t.repo.GetHabitByName(user.ID, name)
}

func (t *Tracker) DeleteHabit(user models.User, name string) error {
	h, err := t.repo.GetHabitByName(user.ID, name)
	if err != nil {
		return err
	}
	if err := t.repo.DeleteHabit(h.ID); err != nil {
		return err
	}
	logger.Debug("Deleted habit", "user", user.Username, "habit", h.Name)
	return nil
}

// Completions

// CompleteToday marks the habit done for the current period.
func (t *Tracker) CompleteToday(user models.User, name string) (models.Habit, error) {
	today := t.Today()
	return t.mutate(user, name, func(h *models.Habit) (streak.UpdateKind, error) {
		kind := h.TodayUpdateKind(today)
		return kind, h.CompleteForToday(today)
	})
}

// CompletePastDate backfills a completion on day.
func (t *Tracker) CompletePastDate(user models.User, name string, day time.Time) (models.Habit, error) {
	today := t.Today()
	return t.mutate(user, name, func(h *models.Habit) (streak.UpdateKind, error) {
		return streak.HistoryEdit, h.CompleteForPastDate(day, today)
	})
}

// DeleteCompletion removes the completion recorded on day.
func (t *Tracker) DeleteCompletion(user models.User, name string, day time.Time) (models.Habit, error) {
	return t.mutate(user, name, func(h *models.Habit) (streak.UpdateKind, error) {
		return streak.HistoryEdit, h.DeleteCompletion(day)
	})
}

// ReplaceHistory overwrites the habit's whole history and persists the
// batch-recomputed streak.
func (t *Tracker) ReplaceHistory(h *models.Habit, dates []time.Time) error {
	h.ReplaceCompletions(dates)
	if err := t.repo.SaveHabitProgress(*h); err != nil {
		return err
	}
	logStreak("Replaced history", *h, streak.HistoryEdit)
	return nil
}

// mutate applies op to the named habit and persists the result. op reports
// which streak update it applied.
func (t *Tracker) mutate(user models.User, name string, op func(*models.Habit) (streak.UpdateKind, error)) (models.Habit, error) {
	h, err := t.repo.GetHabitByName(user.ID, name)
	if err != nil {
		return models.Habit{}, err
	}

	kind, err := op(&h)
	if err != nil {
		logger.Debug("Completion rejected", "habit", h.Name, "kind", kind, "error", err)
		return h, err
	}

	if err := t.repo.SaveHabitProgress(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to save %q: %w", h.Name, err)
	}
	logStreak("Updated streak", h, kind)
	return h, nil
}

func logStreak(msg string, h models.Habit, kind streak.UpdateKind) {
	logger.Debug(msg,
		"habit", h.Name,
		"kind", kind,
		"completions", h.CompletionsCount(),
		"current", h.Streak.Current,
		"longest", h.Streak.Longest,
	)
}

// Consistency

// Check validates every habit of user against its stored history.
func (t *Tracker) Check(user models.User) (validation.ValidationResult, error) {
	habits, err := t.repo.GetAllHabits(user.ID)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	return validation.New().ValidateHabits(habits, t.Today()), nil
}

// Repair rewrites every habit with a fixable conflict through the batch
// path and returns how many were saved.
func (t *Tracker) Repair(user models.User) (int, error) {
	result, err := t.Check(user)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, id := range result.FixableHabitIDs() {
		h, err := t.repo.GetHabit(id)
		if err != nil {
			return repaired, err
		}
		if err := t.ReplaceHistory(&h, h.CompletionDates); err != nil {
			return repaired, err
		}
		logger.Info("Repaired habit", "habit", h.Name)
		repaired++
	}
	return repaired, nil
}
