// Package sample fills a store with a demo user and four weeks of
// randomly generated habit history.
package sample

import (
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/tracker"
)

// Definition names one predefined habit.
type Definition struct {
	Name      string
	Frequency streak.Cadence
}

// Habits are the predefined sample habits.
var Habits = []Definition{
	{Name: "Morning Meditation", Frequency: streak.Daily},
	{Name: "Read 30 Minutes", Frequency: streak.Daily},
	{Name: "Drink 2L Water", Frequency: streak.Daily},
	{Name: "Weekly Planning", Frequency: streak.Weekly},
	{Name: "Deep House Cleaning", Frequency: streak.Weekly},
}

type Options struct {
	UserName   string
	Days       int
	DailyRate  float64
	WeeklyRate float64
}

func DefaultOptions() Options {
	return Options{
		UserName:   constants.SampleUserName,
		Days:       constants.SampleDays,
		DailyRate:  constants.SampleDailyRate,
		WeeklyRate: constants.SampleWeeklyRate,
	}
}

// Result reports what Generate created.
type Result struct {
	User          models.User
	CreatedUser   bool
	CreatedHabits []string
	Habits        []models.Habit
}

// Generate ensures the sample user and habits exist, then replaces each
// sample habit's history with fresh random completions in the window
// [today-Days, today]. Habits the user added themselves are untouched.
func Generate(tr *tracker.Tracker, rng *rand.Rand, opts Options) (Result, error) {
	var res Result

	user, err := tr.User(opts.UserName)
	switch {
	case err == nil:
		logger.Debug("Sample user already exists", "user", user.Username)
	case stderrors.Is(err, errors.ErrUserNotFound):
		if user, err = tr.CreateUser(opts.UserName); err != nil {
			return res, err
		}
		res.CreatedUser = true
	default:
		return res, err
	}
	res.User = user

	today := tr.Today()
	start := today.AddDate(0, 0, -opts.Days)

	for _, def := range Habits {
		h, err := tr.Habit(user, def.Name)
		if stderrors.Is(err, errors.ErrHabitNotFound) {
			h, err = tr.CreateHabit(user, def.Name, def.Frequency.String())
			if err == nil {
				res.CreatedHabits = append(res.CreatedHabits, def.Name)
			}
		}
		if err != nil {
			return res, fmt.Errorf("sample habit %q: %w", def.Name, err)
		}

		var dates []time.Time
		switch h.Frequency {
		case streak.Weekly:
			dates = weeklyHistory(rng, start, today, opts.WeeklyRate)
		default:
			dates = dailyHistory(rng, start, today, opts.DailyRate)
		}

		if err := tr.ReplaceHistory(&h, dates); err != nil {
			return res, fmt.Errorf("sample habit %q: %w", def.Name, err)
		}
		res.Habits = append(res.Habits, h)
	}

	logger.Info("Generated sample data", "user", user.Username, "habits", len(res.Habits))
	return res, nil
}

func dailyHistory(rng *rand.Rand, start, end time.Time, rate float64) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if rng.Float64() < rate {
			dates = append(dates, d)
		}
	}
	return dates
}

// weeklyHistory picks at most one day per ISO week touching [start, end],
// never outside that window.
func weeklyHistory(rng *rand.Rand, start, end time.Time, rate float64) []time.Time {
	var dates []time.Time
	for week := streak.PeriodStart(start, streak.Weekly); !week.After(end); week = week.AddDate(0, 0, 7) {
		if rng.Float64() >= rate {
			continue
		}
		first := week
		if first.Before(start) {
			first = start
		}
		last := week.AddDate(0, 0, 6)
		if last.After(end) {
			last = end
		}
		span := streak.PeriodsApart(first, last, streak.Daily) + 1
		dates = append(dates, first.AddDate(0, 0, rng.IntN(span)))
	}
	return dates
}
