package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

type HabitFormModel struct {
	Name      string
	Frequency string
}

// refreshMsg reloads the habit list and shows status.
type refreshMsg struct {
	status string
}

type errMsg struct {
	err error
}

type Model struct {
	tracker  *tracker.Tracker
	user     models.User
	state    constants.SessionState
	previous constants.SessionState
	keys     KeyMap
	help     help.Model

	habits    habits.Model
	all       []models.Habit
	form      *huh.Form
	habitForm *HabitFormModel
	pending   *constants.ConfirmationMsg

	status   string
	errText  string
	quitting bool
	width    int
	height   int
}

// NewModel loads the habits of user into a new TUI model.
func NewModel(tr *tracker.Tracker, user models.User) (Model, error) {
	hs, err := tr.Habits(user)
	if err != nil {
		return Model{}, err
	}

	return Model{
		tracker: tr,
		user:    user,
		state:   constants.StateHabits,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		habits:  habits.New(hs, tr.Today(), 0, 0),
		all:     hs,
	}, nil
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case constants.StateHabits:
		hk := habits.DefaultKeyMap()
		return []key.Binding{m.keys.Tab, hk.Add, hk.Complete, hk.Undo, hk.Delete, m.keys.Quit, m.keys.Help}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload fetches the habits again and pushes them into the list.
func (m *Model) reload() error {
	hs, err := m.tracker.Habits(m.user)
	if err != nil {
		return err
	}
	m.all = hs
	m.habits.SetHabits(hs, m.tracker.Today())
	return nil
}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					_, err := validation.ValidateName(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", "daily"),
					huh.NewOption("Weekly", "weekly"),
				).
				Value(&fm.Frequency),
		),
	).WithTheme(huh.ThemeDracula())
}

// createHabit persists the submitted form.
func (m Model) createHabit(fm HabitFormModel) tea.Cmd {
	tr, user := m.tracker, m.user
	return func() tea.Msg {
		h, err := tr.CreateHabit(user, strings.TrimSpace(fm.Name), fm.Frequency)
		if err != nil {
			return errMsg{err}
		}
		return refreshMsg{status: fmt.Sprintf("Added %s habit %s", h.Frequency, h.Name)}
	}
}

func (m Model) complete(name string) tea.Cmd {
	tr, user := m.tracker, m.user
	return func() tea.Msg {
		h, err := tr.CompleteToday(user, name)
		if err != nil {
			return errMsg{err}
		}
		return refreshMsg{status: fmt.Sprintf("✓ %s done. Current streak: %d (longest %d)",
			h.Name, h.Streak.Current, h.Streak.LongestStreak())}
	}
}

func (m Model) undo(name string, day time.Time) tea.Cmd {
	tr, user := m.tracker, m.user
	return func() tea.Msg {
		h, err := tr.DeleteCompletion(user, name, day)
		if err != nil {
			return errMsg{err}
		}
		return refreshMsg{status: fmt.Sprintf("Removed %s from %s. Current streak: %d",
			utils.FormatDate(day), h.Name, h.Streak.Current)}
	}
}

// confirmDelete asks before deleting name and its history.
func (m Model) confirmDelete(name string) tea.Cmd {
	tr, user := m.tracker, m.user
	return func() tea.Msg {
		return constants.ConfirmationMsg{
			Message: fmt.Sprintf("Delete habit %q and its whole history?", name),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					if err := tr.DeleteHabit(user, name); err != nil {
						return errMsg{err}
					}
					return refreshMsg{status: "Deleted " + name}
				}
			},
		}
	}
}
