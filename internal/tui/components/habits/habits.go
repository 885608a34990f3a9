package habits

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
)

type AddHabitMsg struct{}

type CompleteHabitMsg struct {
	Name string
}

// UndoHabitMsg removes the completion that marks the current period done.
type UndoHabitMsg struct {
	Name string
	Date time.Time
}

type DeleteHabitMsg struct {
	Name string
}

type Item struct {
	Habit models.Habit
	// Done is true when the current period already has a completion.
	Done bool
}

func (i Item) Title() string {
	if i.Done {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	period := "today"
	if i.Habit.Frequency == streak.Weekly {
		period = "this week"
	}
	status := "not done " + period
	if i.Done {
		status = "done " + period
	}
	return fmt.Sprintf("%s | current %d | longest %d | %s",
		i.Habit.Frequency, i.Habit.Streak.Current, i.Habit.Streak.LongestStreak(), status)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Complete key.Binding
	Undo     key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "complete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, today time.Time, width, height int) Model {
	l := list.New(items(habits, today), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Undo, keys.Delete}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func items(habits []models.Habit, today time.Time) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Habit: h, Done: h.CompletedInPeriod(today)}
	}
	return out
}

// SetHabits replaces the list contents and keeps the cursor in range.
func (m *Model) SetHabits(habits []models.Habit, today time.Time) {
	m.list.SetItems(items(habits, today))
	if idx := m.list.Index(); idx >= len(habits) && len(habits) > 0 {
		m.list.Select(len(habits) - 1)
	}
}

// Filtering reports whether the list is taking filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Habit, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CompleteHabitMsg{Name: h.Name} }
			}
		case key.Matches(msg, m.keys.Undo):
			if i, ok := m.list.SelectedItem().(Item); ok && i.Done {
				last, _ := i.Habit.LastCompletion()
				return m, func() tea.Msg { return UndoHabitMsg{Name: i.Habit.Name, Date: last} }
			}
		case key.Matches(msg, m.keys.Delete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{Name: h.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
