package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habits.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case refreshMsg:
		m.errText = ""
		m.status = msg.status
		if err := m.reload(); err != nil {
			m.errText = err.Error()
		}
		return m, nil

	case errMsg:
		m.status = ""
		m.errText = ""
		if errors.IsRecoverable(msg.err) {
			m.status = "Nothing to do: " + msg.err.Error()
		} else {
			logger.Error("TUI action failed", "error", msg.err)
			m.errText = msg.err.Error()
		}
		return m, nil

	case constants.ConfirmationMsg:
		m.pending = &msg
		m.previous = m.state
		m.state = constants.StateConfirmDelete
		return m, nil

	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{Frequency: "daily"}
		m.form = newHabitForm(m.habitForm)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.CompleteHabitMsg:
		return m, m.complete(msg.Name)

	case habits.UndoHabitMsg:
		return m, m.undo(msg.Name, msg.Date)

	case habits.DeleteHabitMsg:
		return m, m.confirmDelete(msg.Name)
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.habits.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			if m.state == constants.StateStats {
				m.state = constants.StateHabits
			} else {
				m.state = constants.StateStats
			}
			return m, nil
		}
	}

	if m.state != constants.StateHabits {
		return m, nil
	}
	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.state = constants.StateHabits
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		fm := *m.habitForm
		m.state = constants.StateHabits
		m.form = nil
		return m, tea.Batch(cmd, m.createHabit(fm))
	case huh.StateAborted:
		m.state = constants.StateHabits
		m.form = nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Confirm):
		var cmd tea.Cmd
		if m.pending != nil && m.pending.Action != nil {
			cmd = m.pending.Action()
		}
		m.pending = nil
		m.state = m.previous
		return m, cmd
	case key.Matches(k, m.keys.Cancel):
		m.pending = nil
		m.state = m.previous
	}
	return m, nil
}
