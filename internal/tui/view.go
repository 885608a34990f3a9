package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.habits.View())
	case constants.StateStats:
		content = docStyle.Render(m.viewStats())
	case constants.StateAddHabit:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirm()
	}

	parts := []string{m.viewTabs(), content}
	switch {
	case m.errText != "":
		parts = append(parts, dangerStyle.Render("Error: "+m.errText))
	case m.status != "":
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := constants.StateHabits
	if m.state == constants.StateStats {
		active = constants.StateStats
	}

	tabs := []string{activeTabStyle.Render(m.user.Username)}
	for _, tab := range []struct {
		title string
		state constants.SessionState
	}{
		{"Habits", constants.StateHabits},
		{"Stats", constants.StateStats},
	} {
		if tab.state == active {
			tabs = append(tabs, activeTabStyle.Render(tab.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStats() string {
	s, err := analytics.Summarize(m.all)
	if err != nil {
		return warningStyle.Render("No habits to analyze yet.")
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("%d habit(s)", s.Habits)))
	b.WriteString("\n")
	writeResult(&b, "Longest streak", s.LongestStreak)
	writeResult(&b, "Most completed", s.MostCompleted)
	writeResult(&b, "Least completed", s.LeastCompleted)
	fmt.Fprintf(&b, "  %-16s %.1f\n", "Average streak", s.AverageStreak)

	for _, c := range []analytics.CadenceSummary{s.Daily, s.Weekly} {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render(fmt.Sprintf("%s (%d)", c.Cadence, c.Habits)))
		b.WriteString("\n")
		writeResult(&b, "Longest streak", c.LongestStreak)
		writeResult(&b, "Most completed", c.MostCompleted)
		writeResult(&b, "Least completed", c.LeastCompleted)
		fmt.Fprintf(&b, "  %-16s %.1f\n", "Average streak", c.AverageStreak)
	}
	return b.String()
}

func writeResult(b *strings.Builder, label string, r analytics.Result) {
	fmt.Fprintf(b, "  %-16s %s (%d)\n", label, r.HabitName, r.Value)
}

func (m Model) viewConfirm() string {
	msg := "Are you sure?"
	if m.pending != nil {
		msg = m.pending.Message
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(msg),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
