// Package calendar draws a month of a habit's history as a Monday-first
// grid. Completed days are bracketed, for example [12].
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
)

// Styles controls how each kind of cell is drawn.
type Styles struct {
	Title     lipgloss.Style
	Weekday   lipgloss.Style
	Day       lipgloss.Style
	Completed lipgloss.Style
	Today     lipgloss.Style
	WeekMark  lipgloss.Style
}

// DefaultStyles are used by the CLI and the TUI.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Weekday:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Day:       lipgloss.NewStyle(),
		Completed: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Today:     lipgloss.NewStyle().Underline(true),
		WeekMark:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// PlainStyles draw without any terminal attributes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Title: plain, Weekday: plain, Day: plain, Completed: plain, Today: plain, WeekMark: plain}
}

const weekdays = " Mo  Tu  We  Th  Fr  Sa  Su"

// Render draws the month with DefaultStyles.
func Render(h models.Habit, year int, month time.Month, today time.Time) string {
	return RenderWith(DefaultStyles(), h, year, month, today)
}

// RenderWith draws the month of h. Weekly habits get a ✓ after every row
// whose ISO week holds a completion, even one from a neighbouring month.
func RenderWith(st Styles, h models.Habit, year int, month time.Month, today time.Time) string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	today = streak.Day(today)

	done := make(map[string]bool, len(h.CompletionDates))
	inMonth := 0
	for _, d := range h.CompletionDates {
		done[d.Format(time.DateOnly)] = true
		if d.Year() == year && d.Month() == month {
			inMonth++
		}
	}

	var b strings.Builder
	b.WriteString(st.Title.Render(fmt.Sprintf("%s · %s", h.Name, first.Format("January 2006"))))
	b.WriteString("\n")
	b.WriteString(st.Weekday.Render(weekdays))
	b.WriteString("\n")

	for week := streak.PeriodStart(first, streak.Weekly); !week.After(last); week = week.AddDate(0, 0, 7) {
		cells := make([]string, 0, 7)
		for i := range 7 {
			d := week.AddDate(0, 0, i)
			cells = append(cells, cell(st, d, month, done[d.Format(time.DateOnly)], d.Equal(today)))
		}
		row := strings.Join(cells, "")
		if h.Frequency == streak.Weekly && h.CompletedInPeriod(week) {
			row += " " + st.WeekMark.Render("✓")
		}
		b.WriteString(strings.TrimRight(row, " "))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%d completion(s) in %s", inMonth, first.Format("January"))
	return b.String()
}

func cell(st Styles, d time.Time, month time.Month, completed, isToday bool) string {
	if d.Month() != month {
		return "    "
	}
	if completed {
		return st.Completed.Render(fmt.Sprintf("[%2d]", d.Day()))
	}
	text := fmt.Sprintf("%2d", d.Day())
	if isToday {
		text = st.Today.Render(text)
	} else {
		text = st.Day.Render(text)
	}
	return " " + text + " "
}
