package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"deskcal/internal/model"
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

const helpText = "←/→/↑/↓ select • p/n prev/next • t today • g go to month • a add • j/k choose • d delete • q quit"

func (m Model) View() string {
	grid := gridBoxStyle.Render(m.renderGrid())
	events := eventsBoxStyle.Render(m.renderEvents())

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", events))
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		fmt.Fprintf(&b, " Add event on %s: %s\n", m.ctl.SelectedDate(), m.input.View())
	case modeGoto:
		fmt.Fprintf(&b, " Go to month: %s\n", m.input.View())
	}

	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(infoStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m Model) renderTitle() string {
	ym := m.ctl.DisplayedMonth()
	mode := modeStyle.Render(fmt.Sprintf("(%s navigation)", m.ctl.Mode()))
	return titleStyle.Render(ym.String()) + " " + mode
}

func (m Model) renderGrid() string {
	grid := m.ctl.CurrentGrid()

	var rows []string
	var header strings.Builder
	for _, wd := range weekdayHeader {
		header.WriteString(weekdayStyle.Render(wd))
	}
	rows = append(rows, header.String())

	for _, week := range grid.Weeks() {
		var row strings.Builder
		for _, c := range week {
			row.WriteString(renderCell(c))
		}
		rows = append(rows, row.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c model.Cell) string {
	if c.Blank {
		return dayStyle.Render("")
	}
	label := fmt.Sprintf("%d", c.Day)
	if c.HasEvents {
		label += "•"
	}
	switch {
	case c.Selected:
		return selectedStyle.Render(label)
	case c.Today:
		return todayStyle.Render(label)
	case c.HasEvents:
		return hasEventsStyle.Render(label)
	default:
		return dayStyle.Render(label)
	}
}

func (m Model) renderEvents() string {
	sel := m.ctl.SelectedDate()

	var b strings.Builder
	b.WriteString(dateHeaderStyle.Render("Events for " + sel.String()))
	b.WriteString("\n")

	events := m.ctl.EventsForSelectedDate()
	if len(events) == 0 {
		b.WriteString(noEventsStyle.Render("No events for this date."))
		return b.String()
	}
	for i, ev := range events {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix + "- " + ev.Text)
		if i < len(events)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
