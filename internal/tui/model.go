// Package tui is the terminal front-end: a month grid, the selected date's
// events, and prompts for adding events and jumping to a month.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"deskcal/internal/calendar"
	"deskcal/internal/config"
	appLog "deskcal/internal/log"
	"deskcal/internal/model"
)

// inputMode is what the key handler is currently collecting.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeGoto
)

// RolloverMsg is sent from the day-rollover schedule. Today is recomputed on
// every render, so receiving it is enough to refresh the is-today marker.
type RolloverMsg struct{}

// Model is the bubbletea model. The controller is only touched from Update,
// which bubbletea runs on a single goroutine.
type Model struct {
	ctl      *calendar.Controller
	yearSpan int

	mode   inputMode
	input  textinput.Model
	cursor int // index into the selected date's events

	status    string
	statusErr bool

	width  int
	height int
}

// New returns a model driving ctl. yearSpan bounds the years the goto prompt
// accepts around today; zero means config.DefaultYearSpan.
func New(ctl *calendar.Controller, yearSpan int) Model {
	if yearSpan <= 0 {
		yearSpan = config.DefaultYearSpan
	}
	return Model{ctl: ctl, yearSpan: yearSpan}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case RolloverMsg:
		appLog.Debug("tui rollover", "today", m.ctl.Today().String())
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeGoto:
			return m.updateInput(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.moveSelection(-1)
	case "right", "l":
		m.moveSelection(1)
	case "up":
		m.moveSelection(-7)
	case "down":
		m.moveSelection(7)
	case "p", "[", "pgup":
		m.ctl.Previous()
		m.cursor = 0
	case "n", "]", "pgdown":
		m.ctl.Next()
		m.cursor = 0
	case "t":
		m.ctl.JumpToToday()
		m.cursor = 0
	case "j", "tab":
		if n := len(m.ctl.EventsForSelectedDate()); n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case "k", "shift+tab":
		if n := len(m.ctl.EventsForSelectedDate()); n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
	case "a":
		return m.startInput(modeAdd, "event text")
	case "g":
		return m.startInput(modeGoto, "YYYY-MM")
	case "d", "x":
		m.deleteAtCursor()
	}
	return m, nil
}

// moveSelection steps the selection by delta days, clamped to the displayed
// month. A selection outside the displayed month restarts at its first day.
func (m *Model) moveSelection(delta int) {
	ym := m.ctl.DisplayedMonth()
	sel := m.ctl.SelectedDate()

	day := 1
	if ym.Contains(sel) {
		day = sel.Day + delta
	}
	day = max(1, min(day, ym.Days()))

	if err := m.ctl.SelectDate(model.Date{Year: ym.Year, Month: ym.Month, Day: day}); err != nil {
		m.setError(err)
		return
	}
	m.cursor = 0
}

func (m *Model) deleteAtCursor() {
	events := m.ctl.EventsForSelectedDate()
	if len(events) == 0 {
		m.setError(calendar.ErrEventNotFound)
		return
	}
	if m.cursor >= len(events) {
		m.cursor = len(events) - 1
	}
	ev := events[m.cursor]
	remaining, err := m.ctl.DeleteEventFromSelected(ev.ID)
	if err != nil {
		m.setError(err)
		return
	}
	if m.cursor >= len(remaining) && m.cursor > 0 {
		m.cursor--
	}
	m.setInfo(fmt.Sprintf("Deleted %q", ev.Text))
}

func (m Model) startInput(mode inputMode, placeholder string) (tea.Model, tea.Cmd) {
	if mode == modeAdd && m.ctl.SelectedDate().IsZero() {
		m.setError(calendar.ErrNoSelection)
		return m, nil
	}
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Focus()
	if mode == modeGoto {
		ti.CharLimit = 7
	}
	m.input = ti
	m.mode = mode
	return m, textinput.Blink
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeBrowse
		return m, nil
	case "enter":
		value := m.input.Value()
		mode := m.mode
		m.mode = modeBrowse
		if mode == modeAdd {
			m.submitAdd(value)
		} else {
			m.submitGoto(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitAdd(text string) {
	events, err := m.ctl.AddEventToSelected(text)
	if err != nil {
		m.setError(err)
		return
	}
	m.cursor = len(events) - 1
	m.setInfo("Event added")
}

func (m *Model) submitGoto(value string) {
	t, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		m.setError(fmt.Errorf("%q: %w", value, calendar.ErrInvalidDate))
		return
	}
	if !m.yearAllowed(t.Year()) {
		today := m.ctl.Today()
		m.setError(fmt.Errorf("year %d is outside %d..%d", t.Year(), today.Year-m.yearSpan, today.Year+m.yearSpan))
		return
	}
	if err := m.ctl.SelectMonthYear(int(t.Month()), t.Year()); err != nil {
		m.setError(err)
	}
}

// yearAllowed bounds the goto prompt to today's year +/- yearSpan. The
// displayed year always passes so the month can change within it.
func (m Model) yearAllowed(year int) bool {
	if year == m.ctl.DisplayedMonth().Year {
		return true
	}
	today := m.ctl.Today()
	return year >= today.Year-m.yearSpan && year <= today.Year+m.yearSpan
}

func (m *Model) setError(err error) {
	appLog.Debug("tui action failed", "reason", err.Error())
	m.status = statusMessage(err)
	m.statusErr = true
}

func (m *Model) setInfo(s string) {
	m.status = s
	m.statusErr = false
}

func statusMessage(err error) string {
	switch {
	case errors.Is(err, calendar.ErrEmptyInput):
		return "Please enter some text for the event."
	case errors.Is(err, calendar.ErrNoSelection):
		return "Please select a date first."
	case errors.Is(err, calendar.ErrEventNotFound):
		return "No event to delete."
	case errors.Is(err, calendar.ErrInvalidDate):
		return "That date is not valid."
	default:
		return err.Error()
	}
}
