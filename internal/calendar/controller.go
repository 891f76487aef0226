package calendar

import (
	"fmt"
	"strings"
	"time"

	"deskcal/internal/clock"
	appLog "deskcal/internal/log"
	"deskcal/internal/model"
)

// NavigationMode selects what the prev/next controls step by.
type NavigationMode string

const (
	// NavigateByMonth moves the displayed month and leaves the selection.
	NavigateByMonth NavigationMode = "month"
	// NavigateByDay moves the selected date; the displayed month follows it.
	NavigateByDay NavigationMode = "day"
)

// ParseNavigationMode accepts "month" or "day"; anything else is month.
func ParseNavigationMode(s string) NavigationMode {
	if NavigationMode(strings.ToLower(strings.TrimSpace(s))) == NavigateByDay {
		return NavigateByDay
	}
	return NavigateByMonth
}

// Controller owns the view state (displayed month, selected date) and the
// event store. It is not safe for concurrent use: callers must funnel every
// operation through a single goroutine or lock.
type Controller struct {
	clock clock.Clock
	mode  NavigationMode
	store *Store

	displayed model.YearMonth
	selected  model.Date
}

// Option customizes a Controller at construction.
type Option func(*Controller)

func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

func WithNavigationMode(m NavigationMode) Option {
	return func(ctl *Controller) { ctl.mode = m }
}

// New returns a controller with an empty store, displaying and selecting
// today.
func New(opts ...Option) *Controller {
	ctl := &Controller{
		clock: clock.System{},
		mode:  NavigateByMonth,
		store: NewStore(),
	}
	for _, opt := range opts {
		opt(ctl)
	}
	today := ctl.Today()
	ctl.selected = today
	ctl.displayed = today.YearMonth()
	return ctl
}

func (c *Controller) Mode() NavigationMode { return c.mode }

func (c *Controller) DisplayedMonth() model.YearMonth { return c.displayed }

func (c *Controller) SelectedDate() model.Date { return c.selected }

// Today is recomputed from the clock on every call.
func (c *Controller) Today() model.Date { return clock.Today(c.clock) }

// NavigatePreviousMonth and NavigateNextMonth step the displayed month.
func (c *Controller) NavigatePreviousMonth() { c.shiftMonth(-1) }
func (c *Controller) NavigateNextMonth()     { c.shiftMonth(1) }

// NavigatePreviousDay and NavigateNextDay step the selection; the displayed
// month follows it.
func (c *Controller) NavigatePreviousDay() { c.shiftDay(-1) }
func (c *Controller) NavigateNextDay()     { c.shiftDay(1) }

// Previous is the "<" control for the configured navigation mode.
func (c *Controller) Previous() {
	if c.mode == NavigateByDay {
		c.NavigatePreviousDay()
		return
	}
	c.NavigatePreviousMonth()
}

// Next is the ">" control for the configured navigation mode.
func (c *Controller) Next() {
	if c.mode == NavigateByDay {
		c.NavigateNextDay()
		return
	}
	c.NavigateNextMonth()
}

func (c *Controller) shiftMonth(n int) {
	next := c.displayed.AddMonths(n)
	if !next.Valid() {
		return
	}
	c.displayed = next
	appLog.Debug("navigate month", "displayed", c.displayed.String())
}

func (c *Controller) shiftDay(n int) {
	next := c.selected.AddDays(n)
	if !next.Valid() {
		return
	}
	c.selected = next
	c.displayed = next.YearMonth()
	appLog.Debug("navigate day", "selected", c.selected.String())
}

// JumpToToday displays and selects the current date.
func (c *Controller) JumpToToday() {
	today := c.Today()
	c.selected = today
	c.displayed = today.YearMonth()
	appLog.Debug("jump to today", "today", today.String())
}

// SelectMonthYear displays the given month. The selection is kept.
func (c *Controller) SelectMonthYear(month, year int) error {
	ym, err := model.NewYearMonth(year, time.Month(month))
	if err != nil {
		return fmt.Errorf("select month: %w", err)
	}
	c.displayed = ym
	return nil
}

// SelectDate selects d without moving the displayed month.
func (c *Controller) SelectDate(d model.Date) error {
	if !d.Valid() {
		return fmt.Errorf("select date %v: %w", d, ErrInvalidDate)
	}
	c.selected = d
	return nil
}

// AddEvent appends text to d's events and returns the updated list. Blank
// text is rejected without touching the store.
func (c *Controller) AddEvent(d model.Date, text string) ([]model.Event, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("add event: %w", ErrInvalidDate)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("add event on %s: %w", d, ErrEmptyInput)
	}
	ev := model.NewEvent(text)
	events := c.store.Append(d, ev)
	appLog.Debug("event added", "date", d.String(), "id", ev.ID, "count", len(events))
	return events, nil
}

// RestoreEvent is AddEvent with a caller-supplied ID, used when re-reading
// our own exports. An ID that is already stored anywhere is ErrDuplicateID.
func (c *Controller) RestoreEvent(d model.Date, id, text string) ([]model.Event, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("restore event: %w", ErrInvalidDate)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("restore event on %s: %w", d, ErrEmptyInput)
	}
	if id == "" {
		return c.AddEvent(d, text)
	}
	if c.store.HasID(id) {
		return nil, fmt.Errorf("restore event %q: %w", id, ErrDuplicateID)
	}
	events := c.store.Append(d, model.Event{ID: id, Text: text})
	appLog.Debug("event restored", "date", d.String(), "id", id, "count", len(events))
	return events, nil
}

// AddEventToSelected is AddEvent on the selected date.
func (c *Controller) AddEventToSelected(text string) ([]model.Event, error) {
	if c.selected.IsZero() {
		return nil, ErrNoSelection
	}
	return c.AddEvent(c.selected, text)
}

// DeleteEvent removes the event with the given ID and returns what is left
// on d.
func (c *Controller) DeleteEvent(d model.Date, id string) ([]model.Event, error) {
	removed, ok := c.store.Remove(d, func(ev model.Event) bool { return ev.ID == id })
	if !ok {
		return nil, fmt.Errorf("delete event %q on %s: %w", id, d, ErrEventNotFound)
	}
	appLog.Debug("event deleted", "date", d.String(), "id", removed.ID)
	return c.store.Events(d), nil
}

// DeleteEventText removes the first event on d whose text equals text after
// trimming. Prefer DeleteEvent: equal texts cannot be told apart here.
func (c *Controller) DeleteEventText(d model.Date, text string) ([]model.Event, error) {
	text = strings.TrimSpace(text)
	removed, ok := c.store.Remove(d, func(ev model.Event) bool { return ev.Text == text })
	if !ok {
		return nil, fmt.Errorf("delete event %q on %s: %w", text, d, ErrEventNotFound)
	}
	appLog.Debug("event deleted by text", "date", d.String(), "id", removed.ID)
	return c.store.Events(d), nil
}

// DeleteEventFromSelected is DeleteEvent on the selected date.
func (c *Controller) DeleteEventFromSelected(id string) ([]model.Event, error) {
	if c.selected.IsZero() {
		return nil, ErrNoSelection
	}
	return c.DeleteEvent(c.selected, id)
}

// EventsOn returns d's events, empty when none.
func (c *Controller) EventsOn(d model.Date) []model.Event {
	return c.store.Events(d)
}

func (c *Controller) EventsForSelectedDate() []model.Event {
	return c.store.Events(c.selected)
}

// HasEvents reports whether d has at least one event.
func (c *Controller) HasEvents(d model.Date) bool {
	return c.store.Has(d)
}

// Snapshot lists every date with events in ascending order.
func (c *Controller) Snapshot() []DayEvents {
	return c.store.All()
}

// CurrentGrid is MonthGrid for the displayed month.
func (c *Controller) CurrentGrid() model.Grid {
	return c.MonthGrid(c.displayed)
}

// MonthGrid lays out ym Sunday-first: WeekdayOffset blanks, then one cell per
// day. Trailing cells of the last week are omitted.
func (c *Controller) MonthGrid(ym model.YearMonth) model.Grid {
	offset := model.WeekdayOffset(ym)
	days := ym.Days()
	today := c.Today()

	cells := make([]model.Cell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, model.Cell{Blank: true})
	}
	for day := 1; day <= days; day++ {
		d := model.Date{Year: ym.Year, Month: ym.Month, Day: day}
		cells = append(cells, model.Cell{
			Date:      d,
			Day:       day,
			Today:     d == today,
			Selected:  d == c.selected,
			HasEvents: c.store.Has(d),
		})
	}

	return model.Grid{Month: ym, Offset: offset, Cells: cells}
}
