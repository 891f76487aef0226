package calendar

import (
	"errors"
	"testing"
	"time"

	"deskcal/internal/clock"
	"deskcal/internal/model"
)

var (
	june15   = model.Date{Year: 2024, Month: time.June, Day: 15}
	fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
)

func newTestController(opts ...Option) *Controller {
	return New(append([]Option{WithClock(clock.Fixed(fixedNow))}, opts...)...)
}

func texts(events []model.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewStartsOnToday(t *testing.T) {
	c := newTestController()
	if c.SelectedDate() != june15 {
		t.Errorf("selected = %v, want %v", c.SelectedDate(), june15)
	}
	if c.DisplayedMonth() != (model.YearMonth{Year: 2024, Month: time.June}) {
		t.Errorf("displayed = %v", c.DisplayedMonth())
	}
	if c.Mode() != NavigateByMonth {
		t.Errorf("mode = %s, want month", c.Mode())
	}
}

func TestMonthGridCellCounts(t *testing.T) {
	c := newTestController()
	ym := model.YearMonth{Year: 1990, Month: time.January}
	for i := 0; i < 12*50; i++ {
		g := c.MonthGrid(ym)
		wantOffset := model.WeekdayOffset(ym)
		if g.Offset != wantOffset {
			t.Fatalf("%s: offset = %d, want %d", ym, g.Offset, wantOffset)
		}
		if len(g.Cells) != wantOffset+ym.Days() {
			t.Fatalf("%s: %d cells, want %d", ym, len(g.Cells), wantOffset+ym.Days())
		}
		for j, cell := range g.Cells {
			if (j < wantOffset) != cell.Blank {
				t.Fatalf("%s: cell %d blank = %v", ym, j, cell.Blank)
			}
		}
		ym = ym.AddMonths(1)
	}
}

func TestMonthGridLeapYears(t *testing.T) {
	c := newTestController()
	if got := len(c.MonthGrid(model.YearMonth{Year: 2024, Month: time.February}).DayCells()); got != 29 {
		t.Errorf("Feb 2024 day cells = %d, want 29", got)
	}
	if got := len(c.MonthGrid(model.YearMonth{Year: 2023, Month: time.February}).DayCells()); got != 28 {
		t.Errorf("Feb 2023 day cells = %d, want 28", got)
	}
}

func TestSelectMonthYearThenGrid(t *testing.T) {
	c := newTestController()
	if err := c.SelectMonthYear(3, 2024); err != nil {
		t.Fatalf("SelectMonthYear: %v", err)
	}
	g := c.CurrentGrid()
	if g.Offset != 5 {
		t.Errorf("offset = %d, want 5", g.Offset)
	}
	if n := len(g.DayCells()); n != 31 {
		t.Errorf("day cells = %d, want 31", n)
	}
	if c.SelectedDate() != june15 {
		t.Errorf("selection moved to %v", c.SelectedDate())
	}
}

func TestSelectMonthYearRejectsInvalid(t *testing.T) {
	c := newTestController()
	before := c.DisplayedMonth()
	for _, tc := range []struct{ month, year int }{{13, 2024}, {0, 2024}, {1, 0}, {1, 10000}} {
		if err := c.SelectMonthYear(tc.month, tc.year); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("SelectMonthYear(%d, %d) err = %v, want ErrInvalidDate", tc.month, tc.year, err)
		}
	}
	if c.DisplayedMonth() != before {
		t.Errorf("displayed month changed on error")
	}
	// Years far outside any UI picker range are fine.
	if err := c.SelectMonthYear(7, 1776); err != nil {
		t.Errorf("SelectMonthYear(7, 1776): %v", err)
	}
}

func TestGridFlags(t *testing.T) {
	c := newTestController()
	june20 := model.Date{Year: 2024, Month: time.June, Day: 20}
	if err := c.SelectDate(june20); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if _, err := c.AddEvent(model.Date{Year: 2024, Month: time.June, Day: 3}, "Dentist"); err != nil {
		t.Fatalf("AddEvent: %v", err)
	}

	g := c.CurrentGrid()
	for _, cell := range g.DayCells() {
		if cell.Today != (cell.Day == 15) {
			t.Errorf("day %d today = %v", cell.Day, cell.Today)
		}
		if cell.Selected != (cell.Day == 20) {
			t.Errorf("day %d selected = %v", cell.Day, cell.Selected)
		}
		if cell.HasEvents != (cell.Day == 3) {
			t.Errorf("day %d has events = %v", cell.Day, cell.HasEvents)
		}
	}
}

func TestAddEventRejectsBlank(t *testing.T) {
	c := newTestController()
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := c.AddEvent(june15, text); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("AddEvent(%q) err = %v, want ErrEmptyInput", text, err)
		}
	}
	if c.HasEvents(june15) || len(c.Snapshot()) != 0 {
		t.Errorf("store mutated by rejected adds")
	}
}

func TestAddEventAppendsInOrder(t *testing.T) {
	c := newTestController()
	if _, err := c.AddEvent(june15, "First"); err != nil {
		t.Fatal(err)
	}
	events, err := c.AddEvent(june15, "  Second  ")
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(texts(events), []string{"First", "Second"}) {
		t.Errorf("AddEvent returned %v", texts(events))
	}
	if !equalStrings(texts(c.EventsForSelectedDate()), []string{"First", "Second"}) {
		t.Errorf("EventsForSelectedDate = %v", texts(c.EventsForSelectedDate()))
	}
}

func TestAddEventInvalidDate(t *testing.T) {
	c := newTestController()
	if _, err := c.AddEvent(model.Date{Year: 2024, Month: time.February, Day: 30}, "x"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
}

func TestMeetingLunchScenario(t *testing.T) {
	c := newTestController()

	c.AddEvent(june15, "Meeting")
	c.AddEvent(june15, "Lunch")
	if got := texts(c.EventsForSelectedDate()); !equalStrings(got, []string{"Meeting", "Lunch"}) {
		t.Fatalf("events = %v", got)
	}

	events, err := c.DeleteEventText(june15, "Meeting")
	if err != nil {
		t.Fatalf("delete Meeting: %v", err)
	}
	if !equalStrings(texts(events), []string{"Lunch"}) {
		t.Fatalf("after delete = %v", texts(events))
	}

	events, err = c.DeleteEventText(june15, "Lunch")
	if err != nil {
		t.Fatalf("delete Lunch: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("after delete = %v", texts(events))
	}
	if c.HasEvents(june15) {
		t.Errorf("date key still present")
	}
	for _, cell := range c.CurrentGrid().DayCells() {
		if cell.HasEvents {
			t.Errorf("day %d still flagged", cell.Day)
		}
	}
}

func TestDeleteEventByIDHandlesDuplicates(t *testing.T) {
	c := newTestController()
	c.AddEvent(june15, "Standup")
	events, _ := c.AddEvent(june15, "Standup")
	second := events[1].ID

	left, err := c.DeleteEvent(june15, second)
	if err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if len(left) != 1 || left[0].ID != events[0].ID {
		t.Errorf("wrong event removed: %+v", left)
	}
}

func TestDeleteEventTextRemovesFirstMatchOnly(t *testing.T) {
	c := newTestController()
	c.AddEvent(june15, "Gym")
	c.AddEvent(june15, "Call mom")
	events, _ := c.AddEvent(june15, "Gym")
	lastGym := events[2].ID

	left, err := c.DeleteEventText(june15, " Gym ")
	if err != nil {
		t.Fatalf("DeleteEventText: %v", err)
	}
	if !equalStrings(texts(left), []string{"Call mom", "Gym"}) || left[1].ID != lastGym {
		t.Errorf("left = %+v", left)
	}
}

func TestDeleteEventNotFound(t *testing.T) {
	c := newTestController()
	if _, err := c.DeleteEvent(june15, "nope"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("missing date: err = %v", err)
	}
	c.AddEvent(june15, "Meeting")
	if _, err := c.DeleteEventText(june15, "Lunch"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("missing text: err = %v", err)
	}
	if got := texts(c.EventsOn(june15)); !equalStrings(got, []string{"Meeting"}) {
		t.Errorf("store changed on failed delete: %v", got)
	}
}

func TestReturnedEventsAreCopies(t *testing.T) {
	c := newTestController()
	events, _ := c.AddEvent(june15, "Meeting")
	events[0].Text = "Hacked"
	if c.EventsOn(june15)[0].Text != "Meeting" {
		t.Errorf("caller mutated the store")
	}
}

func TestNavigateByMonth(t *testing.T) {
	c := newTestController()
	c.NavigateNextMonth()
	c.NavigateNextMonth()
	if c.DisplayedMonth() != (model.YearMonth{Year: 2024, Month: time.August}) {
		t.Errorf("displayed = %v", c.DisplayedMonth())
	}
	for i := 0; i < 8; i++ {
		c.Previous()
	}
	if c.DisplayedMonth() != (model.YearMonth{Year: 2023, Month: time.December}) {
		t.Errorf("displayed = %v", c.DisplayedMonth())
	}
	if c.SelectedDate() != june15 {
		t.Errorf("month navigation moved the selection to %v", c.SelectedDate())
	}
}

func TestNavigateByDayResyncsMonth(t *testing.T) {
	c := newTestController(WithNavigationMode(NavigateByDay))
	if err := c.SelectDate(model.Date{Year: 2024, Month: time.June, Day: 30}); err != nil {
		t.Fatal(err)
	}
	c.Next()
	want := model.Date{Year: 2024, Month: time.July, Day: 1}
	if c.SelectedDate() != want {
		t.Errorf("selected = %v, want %v", c.SelectedDate(), want)
	}
	if c.DisplayedMonth() != want.YearMonth() {
		t.Errorf("displayed = %v, want %v", c.DisplayedMonth(), want.YearMonth())
	}
	c.Previous()
	c.Previous()
	if c.SelectedDate() != (model.Date{Year: 2024, Month: time.June, Day: 29}) {
		t.Errorf("selected = %v", c.SelectedDate())
	}
}

func TestJumpToToday(t *testing.T) {
	now := fixedNow
	c := New(WithClock(clock.Func(func() time.Time { return now })))
	c.SelectMonthYear(1, 2001)
	c.SelectDate(model.Date{Year: 2001, Month: time.January, Day: 9})

	now = time.Date(2024, time.June, 16, 0, 0, 1, 0, time.UTC)
	c.JumpToToday()

	want := model.Date{Year: 2024, Month: time.June, Day: 16}
	if c.SelectedDate() != want || c.DisplayedMonth() != want.YearMonth() {
		t.Errorf("after JumpToToday: selected %v displayed %v", c.SelectedDate(), c.DisplayedMonth())
	}
}

func TestSelectDateRejectsInvalid(t *testing.T) {
	c := newTestController()
	if err := c.SelectDate(model.Date{Year: 2024, Month: time.April, Day: 31}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("err = %v", err)
	}
	if c.SelectedDate() != june15 {
		t.Errorf("selection changed on error")
	}
}

func TestNoSelection(t *testing.T) {
	c := newTestController()
	c.selected = model.Date{}
	if _, err := c.AddEventToSelected("x"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("add: err = %v", err)
	}
	if _, err := c.DeleteEventFromSelected("x"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("delete: err = %v", err)
	}
}

func TestParseNavigationMode(t *testing.T) {
	if ParseNavigationMode(" Day ") != NavigateByDay {
		t.Errorf("day not parsed")
	}
	if ParseNavigationMode("week") != NavigateByMonth {
		t.Errorf("unknown should be month")
	}
}

func TestSnapshotOrder(t *testing.T) {
	c := newTestController()
	c.AddEvent(model.Date{Year: 2024, Month: time.July, Day: 1}, "b")
	c.AddEvent(model.Date{Year: 2023, Month: time.December, Day: 31}, "a")
	snap := c.Snapshot()
	if len(snap) != 2 || snap[0].Events[0].Text != "a" || snap[1].Events[0].Text != "b" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestRestoreEventKeepsID(t *testing.T) {
	c := newTestController()
	july4 := model.Date{Year: 2024, Month: time.July, Day: 4}

	events, err := c.RestoreEvent(june15, "id-1", "  Meeting ")
	if err != nil {
		t.Fatalf("RestoreEvent: %v", err)
	}
	if len(events) != 1 || events[0] != (model.Event{ID: "id-1", Text: "Meeting"}) {
		t.Errorf("events = %+v", events)
	}

	// IDs are unique across dates, not just within one.
	if _, err := c.RestoreEvent(july4, "id-1", "Other"); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate id err = %v", err)
	}
	if c.HasEvents(july4) {
		t.Errorf("failed restore mutated the store")
	}

	if _, err := c.RestoreEvent(june15, "id-2", "   "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("blank text err = %v", err)
	}
	if _, err := c.RestoreEvent(model.Date{Year: 2024, Month: time.February, Day: 30}, "id-3", "x"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("invalid date err = %v", err)
	}

	events, err = c.RestoreEvent(june15, "", "Lunch")
	if err != nil || len(events) != 2 || events[1].ID == "" {
		t.Errorf("empty id should get a fresh one: %+v, %v", events, err)
	}
}
