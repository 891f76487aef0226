package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidDate is returned when a year/month/day triple does not name a
// real calendar date.
var ErrInvalidDate = errors.New("invalid date")

const (
	MinYear = 1
	MaxYear = 9999

	// DateLayout is the wire/display format for dates (ISO 8601).
	DateLayout = "2006-01-02"
)

// Date is a calendar date with no time-of-day component. The zero value
// means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates y/m/d against the proleptic Gregorian calendar.
func NewDate(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return d, nil
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Valid reports whether d names a real date within [MinYear, MaxYear].
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear {
		return false
	}
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysIn(d.Year, d.Month)
}

func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of d. UTC avoids DST gaps in day arithmetic.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Date) YearMonth() YearMonth { return YearMonth{Year: d.Year, Month: d.Month} }

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText/UnmarshalText make Date usable directly in JSON and YAML.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// YearMonth identifies a displayed month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func NewYearMonth(year int, month time.Month) (YearMonth, error) {
	ym := YearMonth{Year: year, Month: month}
	if !ym.Valid() {
		return YearMonth{}, fmt.Errorf("%w: month %d of year %d", ErrInvalidDate, int(month), year)
	}
	return ym, nil
}

func (ym YearMonth) Valid() bool {
	return ym.Year >= MinYear && ym.Year <= MaxYear &&
		ym.Month >= time.January && ym.Month <= time.December
}

// First returns the first day of the month.
func (ym YearMonth) First() Date { return Date{Year: ym.Year, Month: ym.Month, Day: 1} }

// Days returns the month length (28/29/30/31).
func (ym YearMonth) Days() int { return DaysIn(ym.Year, ym.Month) }

// AddMonths shifts by n calendar months. There is no day-of-month to clamp.
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.Year*12 + int(ym.Month-1) + n
	return YearMonth{Year: floorDiv(idx, 12), Month: time.Month(idx-floorDiv(idx, 12)*12) + 1}
}

func (ym YearMonth) Contains(d Date) bool {
	return d.Year == ym.Year && d.Month == ym.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%s %d", ym.Month, ym.Year)
}

// DaysIn returns the number of days in the given month, leap-year aware.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekdayOffset is the number of leading blank cells in a Sunday-first grid:
// ISO weekday (Mon=1..Sun=7) of the 1st, modulo 7. That is exactly Go's
// time.Weekday numbering.
func WeekdayOffset(ym YearMonth) int {
	iso := int(ym.First().Weekday())
	if iso == 0 {
		iso = 7
	}
	return iso % 7
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Event is a single free-text entry attached to a date.
type Event struct {
	// ID is assigned at creation and is the only way to address a single
	// event; texts may repeat.
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewEvent wraps text with a fresh random identifier.
func NewEvent(text string) Event {
	return Event{ID: uuid.NewString(), Text: text}
}

// Cell is one square of the month grid. Blank cells pad the first week.
type Cell struct {
	Blank     bool `json:"blank"`
	Date      Date `json:"date"`
	Day       int  `json:"day,omitempty"`
	Today     bool `json:"today,omitempty"`
	Selected  bool `json:"selected,omitempty"`
	HasEvents bool `json:"has_events,omitempty"`
}

// Grid is the month view: Offset blanks followed by one cell per day.
type Grid struct {
	Month  YearMonth `json:"month"`
	Offset int       `json:"offset"`
	Cells  []Cell    `json:"cells"`
}

// DayCells returns only the non-blank cells.
func (g Grid) DayCells() []Cell {
	if g.Offset >= len(g.Cells) {
		return nil
	}
	return g.Cells[g.Offset:]
}

// Weeks splits the cells into rows of seven. The last row may be short.
func (g Grid) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, 6)
	for i := 0; i < len(g.Cells); i += 7 {
		end := i + 7
		if end > len(g.Cells) {
			end = len(g.Cells)
		}
		weeks = append(weeks, g.Cells[i:end])
	}
	return weeks
}
