package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "deskcal/internal/log"
	"deskcal/internal/model"
)

// Entry is one importable VEVENT: the date it starts on and its summary.
// ID is set when the UID came from one of our own exports.
type Entry struct {
	Date model.Date
	ID   string
	Text string
}

// ParseResult lists usable entries and how many VEVENTs were skipped.
type ParseResult struct {
	Entries []Entry
	Skipped int
}

// Parse reads an iCalendar stream and extracts (start date, summary) pairs.
//
//   - DTSTART DATE values are taken as-is. DATE-TIME values (UTC, TZID or
//     floating) are converted into loc before the date is taken; nil loc
//     means time.Local.
//   - VEVENTs without DTSTART or with a blank SUMMARY are skipped and counted.
//   - RRULE/EXDATE are ignored: only the first occurrence is imported.
func Parse(r io.Reader, loc *time.Location) (ParseResult, error) {
	var res ParseResult
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		appLog.Error("ics parse failed", err)
		return res, fmt.Errorf("ics: parse calendar: %w", err)
	}

	for _, vev := range cal.Events() {
		entry, perr := parseVEvent(vev, loc)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Debug("ics vevent skipped", "uid", vev.Id(), "reason", perr.Error())
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, entry)
	}

	appLog.Info("ics parse completed", "entries", len(res.Entries), "skipped", res.Skipped)
	return res, nil
}

func parseVEvent(vev *ical.VEvent, loc *time.Location) (Entry, error) {
	var out Entry

	// The parser has already undone TEXT escaping.
	if p := vev.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Text = strings.TrimSpace(p.Value)
	}
	if out.Text == "" {
		return out, errors.New("missing SUMMARY")
	}

	dtStart := vev.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return out, errors.New("missing DTSTART")
	}
	var tzid string
	if v := dtStart.ICalParameters[string(ical.ParameterTzid)]; len(v) > 0 {
		tzid = v[0]
	}
	d, err := parseICSDate(dtStart.Value, tzid, loc)
	if err != nil {
		return out, err
	}
	out.Date = d
	out.ID = EventID(vev.Id())
	return out, nil
}

// parseICSDate returns the calendar date of a DATE or DATE-TIME value as
// seen in loc:
//
//	20250101          DATE, taken as-is
//	20250101T090000Z  UTC, converted into loc
//	20250101T090000   in tzid when set, otherwise floating (loc)
func parseICSDate(v, tzid string, loc *time.Location) (model.Date, error) {
	v = strings.TrimSpace(v)

	var (
		t   time.Time
		err error
	)
	switch {
	case len(v) == 8:
		t, err = time.Parse("20060102", v)
	case strings.HasSuffix(v, "Z"):
		t, err = time.Parse("20060102T150405Z", v)
		t = t.In(loc)
	default:
		src := loc
		if tzid != "" {
			if l, lerr := time.LoadLocation(tzid); lerr == nil {
				src = l
			} else {
				appLog.Debug("ics unknown TZID; using display zone", "tzid", tzid)
			}
		}
		t, err = time.ParseInLocation("20060102T150405", v, src)
		t = t.In(loc)
	}
	if err != nil {
		return model.Date{}, fmt.Errorf("bad DTSTART value %q: %w", v, err)
	}
	return model.NewDate(t.Year(), t.Month(), t.Day())
}

// EventAdder is the part of the controller Import needs.
type EventAdder interface {
	AddEvent(d model.Date, text string) ([]model.Event, error)
	RestoreEvent(d model.Date, id, text string) ([]model.Event, error)
}

// Import parses r and adds every usable entry through dst. Entries from our
// own exports keep their ID, so importing the same file twice does not
// duplicate them. Rejected and duplicate entries are counted as skipped.
func Import(dst EventAdder, r io.Reader, loc *time.Location) (added, skipped int, err error) {
	res, err := Parse(r, loc)
	if err != nil {
		return 0, 0, err
	}
	skipped = res.Skipped
	for _, e := range res.Entries {
		var aerr error
		if e.ID != "" {
			_, aerr = dst.RestoreEvent(e.Date, e.ID, e.Text)
		} else {
			_, aerr = dst.AddEvent(e.Date, e.Text)
		}
		if aerr != nil {
			appLog.Debug("ics entry rejected", "date", e.Date.String(), "reason", aerr.Error())
			skipped++
			continue
		}
		added++
	}
	return added, skipped, nil
}
