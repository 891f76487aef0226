package ics

import (
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"deskcal/internal/calendar"
	appLog "deskcal/internal/log"
)

const (
	// ProductID is written as PRODID on exported calendars.
	ProductID = "-//deskcal//deskcal//EN"
	uidSuffix = "@deskcal"
)

// Export renders every stored event as an all-day VEVENT. stamp is used for
// DTSTAMP so output is reproducible in tests.
func Export(days []calendar.DayEvents, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)

	count := 0
	for _, day := range days {
		start := day.Date.Time()
		end := day.Date.AddDays(1).Time()
		for _, ev := range day.Events {
			vev := cal.AddEvent(ev.ID + uidSuffix)
			vev.SetDtStampTime(stamp.UTC())
			vev.SetAllDayStartAt(start)
			vev.SetAllDayEndAt(end)
			vev.SetSummary(ev.Text)
			count++
		}
	}

	appLog.Debug("ics export completed", "dates", len(days), "event_count", count)
	return cal.Serialize()
}

// WriteExport is Export streamed to w.
func WriteExport(w io.Writer, days []calendar.DayEvents, stamp time.Time) error {
	_, err := io.WriteString(w, Export(days, stamp))
	return err
}

// EventID returns the store identifier behind a UID written by Export, or ""
// for UIDs from other producers.
func EventID(uid string) string {
	id, ok := strings.CutSuffix(uid, uidSuffix)
	if !ok {
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}
