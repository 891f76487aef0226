package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deskcal/internal/calendar"
	"deskcal/internal/clock"
	"deskcal/internal/config"
	"deskcal/internal/model"
)

func TestApplyOverrides(t *testing.T) {
	conf := config.DefaultConfig()
	applyOverrides(conf, flagConfig{ui: "web", listen: ":9000", logLevel: "debug"})
	if conf.UI != config.UIModeWeb || conf.Listen != ":9000" || conf.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", conf)
	}

	conf = config.DefaultConfig()
	conf.Listen = "10.0.0.1:80"
	applyOverrides(conf, flagConfig{ui: "gui"})
	if conf.UI != config.UIModeTUI {
		t.Errorf("unknown ui should normalize to tui, got %q", conf.UI)
	}
	if conf.Listen != "10.0.0.1:80" {
		t.Errorf("empty flag overwrote listen: %q", conf.Listen)
	}
}

func TestImportCalendarFromFile(t *testing.T) {
	const body = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:1@test\r\nDTSTART;VALUE=DATE:20240704\r\nSUMMARY:Fireworks\r\nEND:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	path := filepath.Join(t.TempDir(), "holidays.ics")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	ctl := calendar.New(calendar.WithClock(clock.Fixed(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))))
	if err := importCalendar(context.Background(), ctl, path, time.UTC); err != nil {
		t.Fatalf("importCalendar: %v", err)
	}
	events := ctl.EventsOn(model.Date{Year: 2024, Month: time.July, Day: 4})
	if len(events) != 1 || events[0].Text != "Fireworks" {
		t.Errorf("events = %+v", events)
	}

	if err := importCalendar(context.Background(), ctl, filepath.Join(t.TempDir(), "missing.ics"), time.UTC); err == nil {
		t.Errorf("expected error for missing file")
	}
}
