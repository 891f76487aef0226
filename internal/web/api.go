package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"deskcal/internal/calendar"
	"deskcal/internal/ics"
	appLog "deskcal/internal/log"
	"deskcal/internal/model"
)

// maxBodyBytes bounds JSON and ICS uploads.
const maxBodyBytes = 1 << 20

// stateResponse is the full view model a client needs to re-render.
type stateResponse struct {
	Today      model.Date      `json:"today"`
	Selected   model.Date      `json:"selected"`
	Displayed  model.YearMonth `json:"displayed"`
	MonthLabel string          `json:"month_label"`
	Navigation string          `json:"navigation"`
	Offset     int             `json:"offset"`
	Weeks      [][]model.Cell  `json:"weeks"`
	Events     []model.Event   `json:"events"`
	Years      []int           `json:"years"`
}

type eventsResponse struct {
	Date   model.Date    `json:"date"`
	Events []model.Event `json:"events"`
}

func (s *Server) snapshotState(ctl *calendar.Controller) stateResponse {
	grid := ctl.CurrentGrid()
	today := ctl.Today()
	return stateResponse{
		Today:      today,
		Selected:   ctl.SelectedDate(),
		Displayed:  grid.Month,
		MonthLabel: grid.Month.String(),
		Navigation: string(ctl.Mode()),
		Offset:     grid.Offset,
		Weeks:      grid.Weeks(),
		Events:     ctl.EventsForSelectedDate(),
		Years:      s.selectableYears(today, grid.Month),
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	var resp stateResponse
	s.withController(func(ctl *calendar.Controller) {
		resp = s.snapshotState(ctl)
	})
	writeJSON(w, http.StatusOK, resp)
}

// handleNavigate applies the prev/next/today controls.
//
// POST /api/navigate {"direction": "prev" | "next" | "today"}
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var resp stateResponse
	ok := true
	s.withController(func(ctl *calendar.Controller) {
		switch strings.ToLower(req.Direction) {
		case "prev", "previous":
			ctl.Previous()
		case "next":
			ctl.Next()
		case "today":
			ctl.JumpToToday()
		default:
			ok = false
			return
		}
		resp = s.snapshotState(ctl)
	})
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown direction %q", req.Direction))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMonth jumps the grid to an explicit month.
//
// POST /api/month {"month": 3, "year": 2024}
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		resp   stateResponse
		err    error
		banned bool
	)
	s.withController(func(ctl *calendar.Controller) {
		if !s.pickerYearAllowed(ctl, req.Year) {
			banned = true
			return
		}
		if err = ctl.SelectMonthYear(req.Month, req.Year); err != nil {
			return
		}
		resp = s.snapshotState(ctl)
	})
	if banned {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("year %d is outside the selectable range", req.Year))
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSelect selects a date.
//
// POST /api/select {"date": "2024-06-15"}
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := model.ParseDate(req.Date)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	var resp stateResponse
	s.withController(func(ctl *calendar.Controller) {
		if err = ctl.SelectDate(d); err != nil {
			return
		}
		resp = s.snapshotState(ctl)
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListEvents returns events for ?date=YYYY-MM-DD, or the selected date.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	var resp eventsResponse
	var err error
	q := r.URL.Query().Get("date")

	s.withController(func(ctl *calendar.Controller) {
		d := ctl.SelectedDate()
		if q != "" {
			if d, err = model.ParseDate(q); err != nil {
				return
			}
		}
		resp = eventsResponse{Date: d, Events: ctl.EventsOn(d)}
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAddEvent appends an event. An omitted date means the selected date.
//
// POST /api/events {"date": "2024-06-15", "text": "Meeting"}
func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		resp eventsResponse
		err  error
	)
	s.withController(func(ctl *calendar.Controller) {
		var events []model.Event
		d := ctl.SelectedDate()
		if req.Date == "" {
			events, err = ctl.AddEventToSelected(req.Text)
		} else {
			if d, err = model.ParseDate(req.Date); err != nil {
				return
			}
			events, err = ctl.AddEvent(d, req.Text)
		}
		resp = eventsResponse{Date: d, Events: events}
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleDeleteEvent removes one event by identifier.
//
// DELETE /api/events/{date}/{id}
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	d, err := model.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	id := r.PathValue("id")

	var events []model.Event
	s.withController(func(ctl *calendar.Controller) {
		events, err = ctl.DeleteEvent(d, id)
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Date: d, Events: events})
}

// handleDeleteEventText removes the first event whose text matches ?text=.
// Clients that only know display text (scripts, old UIs) use this form.
//
// DELETE /api/events/{date}?text=Meeting
func (s *Server) handleDeleteEventText(w http.ResponseWriter, r *http.Request) {
	d, err := model.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	text := r.URL.Query().Get("text")

	var events []model.Event
	s.withController(func(ctl *calendar.Controller) {
		events, err = ctl.DeleteEventText(d, text)
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Date: d, Events: events})
}

// handleExport downloads every event as an iCalendar file.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	var days []calendar.DayEvents
	s.withController(func(ctl *calendar.Controller) {
		days = ctl.Snapshot()
	})

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="deskcal.ics"`)
	if err := ics.WriteExport(w, days, time.Now()); err != nil {
		appLog.Error("ics export write failed", err)
	}
}

// handleImport merges an uploaded iCalendar body into the store.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var added, skipped int
	s.withController(func(ctl *calendar.Controller) {
		added, skipped, err = ics.Import(ctl, bytes.NewReader(body), s.loc)
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added, "skipped": skipped})
}

// decodeJSON reads a bounded JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
