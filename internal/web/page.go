package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"deskcal/internal/calendar"
	appLog "deskcal/internal/log"
	"deskcal/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("calendar.html").
		Funcs(template.FuncMap{"cellClass": cellClass}).
		ParseFS(templateFS, "templates/calendar.html"),
)

// Sunday-first header; must match model.WeekdayOffset.
var weekdayHeader = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type option struct {
	Value   int
	Name    string
	Current bool
}

type pageData struct {
	State     stateResponse
	Weekdays  []string
	Months    []option
	Years     []option
	PrevTitle string
	NextTitle string
	Error     string
}

func cellClass(c model.Cell) string {
	classes := []string{"day"}
	if c.Today {
		classes = append(classes, "today")
	}
	if c.Selected {
		classes = append(classes, "selected")
	}
	if c.HasEvents {
		classes = append(classes, "has-events")
	}
	return strings.Join(classes, " ")
}

// handleCalendarPage renders the month view server-side. The body carries
// data-ready="true" so headless capture knows rendering is done.
func (s *Server) handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	var state stateResponse
	s.withController(func(ctl *calendar.Controller) {
		state = s.snapshotState(ctl)
	})

	data := pageData{
		State:     state,
		Weekdays:  weekdayHeader,
		PrevTitle: "Previous " + state.Navigation,
		NextTitle: "Next " + state.Navigation,
		Error:     r.URL.Query().Get("error"),
	}
	for m := time.January; m <= time.December; m++ {
		data.Months = append(data.Months, option{Value: int(m), Name: m.String(), Current: m == state.Displayed.Month})
	}
	for _, y := range state.Years {
		data.Years = append(data.Years, option{Value: y, Current: y == state.Displayed.Year})
	}

	// 템플릿 에러가 응답 중간에 섞이지 않도록 버퍼에 먼저 렌더링한다.
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		appLog.Error("calendar page render failed", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleCalendarAction applies one form intent and redirects back to the
// page (post/redirect/get). Failures come back as ?error=.
func (s *Server) handleCalendarAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	action := r.PostFormValue("action")
	var err error
	s.withController(func(ctl *calendar.Controller) {
		err = s.applyAction(ctl, action, r)
	})

	target := "/calendar"
	if err != nil {
		appLog.Debug("calendar action failed", "action", action, "reason", err.Error())
		target += "?error=" + url.QueryEscape(userMessage(err))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) applyAction(ctl *calendar.Controller, action string, r *http.Request) error {
	switch action {
	case "prev":
		ctl.Previous()
	case "next":
		ctl.Next()
	case "today":
		ctl.JumpToToday()
	case "month":
		month, err1 := strconv.Atoi(r.PostFormValue("month"))
		year, err2 := strconv.Atoi(r.PostFormValue("year"))
		if err1 != nil || err2 != nil {
			return fmt.Errorf("month/year: %w", calendar.ErrInvalidDate)
		}
		if !s.pickerYearAllowed(ctl, year) {
			return fmt.Errorf("year %d: %w", year, calendar.ErrInvalidDate)
		}
		return ctl.SelectMonthYear(month, year)
	case "select":
		d, err := model.ParseDate(r.PostFormValue("date"))
		if err != nil {
			return err
		}
		return ctl.SelectDate(d)
	case "add":
		d, err := formDate(ctl, r)
		if err != nil {
			return err
		}
		_, err = ctl.AddEvent(d, r.PostFormValue("text"))
		return err
	case "delete":
		d, err := formDate(ctl, r)
		if err != nil {
			return err
		}
		_, err = ctl.DeleteEvent(d, r.PostFormValue("id"))
		return err
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

// formDate reads the hidden date field, defaulting to the selected date.
func formDate(ctl *calendar.Controller, r *http.Request) (model.Date, error) {
	raw := r.PostFormValue("date")
	if raw == "" {
		if ctl.SelectedDate().IsZero() {
			return model.Date{}, calendar.ErrNoSelection
		}
		return ctl.SelectedDate(), nil
	}
	return model.ParseDate(raw)
}

// userMessage turns controller errors into short dialog-style messages.
func userMessage(err error) string {
	switch {
	case errors.Is(err, calendar.ErrEmptyInput):
		return "Please enter some text for the event."
	case errors.Is(err, calendar.ErrNoSelection):
		return "Please select a date first."
	case errors.Is(err, calendar.ErrEventNotFound):
		return "No such event to delete."
	case errors.Is(err, calendar.ErrInvalidDate):
		return "That date is not valid."
	default:
		return err.Error()
	}
}
