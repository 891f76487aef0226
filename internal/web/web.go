package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"deskcal/internal/auth"
	"deskcal/internal/calendar"
	"deskcal/internal/clock"
	"deskcal/internal/config"
	appLog "deskcal/internal/log"
	"deskcal/internal/model"
)

// Server is the HTTP front-end. It owns no calendar state of its own: every
// request locks mu and calls into the controller, so intents are applied one
// at a time in arrival order.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux
	loc *time.Location // display zone for imported DATE-TIME values

	mu  sync.Mutex
	ctl *calendar.Controller
}

// NewServer constructs a new Server around ctl.
func NewServer(cfg *config.Config, ctl *calendar.Controller) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
		loc: clock.ResolveLocation(cfg.Timezone),
		ctl: ctl,
	}
	s.registerRoutes()
	return s
}

// Handler returns the root http.Handler, wrapped in basic auth if configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	ba := s.cfg.BasicAuth
	if ba == nil || ba.Username == "" {
		return false
	}
	// 비밀번호도 해시도 없으면 비활성화로 취급한다.
	return ba.Password != "" || ba.PasswordHash != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	ba := *s.cfg.BasicAuth

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !auth.SecureCompare(u, ba.Username) || !passwordMatches(ba, p) {
			appLog.Info("basic auth rejected", "remote", r.RemoteAddr, "user", u)
			w.Header().Set("WWW-Authenticate", `Basic realm="deskcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func passwordMatches(ba config.BasicAuthConfig, password string) bool {
	if ba.PasswordHash != "" {
		ok, err := auth.VerifyPassword(password, ba.PasswordHash)
		if err != nil {
			appLog.Error("basic auth: bad password_hash in config", err)
			return false
		}
		return ok
	}
	return auth.SecureCompare(password, ba.Password)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/navigate", s.handleNavigate)
	s.mux.HandleFunc("POST /api/month", s.handleMonth)
	s.mux.HandleFunc("POST /api/select", s.handleSelect)
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleAddEvent)
	s.mux.HandleFunc("DELETE /api/events/{date}/{id}", s.handleDeleteEvent)
	s.mux.HandleFunc("DELETE /api/events/{date}", s.handleDeleteEventText)
	s.mux.HandleFunc("GET /api/export.ics", s.handleExport)
	s.mux.HandleFunc("POST /api/import", s.handleImport)

	s.mux.HandleFunc("GET /calendar", s.handleCalendarPage)
	s.mux.HandleFunc("POST /calendar/action", s.handleCalendarAction)
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ListenAndServe binds cfg.Listen and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

// withController runs fn with the controller locked.
func (s *Server) withController(fn func(ctl *calendar.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ctl)
}

// selectableYears is the year picker range: today's year +/- YearSpan. The
// displayed year is always included, even when navigation left the range.
func (s *Server) selectableYears(today model.Date, displayed model.YearMonth) []int {
	span := s.cfg.YearSpan
	if span <= 0 {
		span = config.DefaultYearSpan
	}
	years := make([]int, 0, 2*span+2)
	from, to := today.Year-span, today.Year+span
	if displayed.Year < from {
		years = append(years, displayed.Year)
	}
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	if displayed.Year > to {
		years = append(years, displayed.Year)
	}
	return years
}

func (s *Server) yearAllowed(today model.Date, year int) bool {
	span := s.cfg.YearSpan
	if span <= 0 {
		span = config.DefaultYearSpan
	}
	return year >= today.Year-span && year <= today.Year+span
}

// pickerYearAllowed accepts what the year picker offers: the span around
// today plus the displayed year.
func (s *Server) pickerYearAllowed(ctl *calendar.Controller, year int) bool {
	return year == ctl.DisplayedMonth().Year || s.yearAllowed(ctl.Today(), year)
}

// statusFor maps controller errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, calendar.ErrEmptyInput), errors.Is(err, calendar.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, calendar.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, calendar.ErrNoSelection), errors.Is(err, calendar.ErrDuplicateID):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
