package clock

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "deskcal/internal/log"
	"deskcal/internal/model"
)

// DefaultRolloverSpec fires at local midnight.
const DefaultRolloverSpec = "0 0 * * *"

// Clock supplies the current instant. "Today" is always derived from it on
// demand and never cached.
type Clock interface {
	Now() time.Time
}

// System is the wall clock in a fixed display location.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Func adapts a plain function (tests, fixed clocks).
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}

// Today returns the calendar date of c.Now().
func Today(c Clock) model.Date {
	return model.DateOf(c.Now())
}

// ResolveLocation loads an IANA zone name; empty or unknown names fall back
// to time.Local.
func ResolveLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

// Rollover runs a callback on a cron schedule (by default at midnight) so
// front-ends can re-render the is-today marker of a long-running session.
// The callback only signals; it must not touch controller state itself.
type Rollover struct {
	c *cron.Cron
}

// StartRollover schedules fn according to spec in loc. An empty spec uses
// DefaultRolloverSpec.
func StartRollover(spec string, loc *time.Location, fn func()) (*Rollover, error) {
	if spec == "" {
		spec = DefaultRolloverSpec
	}
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() {
		appLog.Debug("day rollover tick", "spec", spec)
		fn()
	}); err != nil {
		return nil, fmt.Errorf("clock: invalid rollover schedule %q: %w", spec, err)
	}
	c.Start()
	appLog.Info("day rollover scheduled", "spec", spec, "timezone", loc.String())
	return &Rollover{c: c}, nil
}

// Stop halts the schedule and waits for a running callback to return.
func (r *Rollover) Stop() {
	if r == nil || r.c == nil {
		return
	}
	<-r.c.Stop().Done()
}

// ValidateSpec reports whether spec parses as a standard five-field cron
// expression.
func ValidateSpec(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}
