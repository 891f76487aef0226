package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"deskcal/internal/calendar"
	"deskcal/internal/clock"
	appLog "deskcal/internal/log"
)

// Options configures Run.
type Options struct {
	YearSpan    int
	RefreshSpec string // cron spec for RolloverMsg, empty = midnight
	Location    *time.Location
}

// Run shows the TUI on the terminal until the user quits or ctx is canceled.
// The rollover schedule only Sends into the program; it never touches ctl.
func Run(ctx context.Context, ctl *calendar.Controller, opts Options) error {
	p := tea.NewProgram(New(ctl, opts.YearSpan), tea.WithAltScreen(), tea.WithContext(ctx))

	roll, err := clock.StartRollover(opts.RefreshSpec, opts.Location, func() {
		p.Send(RolloverMsg{})
	})
	if err != nil {
		return err
	}
	defer roll.Stop()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			appLog.Info("tui stopped by signal")
			return nil
		}
		return err
	}
	return nil
}
