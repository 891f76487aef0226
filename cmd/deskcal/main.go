package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deskcal/internal/calendar"
	"deskcal/internal/capture"
	"deskcal/internal/clock"
	"deskcal/internal/config"
	"deskcal/internal/ics"
	appLog "deskcal/internal/log"
	"deskcal/internal/tui"
	"deskcal/internal/web"
)

const version = "0.3.0"

// flagConfig holds CLI flag values; non-empty ones override the config file.
type flagConfig struct {
	configPath string
	ui         string
	listen     string
	logLevel   string
	snapshot   string
	importPath string
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		os.Exit(hashPassword(os.Args[2:]))
	}

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyOverrides(conf, flags)
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("deskcal starting", "version", version)
	appLog.Info("effective config",
		"config_path", flags.configPath,
		"ui", conf.UI,
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"navigation", conf.Navigation,
		"year_span", conf.YearSpan,
		"refresh", conf.RefreshCron,
		"basic_auth", conf.BasicAuth != nil,
		"snapshot", flags.snapshot,
	)

	if err := clock.ValidateSpec(conf.RefreshCron); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}

	loc := clock.ResolveLocation(conf.Timezone)
	ctl := calendar.New(
		calendar.WithClock(clock.System{Location: loc}),
		calendar.WithNavigationMode(calendar.ParseNavigationMode(conf.Navigation)),
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.importPath != "" {
		if err := importCalendar(ctx, ctl, flags.importPath, loc); err != nil {
			appLog.Error("failed to import calendar", err, "source", flags.importPath)
			os.Exit(1)
		}
	}

	switch {
	case flags.snapshot != "":
		err = runSnapshot(ctx, conf, ctl, flags.snapshot)
	case conf.UI == config.UIModeWeb:
		err = web.NewServer(conf, ctl).ListenAndServe(ctx)
	default:
		err = runTUI(ctx, conf, ctl, loc)
	}
	if err != nil {
		appLog.Error("deskcal failed", err, "ui", conf.UI)
		os.Exit(1)
	}
	appLog.Info("deskcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", config.DefaultPath(), "Path to config file")
	flag.StringVar(&cfg.ui, "ui", "", "Front-end: tui or web (overrides config if set)")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info or error (overrides config if set)")
	flag.StringVar(&cfg.snapshot, "snapshot", "", "Render the calendar page to this PNG file and exit")
	flag.StringVar(&cfg.importPath, "import", "", "Load events from an .ics file or http(s) URL at startup")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: deskcal [flags]\n       deskcal hash-password [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	return cfg
}

func applyOverrides(conf *config.Config, flags flagConfig) {
	if flags.ui != "" {
		conf.UI = flags.ui
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
	conf.Normalize()
}

// importCalendar loads events once from a local .ics file or an http(s) URL.
func importCalendar(ctx context.Context, ctl *calendar.Controller, src string, loc *time.Location) error {
	body, err := ics.NewFetcher(nil).Fetch(ctx, src)
	if err != nil {
		return err
	}

	added, skipped, err := ics.Import(ctl, bytes.NewReader(body), loc)
	if err != nil {
		return err
	}
	appLog.Info("calendar imported", "added", added, "skipped", skipped)
	return nil
}

// runSnapshot captures the calendar page through a private loopback server.
// That server never needs credentials, so basic auth is left off.
func runSnapshot(ctx context.Context, conf *config.Config, ctl *calendar.Controller, out string) error {
	snapConf := *conf
	snapConf.BasicAuth = nil
	return capture.Snapshot(ctx, web.NewServer(&snapConf, ctl), capture.CaptureOptions{OutputPath: out})
}

// runTUI owns the terminal until the user quits, so logs go to log_file or
// nowhere.
func runTUI(ctx context.Context, conf *config.Config, ctl *calendar.Controller, loc *time.Location) error {
	var logOut io.Writer = io.Discard
	if conf.LogFile != "" {
		f, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	appLog.SetOutput(logOut)
	defer appLog.SetOutput(os.Stderr)

	return tui.Run(ctx, ctl, tui.Options{
		YearSpan:    conf.YearSpan,
		RefreshSpec: conf.RefreshCron,
		Location:    loc,
	})
}
