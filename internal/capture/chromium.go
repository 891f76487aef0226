package capture

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	appLog "deskcal/internal/log"
)

// Default capture parameters. The width fits the calendar page's grid plus
// the events sidebar without wrapping.
const (
	DefaultWidth      = 1100
	DefaultHeight     = 760
	DefaultTimeoutSec = 30
)

// CaptureOptions defines parameters for a Chromium-based screenshot capture.
type CaptureOptions struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar". Snapshot fills
	// it in from its own listener.
	URL string

	// OutputPath is where the PNG screenshot will be written.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. If zero,
	// DefaultWidth / DefaultHeight are used.
	Width  int
	Height int

	// Timeout bounds the entire capture operation. If zero,
	// DefaultTimeoutSec is used.
	Timeout time.Duration
}

func (o CaptureOptions) withDefaults() CaptureOptions {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return o
}

// CaptureCalendarPNG drives headless Chromium to opts.URL, waits until
// `[data-ready="true"]` is visible and writes a full-page PNG.
func CaptureCalendarPNG(parentCtx context.Context, opts CaptureOptions) error {
	if opts.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	opts = opts.withDefaults()

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		// Small extra delay to allow final paints.
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	appLog.Info("snapshot written", "path", opts.OutputPath, "bytes", len(png))
	return nil
}

// Server is anything that can serve the calendar page on a listener until
// its context is canceled (web.Server does).
type Server interface {
	Serve(ctx context.Context, ln net.Listener) error
}

// Snapshot serves srv on an ephemeral loopback port, captures /calendar into
// opts.OutputPath and shuts the server down again.
func Snapshot(ctx context.Context, srv Server, opts CaptureOptions) error {
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("capture: listen: %w", err)
	}

	serveCtx, stop := context.WithCancel(ctx)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(serveCtx, ln)
	}()

	opts.URL = calendarURL(ln.Addr())
	captureErr := CaptureCalendarPNG(ctx, opts)

	stop()
	if err := <-serveErr; err != nil {
		captureErr = errors.Join(captureErr, fmt.Errorf("capture: serve: %w", err))
	}
	return captureErr
}

func calendarURL(addr net.Addr) string {
	return "http://" + addr.String() + "/calendar"
}
