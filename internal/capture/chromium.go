// Package capture renders a widget page in headless Chromium and saves it
// as a PNG snapshot.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	appLog "ethiopicker/internal/log"
)

// Default capture parameters. The viewport fits the open popover with the
// time control.
const (
	DefaultWidth    = 480
	DefaultHeight   = 640
	DefaultTimeout  = 30 * time.Second
	DefaultSelector = `#picker[data-ready="true"]`
)

var (
	ErrMissingURL    = errors.New("capture: URL is required")
	ErrMissingOutput = errors.New("capture: output path is required")
)

// Options defines one snapshot.
type Options struct {
	// URL of a widget page, e.g. "http://127.0.0.1:8080/widgets/<id>".
	URL string

	// OutputPath is where the PNG is written. Only used by WriteWidgetPNG.
	OutputPath string

	// Selector is waited for and then captured. Defaults to the picker
	// root once it reports data-ready.
	Selector string

	// Width and Height are the viewport dimensions in pixels.
	Width  int
	Height int

	// Timeout bounds the whole capture.
	Timeout time.Duration

	// ExecPath overrides the Chromium binary; empty means search PATH.
	ExecPath string
}

// Normalize fills zero fields with defaults.
func (o *Options) Normalize() {
	if o.Selector == "" {
		o.Selector = DefaultSelector
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
}

// CaptureWidgetPNG opens opts.URL, waits until the picker root carries
// data-ready="true" and returns a PNG of that element.
func CaptureWidgetPNG(parent context.Context, opts Options) ([]byte, error) {
	if opts.URL == "" {
		return nil, ErrMissingURL
	}
	opts.Normalize()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(opts.Selector, chromedp.ByQuery),
		chromedp.Screenshot(opts.Selector, &png, chromedp.NodeVisible, chromedp.ByQuery),
	}

	start := time.Now()
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	appLog.Debug("widget captured", "url", opts.URL, "bytes", len(png), "elapsed", time.Since(start))
	return png, nil
}

// WriteWidgetPNG captures the widget and writes it to opts.OutputPath.
func WriteWidgetPNG(ctx context.Context, opts Options) error {
	if opts.OutputPath == "" {
		return ErrMissingOutput
	}
	png, err := CaptureWidgetPNG(ctx, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	appLog.Info("snapshot written", "path", opts.OutputPath, "bytes", len(png))
	return nil
}
