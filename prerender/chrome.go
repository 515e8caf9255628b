package prerender

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/logging"
	"github.com/chromedp/chromedp"
)

// captureTimeout bounds grabbing the DOM after the wait phase.
const captureTimeout = 5 * time.Second

// ChromeOptions configures the headless browser.
type ChromeOptions struct {
	// ExecPath overrides the browser binary.
	ExecPath string
	// Headful shows the browser window.
	Headful   bool
	Readiness Readiness
	Logger    logging.Logger
}

// ChromeRenderer renders pages in a headless Chrome, one tab per call.
type ChromeRenderer struct {
	readiness Readiness
	logger    logging.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// NewChromeRenderer launches the browser. The browser lives until Close,
// independent of ctx.
func NewChromeRenderer(ctx context.Context, opts ChromeOptions) (*ChromeRenderer, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.Headful {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	logger := logging.OrNoOp(opts.Logger)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		}),
	)

	// The first Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	logger.Info("browser launched")

	return &ChromeRenderer{
		readiness:     opts.Readiness.withDefaults(),
		logger:        logger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Render opens url in a new tab, waits for the readiness selector and the
// settle delay, and returns the document markup. On timeout the markup at
// that moment is returned in the error's Partial field.
func (c *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()

	// Caller cancellation closes the tab; a caller deadline only ends the
	// wait so the partial capture below can still run.
	stop := context.AfterFunc(ctx, func() {
		if errors.Is(ctx.Err(), context.Canceled) {
			tabCancel()
		}
	})
	defer stop()

	if err := chromedp.Run(tabCtx); err != nil {
		return "", &lingoseo.RenderError{URL: url, Message: "open tab", Cause: err}
	}

	waitCtx, waitCancel := c.readiness.waitContext(ctx)
	defer waitCancel()
	runCtx, runCancel := context.WithCancel(tabCtx)
	defer runCancel()
	stopWait := context.AfterFunc(waitCtx, runCancel)
	defer stopWait()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(c.readiness.Selector, chromedp.ByQuery),
	)
	if err != nil {
		partial := c.capture(tabCtx)
		c.logger.Warn("page not ready", "url", url, "selector", c.readiness.Selector, "bytes", len(partial), "error", err)
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", &lingoseo.RenderError{
			URL:     url,
			Message: "readiness selector " + c.readiness.Selector + " not matched",
			Cause:   err,
			Partial: partial,
		}
	}

	if err := sleep(ctx, c.readiness.Settle); err != nil {
		return "", &lingoseo.RenderError{URL: url, Message: "settle interrupted", Cause: err, Partial: c.capture(tabCtx)}
	}

	markup := c.capture(tabCtx)
	if markup == "" {
		return "", &lingoseo.RenderError{URL: url, Message: "empty document"}
	}
	return markup, nil
}

func (c *ChromeRenderer) capture(tabCtx context.Context) string {
	ctx, cancel := context.WithTimeout(tabCtx, captureTimeout)
	defer cancel()
	var markup string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &markup, chromedp.ByQuery)); err != nil {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(markup), "<!doctype") {
		markup = "<!DOCTYPE html>" + markup
	}
	return markup
}

// Close shuts the browser down. It is safe to call more than once.
func (c *ChromeRenderer) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = chromedp.Cancel(c.browserCtx)
		c.browserCancel()
		c.allocCancel()
		c.logger.Info("browser closed")
	})
	return c.closeErr
}
