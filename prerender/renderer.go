// Package prerender captures fully rendered pages of a running site, one
// per language, and writes them as static HTML with a run report.
package prerender

import (
	"context"
	"time"

	"github.com/ZaguanLabs/lingoseo/htmldoc"
)

// Defaults for the readiness protocol.
const (
	DefaultTimeout = 30 * time.Second
	DefaultSettle  = 3 * time.Second
)

// Renderer loads a URL and returns its markup once the app has mounted.
// Failures are *lingoseo.RenderError carrying any partial markup.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
	Close() error
}

// Readiness configures when a page counts as rendered.
type Readiness struct {
	// Selector must match at least one element.
	Selector string
	// Timeout bounds the wait when the caller's context has no deadline.
	Timeout time.Duration
	// Settle is waited after the selector matches.
	Settle time.Duration
}

// DefaultReadiness waits for a child of #root, up to 30s, then settles 3s.
func DefaultReadiness() Readiness {
	return Readiness{
		Selector: htmldoc.DefaultReadySelector,
		Timeout:  DefaultTimeout,
		Settle:   DefaultSettle,
	}
}

func (r Readiness) withDefaults() Readiness {
	d := DefaultReadiness()
	if r.Selector == "" {
		r.Selector = d.Selector
	}
	if r.Timeout <= 0 {
		r.Timeout = d.Timeout
	}
	if r.Settle < 0 {
		r.Settle = 0
	}
	return r
}

// waitContext bounds the readiness wait by Timeout. A parent deadline
// that is sooner still applies.
func (r Readiness) waitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.Timeout)
}

// sleep waits d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
