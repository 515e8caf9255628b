package prerender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/htmldoc"
)

const maxBody = 16 << 20

// HTTPRenderer fetches pages without executing scripts and polls until the
// markup satisfies the readiness selector. It fits sites that render on the
// server and serves as a browserless fallback.
type HTTPRenderer struct {
	client    *http.Client
	readiness Readiness
	interval  time.Duration
}

// NewHTTPRenderer creates a renderer. A nil client uses a client with a
// 10s per-request timeout.
func NewHTTPRenderer(client *http.Client, readiness Readiness, interval time.Duration) *HTTPRenderer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &HTTPRenderer{client: client, readiness: readiness.withDefaults(), interval: interval}
}

// Render polls url until the readiness selector matches or the wait ends.
func (h *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	waitCtx, cancel := h.readiness.waitContext(ctx)
	defer cancel()

	timeout := h.readiness.Timeout
	if deadline, ok := waitCtx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	var last string
	markup, err := lingoseo.WithRetry(waitCtx, lingoseo.PollConfig(h.interval, timeout), func() (string, error) {
		body, err := h.fetch(waitCtx, url)
		if err != nil {
			return "", err
		}
		last = body
		if !htmldoc.MountReady(body, h.readiness.Selector) {
			return "", fmt.Errorf("%s: %w", h.readiness.Selector, lingoseo.ErrNotReady)
		}
		return body, nil
	})
	if err != nil {
		var renderErr *lingoseo.RenderError
		if errors.As(err, &renderErr) {
			if renderErr.Partial == "" {
				renderErr.Partial = last
			}
			return "", renderErr
		}
		return "", &lingoseo.RenderError{
			URL:     url,
			Message: "readiness selector " + h.readiness.Selector + " not matched",
			Cause:   err,
			Partial: last,
		}
	}

	if err := sleep(ctx, h.readiness.Settle); err != nil {
		return "", &lingoseo.RenderError{URL: url, Message: "settle interrupted", Cause: err, Partial: markup}
	}
	return markup, nil
}

func (h *HTTPRenderer) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &lingoseo.RenderError{URL: url, Message: "build request", Cause: err}
	}
	req.Header.Set("User-Agent", lingoseo.UserAgent())
	req.Header.Set("Accept", "text/html")

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &lingoseo.RenderError{URL: url, Message: "request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &lingoseo.RenderError{URL: url, Message: "read body", Cause: err, Retryable: true}
	}
	if resp.StatusCode >= 400 {
		return "", &lingoseo.RenderError{
			URL:       url,
			Message:   fmt.Sprintf("status %d", resp.StatusCode),
			Partial:   string(data),
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		}
	}
	return string(data), nil
}

// Close releases idle connections.
func (h *HTTPRenderer) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
