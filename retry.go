package lingoseo

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls WithRetry. A failing call is attempted at most
// MaxRetries+1 times.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Constant   bool // wait BaseDelay every time instead of doubling
}

// DefaultRetryConfig returns the defaults used for provider calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// backoff returns the pause after the given zero-based failed attempt.
func (c RetryConfig) backoff(attempt int) time.Duration {
	d := c.BaseDelay
	if !c.Constant {
		d <<= attempt
	}
	if c.MaxDelay > 0 && (d > c.MaxDelay || d <= 0) {
		d = c.MaxDelay
	}
	return d
}

// RetryFunc is one attempt of a retried operation.
type RetryFunc[T any] func() (T, error)

// WithRetry calls fn until it succeeds, fails permanently, runs out of
// attempts or ctx ends. The last error is returned on exhaustion.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		switch {
		case err == nil:
			return result, nil
		case !IsRetryable(err), attempt >= cfg.MaxRetries:
			return zero, err
		}

		timer := time.NewTimer(cfg.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRetryable reports whether another attempt could succeed. Context
// errors never are.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Retryable
	}

	// Markup fetched before the app mounted may be complete on a later poll.
	return errors.Is(err, ErrNotReady)
}

// PollConfig returns a config that polls every interval until timeout
// has roughly elapsed.
func PollConfig(interval, timeout time.Duration) RetryConfig {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	n := int(timeout / interval)
	if n < 1 {
		n = 1
	}
	return RetryConfig{MaxRetries: n, BaseDelay: interval, MaxDelay: interval, Constant: true}
}

// RetryableProvider retries transient provider failures.
type RetryableProvider struct {
	next AIProvider
	cfg  RetryConfig
}

// NewRetryableProvider wraps next.
func NewRetryableProvider(next AIProvider, cfg RetryConfig) *RetryableProvider {
	return &RetryableProvider{next: next, cfg: cfg}
}

// Translate forwards req until a batch succeeds or fails permanently.
func (p *RetryableProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return WithRetry(ctx, p.cfg, func() ([]string, error) {
		return p.next.Translate(ctx, req)
	})
}
