package provider

import (
	"context"
	"sync"
	"time"

	"github.com/ZaguanLabs/lingoseo"
)

// RateLimitConfig bounds calls to a paid backend. Zero values fall back to
// 60 requests per minute with a burst equal to the per-minute rate.
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

// RateLimiter is a token bucket. One token is spent per translation batch.
type RateLimiter struct {
	mu        sync.Mutex
	level     float64 // tokens in the bucket
	capacity  float64
	perSecond float64
	stamp     time.Time // last time level was brought up to date
	now       func() time.Time
}

// NewRateLimiter returns a limiter whose bucket starts full.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}
	return &RateLimiter{
		level:     float64(burst),
		capacity:  float64(burst),
		perSecond: float64(rpm) / 60,
		stamp:     time.Now(),
		now:       time.Now,
	}
}

// Wait spends a token, sleeping until one accrues. It returns ctx.Err()
// if ctx ends first.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		d := r.reserve()
		if d == 0 {
			return nil
		}
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
}

// TryAcquire spends a token if one is available.
func (r *RateLimiter) TryAcquire() bool {
	return r.reserve() == 0
}

// Available reports the tokens currently in the bucket.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catchUp()
	return r.level
}

// reserve spends a token and returns zero, or leaves the bucket alone and
// returns the time until the next token.
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.catchUp()
	if r.level < 1 {
		missing := 1 - r.level
		return time.Duration(missing / r.perSecond * float64(time.Second))
	}
	r.level--
	return 0
}

// catchUp credits tokens accrued since stamp. Callers hold mu.
func (r *RateLimiter) catchUp() {
	t := r.now()
	if dt := t.Sub(r.stamp); dt > 0 {
		r.level = min(r.capacity, r.level+dt.Seconds()*r.perSecond)
	}
	r.stamp = t
}

// RateLimitedProvider spends one token per batch before calling the
// wrapped backend.
type RateLimitedProvider struct {
	next    AIProvider
	limiter *RateLimiter
}

func NewRateLimitedProvider(next AIProvider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{next: next, limiter: NewRateLimiter(cfg)}
}

// Translate fails with a permanent ProviderError when ctx ends while
// waiting for a token.
func (p *RateLimitedProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &lingoseo.ProviderError{Message: "rate limit wait cancelled", Cause: err}
	}
	return p.next.Translate(ctx, req)
}

// Limiter exposes the bucket.
func (p *RateLimitedProvider) Limiter() *RateLimiter {
	return p.limiter
}
