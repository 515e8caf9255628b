package provider

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZaguanLabs/lingoseo"
)

// fakeClock is advanced by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func limiterWithClock(cfg RateLimitConfig) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRateLimiter(cfg)
	r.now = clock.Now
	r.stamp = clock.Now()
	return r, clock
}

func TestRateLimiter_Bucket(t *testing.T) {
	tests := []struct {
		name      string
		cfg       RateLimitConfig
		take      int
		advance   time.Duration
		wantAfter float64
	}{
		{"burst defaults to rpm", RateLimitConfig{RequestsPerMinute: 30}, 0, 0, 30},
		{"zero rpm defaults to 60", RateLimitConfig{}, 0, 0, 60},
		{"drained", RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3}, 3, 0, 0},
		{"refills one per second", RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3}, 3, 2 * time.Second, 2},
		{"refill capped at burst", RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3}, 1, time.Minute, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, clock := limiterWithClock(tt.cfg)
			for i := 0; i < tt.take; i++ {
				if !r.TryAcquire() {
					t.Fatalf("token %d should be available", i)
				}
			}
			clock.Advance(tt.advance)
			if got := r.Available(); got < tt.wantAfter-0.01 || got > tt.wantAfter+0.01 {
				t.Errorf("available = %.2f, want %.2f", got, tt.wantAfter)
			}
		})
	}
}

func TestRateLimiter_ReserveReportsDeficit(t *testing.T) {
	r, _ := limiterWithClock(RateLimitConfig{RequestsPerMinute: 120, BurstSize: 1})
	if wait := r.reserve(); wait != 0 {
		t.Fatalf("first reserve waited %v", wait)
	}
	// Two tokens per second: the next one is due in half a second.
	if wait := r.reserve(); wait != 500*time.Millisecond {
		t.Errorf("wait = %v, want 500ms", wait)
	}
	if r.TryAcquire() {
		t.Error("TryAcquire should fail on an empty bucket")
	}
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	r.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want deadline exceeded", err)
	}
}

func TestRateLimiter_WaitBlocksUntilRefill(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1200, BurstSize: 1})
	r.TryAcquire()

	start := time.Now()
	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("Wait returned after %v, expected about 50ms", elapsed)
	}
}

func TestRateLimiter_ConcurrentAcquireNeverExceedsBurst(t *testing.T) {
	r, _ := limiterWithClock(RateLimitConfig{RequestsPerMinute: 600, BurstSize: 8})

	var acquired atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryAcquire() {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := acquired.Load(); n != 8 {
		t.Errorf("acquired %d tokens, want 8", n)
	}
}

func TestRateLimitedProvider_CancelledWaitIsNotRetryable(t *testing.T) {
	inner := NewMockProvider()
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})

	req := TranslateRequest{Texts: []string{"Projects"}, TargetLang: "fr_CH"}
	got, err := p.Translate(context.Background(), req)
	if err != nil || got[0] != "Projets" {
		t.Fatalf("first call = %v, %v", got, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Translate(ctx, req)

	var perr *lingoseo.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Retryable {
		t.Error("a cancelled wait must not be retried")
	}
	if inner.Calls() != 1 {
		t.Errorf("backend calls = %d, want 1", inner.Calls())
	}
	if p.Limiter().Available() >= 1 {
		t.Error("bucket should still be empty")
	}
}
