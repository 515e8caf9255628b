// Package provider implements AI backends that translate missing
// translation-table values.
package provider

import (
	"github.com/ZaguanLabs/lingoseo"
)

// AIProvider is the interface for AI translation backends.
type AIProvider = lingoseo.AIProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = lingoseo.TranslateRequest

// Options wraps a backend with rate limiting and retry.
type Options struct {
	RateLimit RateLimitConfig
	Retry     lingoseo.RetryConfig
}

// Wrap applies rate limiting inside retry, so every attempt waits for a
// token.
func Wrap(p AIProvider, opts Options) AIProvider {
	limited := NewRateLimitedProvider(p, opts.RateLimit)
	retry := opts.Retry
	if retry.MaxRetries == 0 && retry.BaseDelay == 0 {
		retry = lingoseo.DefaultRetryConfig()
	}
	return lingoseo.NewRetryableProvider(limited, retry)
}
