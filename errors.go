package lingoseo

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage marks a code outside the catalog.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrSuperseded is returned to a navigation that lost to a newer one.
	ErrSuperseded = errors.New("navigation superseded")

	// ErrNotReady is returned when rendered markup has no mounted content.
	ErrNotReady = errors.New("mount point not ready")
)

// LoadError reports a translation table that could not be read or parsed.
type LoadError struct {
	Language Language
	Path     string
	Cause    error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load translations (%s) from %s: %v", e.Language, e.Path, e.Cause)
	}
	return fmt.Sprintf("load translations (%s): %v", e.Language, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// RenderError reports a failed prerender of one language.
type RenderError struct {
	Language Language
	URL      string
	Message  string
	Cause    error
	// Partial holds whatever markup was captured before the failure.
	Partial   string
	Retryable bool
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render %s (%s): %s: %v", e.URL, e.Language, e.Message, e.Cause)
	}
	return fmt.Sprintf("render %s (%s): %s", e.URL, e.Language, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an AI provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ConfigError reports an invalid catalog or generator setting.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error (%s): %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("config error (%s): %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the AI returned a different number of translations than expected.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
