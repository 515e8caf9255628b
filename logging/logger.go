// Package logging defines the structured logging contract shared by every
// lingoseo package, plus helpers for module-scoped and no-op loggers.
package logging

import (
	"context"
	"maps"
)

// Logger is the minimal structured logger used across lingoseo. Arguments
// after the message are alternating key/value pairs.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is implemented by loggers that can carry structured fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// Provider hands out named loggers.
type Provider interface {
	GetLogger(name string) Logger
}

const rootModule = "lingoseo"

// Module names used by the packages in this repository.
const (
	DetectorModule   = "lingoseo.detector"
	ResolverModule   = "lingoseo.resolver"
	SessionModule    = "lingoseo.session"
	ContentModule    = "lingoseo.content"
	PrerenderModule  = "lingoseo.prerender"
	SitemapModule    = "lingoseo.sitemap"
	SiteModule       = "lingoseo.site"
	PreferenceModule = "lingoseo.prefstore"
	ProviderModule   = "lingoseo.provider"
	CLIModule        = "lingoseo.cli"
)

// ModuleLogger returns a logger scoped to module, falling back to NoOp when
// provider is nil or returns nothing.
func ModuleLogger(provider Provider, module string) Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"module": module})
}

// WithFields attaches fields when the logger supports them. A nil logger or an
// empty map returns the logger unchanged.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}
	return logger
}

// OrNoOp returns logger, or a no-op logger when it is nil.
func OrNoOp(logger Logger) Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// NoOp returns a logger that drops every entry.
func NoOp() Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) Logger   { return n }
func (n noopLogger) WithContext(context.Context) Logger { return n }
