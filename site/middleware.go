package site

import (
	"context"
	"net/http"
	"time"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/logging"
	"github.com/ZaguanLabs/lingoseo/prefstore"
)

type languageKey struct{}

// WithLanguage stores the resolved language in ctx.
func WithLanguage(ctx context.Context, resolved lingoseo.ResolvedLanguage) context.Context {
	return context.WithValue(ctx, languageKey{}, resolved)
}

// LanguageFromContext returns the language stored by WithLanguage.
func LanguageFromContext(ctx context.Context) (lingoseo.ResolvedLanguage, bool) {
	resolved, ok := ctx.Value(languageKey{}).(lingoseo.ResolvedLanguage)
	return resolved, ok
}

// Middleware resolves the request language with detector and stores it in
// the request context. The preference cookie is updated when the result
// differs from it.
func Middleware(detector *lingoseo.Detector, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved := detector.Resolve(r.Context(), lingoseo.DetectContext{
				Path:        r.URL.Path,
				Preferences: prefstore.NewCookieStore(w, r, cookieName, prefstore.WithSecure(r.TLS != nil)),
				Accepted:    lingoseo.AcceptedLanguages(r.Header.Get("Accept-Language")),
			})
			w.Header().Set("Content-Language", detector.Catalog().Meta(resolved.Language).HTMLLang())
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), resolved)))
		})
	}
}

// Logging logs one line per request.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	logger = logging.OrNoOp(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapper.statusCode,
				"duration", time.Since(start),
			}
			if resolved, ok := LanguageFromContext(r.Context()); ok {
				args = append(args, "language", resolved.Language)
			}
			logger.Debug("http request", args...)
		})
	}
}

// responseWrapper captures the status code.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
