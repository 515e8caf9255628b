// Package site serves a built single-page application: static files with
// an index.html fallback, a root redirect to the visitor's language, and a
// temporary server for prerendering.
package site

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/logging"
	"github.com/ZaguanLabs/lingoseo/prefstore"
)

// IndexFile is the application shell.
const IndexFile = "index.html"

// Handler serves files from a built site.
type Handler struct {
	fsys       fs.FS
	detector   *lingoseo.Detector
	cookieName string
	shellOnly  bool
	logger     logging.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRootRedirect redirects "/" to "/{lang}/" using detector, persisting
// the choice in cookieName.
func WithRootRedirect(detector *lingoseo.Detector, cookieName string) HandlerOption {
	return func(h *Handler) {
		h.detector = detector
		h.cookieName = cookieName
	}
}

// WithShellOnly answers every directory request with the root index.html,
// ignoring any previously prerendered {lang}/index.html.
func WithShellOnly() HandlerOption {
	return func(h *Handler) {
		h.shellOnly = true
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logging.OrNoOp(logger)
	}
}

// NewHandler serves fsys.
func NewHandler(fsys fs.FS, opts ...HandlerOption) *Handler {
	h := &Handler{fsys: fsys, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewDirHandler serves the directory dir.
func NewDirHandler(dir string, opts ...HandlerOption) *Handler {
	return NewHandler(os.DirFS(dir), opts...)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path == "/" && h.detector != nil {
		h.redirectRoot(w, r)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "."
	}

	info, err := fs.Stat(h.fsys, name)
	switch {
	case err == nil && !info.IsDir():
		http.ServeFileFS(w, r, h.fsys, name)
		return
	case err == nil && info.IsDir() && !h.shellOnly:
		index := path.Join(name, IndexFile)
		if fi, err := fs.Stat(h.fsys, index); err == nil && !fi.IsDir() {
			h.serveIndex(w, r, index)
			return
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		h.logger.Warn("static file stat failed", "path", name, "error", err)
	}

	// Missing assets are real 404s; everything else is a client route.
	if err != nil && path.Ext(name) != "" {
		http.NotFound(w, r)
		return
	}
	h.serveIndex(w, r, IndexFile)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request, name string) {
	data, err := fs.ReadFile(h.fsys, name)
	if err != nil {
		h.logger.Error("index not readable", "path", name, "error", err)
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

func (h *Handler) redirectRoot(w http.ResponseWriter, r *http.Request) {
	prefs := prefstore.NewCookieStore(w, r, h.cookieName, prefstore.WithSecure(r.TLS != nil))
	resolved := h.detector.Resolve(r.Context(), lingoseo.DetectContext{
		Path:        r.URL.Path,
		Preferences: prefs,
		Accepted:    lingoseo.AcceptedLanguages(r.Header.Get("Accept-Language")),
	})

	target := "/" + string(resolved.Language) + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	h.logger.Debug("root redirect", "language", resolved.Language, "provenance", resolved.Provenance)
	w.Header().Set("Vary", "Accept-Language, Cookie")
	http.Redirect(w, r, target, http.StatusFound)
}
