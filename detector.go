package lingoseo

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/ZaguanLabs/lingoseo/logging"
)

// Preferences is a single client's persisted language preference.
// Load returns "" when nothing is stored.
type Preferences interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, lang string) error
}

// DetectContext carries the signals available for one request or navigation.
type DetectContext struct {
	// Path is the URL path being served, e.g. "/fr/projects".
	Path string
	// Preferences is optional; nil skips the stored-preference step.
	Preferences Preferences
	// Accepted lists client-declared languages, most preferred first.
	Accepted []string
}

// Detector picks the served language: path segment, then stored
// preference, then client languages by base subtag, then the default.
type Detector struct {
	catalog   *Catalog
	logger    logging.Logger
	writeBack bool
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithDetectorLogger sets the logger.
func WithDetectorLogger(logger logging.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = logging.OrNoOp(logger)
	}
}

// WithoutWriteBack stops the detector from saving its result.
func WithoutWriteBack() DetectorOption {
	return func(d *Detector) {
		d.writeBack = false
	}
}

// NewDetector creates a detector over catalog.
func NewDetector(catalog *Catalog, opts ...DetectorOption) *Detector {
	d := &Detector{
		catalog:   catalog,
		logger:    logging.NoOp(),
		writeBack: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalog returns the catalog the detector resolves against.
func (d *Detector) Catalog() *Catalog { return d.catalog }

// Resolve always returns a catalog language. Store failures are logged and
// treated as an empty store.
func (d *Detector) Resolve(ctx context.Context, dc DetectContext) ResolvedLanguage {
	stored := ""
	if dc.Preferences != nil {
		v, err := dc.Preferences.Load(ctx)
		if err != nil {
			d.logger.Warn("preference store read failed", "error", err)
		}
		stored = strings.TrimSpace(v)
	}

	result := d.resolve(dc, stored)

	if d.writeBack && dc.Preferences != nil && string(result.Language) != stored {
		if err := dc.Preferences.Save(ctx, string(result.Language)); err != nil {
			d.logger.Warn("preference store write failed", "language", result.Language, "error", err)
		}
	}

	d.logger.Debug("language resolved", "path", dc.Path, "language", result.Language, "provenance", result.Provenance)
	return result
}

func (d *Detector) resolve(dc DetectContext, stored string) ResolvedLanguage {
	if lang, ok := d.FromPath(dc.Path); ok {
		return ResolvedLanguage{Language: lang, Provenance: ProvenancePath}
	}

	if stored != "" {
		if meta, ok := d.catalog.Lookup(stored); ok {
			return ResolvedLanguage{Language: meta.Code, Provenance: ProvenanceStored}
		}
		d.logger.Debug("ignoring unsupported stored preference", "stored", stored)
	}

	for _, tag := range dc.Accepted {
		if meta, ok := d.catalog.Lookup(BaseSubtag(tag)); ok {
			return ResolvedLanguage{Language: meta.Code, Provenance: ProvenanceNegotiated}
		}
	}

	return ResolvedLanguage{Language: d.catalog.Default(), Provenance: ProvenanceDefault}
}

// FromPath returns the language named by the first path segment, if any.
// The segment must match a catalog code exactly.
func (d *Detector) FromPath(path string) (Language, bool) {
	seg := firstSegment(path)
	if seg == "" {
		return "", false
	}
	for _, code := range d.catalog.Languages() {
		if string(code) == seg {
			return code, true
		}
	}
	return "", false
}

func firstSegment(path string) string {
	path = cleanURLPath(path)
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

// AcceptedLanguages parses an Accept-Language header into tags ordered by
// quality. Entries that do not parse, or carry a bad or zero weight, are
// skipped; the rest keep their relative order.
func AcceptedLanguages(header string) []string {
	type weighted struct {
		tag string
		q   float32
	}
	var entries []weighted
	for _, entry := range strings.Split(header, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		tags, q, err := language.ParseAcceptLanguage(entry)
		if err != nil || len(tags) == 0 {
			continue
		}
		entries = append(entries, weighted{tag: tags[0].String(), q: q[0]})
	}
	if len(entries) == 0 {
		return nil
	}

	slices.SortStableFunc(entries, func(a, b weighted) int {
		return cmp.Compare(b.q, a.q)
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.tag
	}
	return out
}
