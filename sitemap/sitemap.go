// Package sitemap writes per-language URL sets with hreflang alternates and
// the index that references them.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/logging"
)

const (
	urlsetNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS  = "http://www.w3.org/1999/xhtml"

	// IndexFile is the sitemap index file name.
	IndexFile = "sitemap.xml"

	DefaultChangeFreq = "monthly"
	DefaultPriority   = 1.0
)

// Valid changefreq values.
var ChangeFreqs = []string{"always", "hourly", "daily", "weekly", "monthly", "yearly", "never"}

// Link is an xhtml:link alternate annotation.
type Link struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// URL is one <url> entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
	Links      []Link `xml:"xhtml:link"`
}

// URLSet is a per-language sitemap document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []URL    `xml:"url"`
}

// Ref is one <sitemap> entry of the index.
type Ref struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// Index is the sitemap index document.
type Index struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	XMLNS    string   `xml:"xmlns,attr"`
	Sitemaps []Ref    `xml:"sitemap"`
}

// Generator builds sitemap documents for every catalog language.
type Generator struct {
	meta       *lingoseo.MetadataGenerator
	paths      []string
	changeFreq string
	priority   float64
	now        func() time.Time
	logger     logging.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithPaths sets the unprefixed page paths listed in every URL set.
func WithPaths(paths ...string) Option {
	return func(g *Generator) {
		if len(paths) > 0 {
			g.paths = append([]string(nil), paths...)
		}
	}
}

// WithChangeFreq sets the changefreq value.
func WithChangeFreq(freq string) Option {
	return func(g *Generator) {
		if freq != "" {
			g.changeFreq = freq
		}
	}
}

// WithPriority sets the priority value, clamped to [0, 1].
func WithPriority(p float64) Option {
	return func(g *Generator) {
		g.priority = min(max(p, 0), 1)
	}
}

// WithClock sets the time source used for lastmod stamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(g *Generator) {
		g.logger = logging.OrNoOp(logger)
	}
}

// New creates a Generator that builds URLs with meta.
func New(meta *lingoseo.MetadataGenerator, opts ...Option) *Generator {
	g := &Generator{
		meta:       meta,
		paths:      []string{"/"},
		changeFreq: DefaultChangeFreq,
		priority:   DefaultPriority,
		now:        time.Now,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FileName returns the per-language sitemap file name.
func FileName(lang lingoseo.Language) string {
	return "sitemap-" + string(lang) + ".xml"
}

// Entries returns the URL entries of lang's sitemap. Each carries one
// alternate per catalog language plus x-default pointing at the unprefixed
// path, which redirects to the visitor's language.
func (g *Generator) Entries(lang lingoseo.Language) []URL {
	catalog := g.meta.Catalog()
	urls := make([]URL, 0, len(g.paths))
	for _, p := range g.paths {
		u := URL{
			Loc:        g.meta.LanguageURL(lang, p),
			ChangeFreq: g.changeFreq,
			Priority:   strconv.FormatFloat(g.priority, 'f', 1, 64),
			Links:      make([]Link, 0, catalog.Len()+1),
		}
		for _, e := range catalog.Entries() {
			u.Links = append(u.Links, Link{Rel: "alternate", Hreflang: e.Hreflang, Href: g.meta.LanguageURL(e.Code, p)})
		}
		u.Links = append(u.Links, Link{
			Rel:      "alternate",
			Hreflang: lingoseo.XDefault,
			Href:     g.meta.AbsoluteURL(lingoseo.StripLanguagePrefix(catalog, p)),
		})
		urls = append(urls, u)
	}
	return urls
}

// URLSet renders lang's sitemap document.
func (g *Generator) URLSet(lang lingoseo.Language) ([]byte, error) {
	return encode(URLSet{XMLNS: urlsetNS, XHTML: xhtmlNS, URLs: g.Entries(lang)})
}

// Index renders the sitemap index, stamped with today's date in UTC.
func (g *Generator) Index() ([]byte, error) {
	lastmod := g.now().UTC().Format(time.DateOnly)
	idx := Index{XMLNS: urlsetNS}
	for _, lang := range g.meta.Catalog().Languages() {
		idx.Sitemaps = append(idx.Sitemaps, Ref{
			Loc:     g.meta.AbsoluteURL(FileName(lang)),
			LastMod: lastmod,
		})
	}
	return encode(idx)
}

// Files renders every document keyed by file name.
func (g *Generator) Files() (map[string][]byte, error) {
	files := make(map[string][]byte, g.meta.Catalog().Len()+1)
	for _, lang := range g.meta.Catalog().Languages() {
		data, err := g.URLSet(lang)
		if err != nil {
			return nil, fmt.Errorf("sitemap %s: %w", lang, err)
		}
		files[FileName(lang)] = data
	}
	data, err := g.Index()
	if err != nil {
		return nil, fmt.Errorf("sitemap index: %w", err)
	}
	files[IndexFile] = data
	return files, nil
}

// Write renders all documents into dir and returns the written paths,
// language sitemaps first in catalog order, then the index.
func (g *Generator) Write(dir string) ([]string, error) {
	files, err := g.Files()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sitemap dir: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, lang := range g.meta.Catalog().Languages() {
		names = append(names, FileName(lang))
	}
	names = append(names, IndexFile)

	written := make([]string, 0, len(names))
	for _, name := range names {
		target := filepath.Join(dir, name)
		if err := os.WriteFile(target, files[name], 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		g.logger.Info("sitemap written", "file", target, "bytes", len(files[name]))
		written = append(written, target)
	}
	return written, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
