package lingoseo

import (
	"strings"
)

// Defaults used by MetadataGenerator.
const (
	DefaultOGType      = "profile"
	DefaultTwitterCard = "summary_large_image"
	XDefault           = "x-default"
)

// SEO table keys read by SEOFieldsFrom.
const (
	KeyTitle              = "seo.title"
	KeyDescription        = "seo.description"
	KeyKeywords           = "seo.keywords"
	KeyOGTitle            = "seo.ogTitle"
	KeyOGDescription      = "seo.ogDescription"
	KeyTwitterTitle       = "seo.twitterTitle"
	KeyTwitterDescription = "seo.twitterDescription"
)

// SEOFields are the already-translated inputs to BuildPageMetadata.
// Empty OG and Twitter fields fall back to Title and Description.
type SEOFields struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Keywords           string `json:"keywords,omitempty"`
	OGTitle            string `json:"ogTitle,omitempty"`
	OGDescription      string `json:"ogDescription,omitempty"`
	TwitterTitle       string `json:"twitterTitle,omitempty"`
	TwitterDescription string `json:"twitterDescription,omitempty"`
}

// cleaned collapses whitespace in every field and cuts descriptions to
// DefaultDescriptionLength.
func (f SEOFields) cleaned() SEOFields {
	return SEOFields{
		Title:              SanitizeForSEO(f.Title),
		Description:        TruncateText(f.Description, DefaultDescriptionLength),
		Keywords:           SanitizeForSEO(f.Keywords),
		OGTitle:            SanitizeForSEO(f.OGTitle),
		OGDescription:      TruncateText(f.OGDescription, DefaultDescriptionLength),
		TwitterTitle:       SanitizeForSEO(f.TwitterTitle),
		TwitterDescription: TruncateText(f.TwitterDescription, DefaultDescriptionLength),
	}
}

// SEOFieldsFrom reads the seo.* keys through loc.
func SEOFieldsFrom(loc Localizer) SEOFields {
	keywords := loc.T(KeyKeywords)
	if keywords == "" {
		keywords = strings.Join(loc.Strings(KeyKeywords), ", ")
	}
	return SEOFields{
		Title:              loc.T(KeyTitle),
		Description:        loc.T(KeyDescription),
		Keywords:           keywords,
		OGTitle:            loc.T(KeyOGTitle),
		OGDescription:      loc.T(KeyOGDescription),
		TwitterTitle:       loc.T(KeyTwitterTitle),
		TwitterDescription: loc.T(KeyTwitterDescription),
	}
}

// HreflangLink is one alternate-language link.
type HreflangLink struct {
	Hreflang string `json:"hreflang"`
	Href     string `json:"href"`
}

// OpenGraph holds og:* properties.
type OpenGraph struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	URL              string   `json:"url"`
	Image            string   `json:"image,omitempty"`
	Locale           string   `json:"locale"`
	LocaleAlternates []string `json:"localeAlternates"`
}

// TwitterCard holds twitter:* properties.
type TwitterCard struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Creator     string `json:"creator,omitempty"`
}

// PageMetadata is everything the document head needs for one language and
// path. It is a value; build a new one on every resolution.
type PageMetadata struct {
	Language    Language       `json:"language"`
	Path        string         `json:"path"`
	HTMLLang    string         `json:"htmlLang"`
	Direction   string         `json:"dir"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Keywords    string         `json:"keywords,omitempty"`
	Canonical   string         `json:"canonical"`
	OpenGraph   OpenGraph      `json:"openGraph"`
	Twitter     TwitterCard    `json:"twitter"`
	Alternates  []HreflangLink `json:"alternates"`
}

// MetadataGenerator builds PageMetadata against a fixed catalog and base URL.
type MetadataGenerator struct {
	catalog        *Catalog
	baseURL        string
	ogImage        string
	ogType         string
	twitterCard    string
	twitterCreator string
}

// MetadataOption configures a MetadataGenerator.
type MetadataOption func(*MetadataGenerator)

// WithOGImage sets the social image. Relative paths are joined to the base URL.
func WithOGImage(image string) MetadataOption {
	return func(g *MetadataGenerator) {
		g.ogImage = image
	}
}

// WithOGType overrides og:type.
func WithOGType(t string) MetadataOption {
	return func(g *MetadataGenerator) {
		if t != "" {
			g.ogType = t
		}
	}
}

// WithTwitterCard overrides twitter:card.
func WithTwitterCard(card string) MetadataOption {
	return func(g *MetadataGenerator) {
		if card != "" {
			g.twitterCard = card
		}
	}
}

// WithTwitterCreator sets twitter:creator.
func WithTwitterCreator(handle string) MetadataOption {
	return func(g *MetadataGenerator) {
		g.twitterCreator = handle
	}
}

// NewMetadataGenerator creates a generator. A trailing slash on baseURL is
// dropped.
func NewMetadataGenerator(catalog *Catalog, baseURL string, opts ...MetadataOption) *MetadataGenerator {
	g := &MetadataGenerator{
		catalog:     catalog,
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ogType:      DefaultOGType,
		twitterCard: DefaultTwitterCard,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BaseURL returns the normalized base URL.
func (g *MetadataGenerator) BaseURL() string { return g.baseURL }

// Catalog returns the catalog.
func (g *MetadataGenerator) Catalog() *Catalog { return g.catalog }

// BuildPageMetadata derives the head metadata for lang at currentPath.
// Unsupported languages are replaced by the default.
func (g *MetadataGenerator) BuildPageMetadata(lang Language, seo SEOFields, currentPath string) PageMetadata {
	meta := g.catalog.Meta(lang)
	path := StripLanguagePrefix(g.catalog, currentPath)
	seo = seo.cleaned()
	canonical := g.LanguageURL(meta.Code, path)
	image := g.imageURL()

	alternates := make([]string, 0, g.catalog.Len()-1)
	for _, e := range g.catalog.Entries() {
		if e.Code != meta.Code {
			alternates = append(alternates, e.Locale)
		}
	}

	return PageMetadata{
		Language:    meta.Code,
		Path:        path,
		HTMLLang:    meta.HTMLLang(),
		Direction:   meta.Direction(),
		Title:       seo.Title,
		Description: seo.Description,
		Keywords:    seo.Keywords,
		Canonical:   canonical,
		OpenGraph: OpenGraph{
			Title:            firstNonEmpty(seo.OGTitle, seo.Title),
			Description:      firstNonEmpty(seo.OGDescription, seo.Description),
			Type:             g.ogType,
			URL:              canonical,
			Image:            image,
			Locale:           meta.Locale,
			LocaleAlternates: alternates,
		},
		Twitter: TwitterCard{
			Card:        g.twitterCard,
			Title:       firstNonEmpty(seo.TwitterTitle, seo.OGTitle, seo.Title),
			Description: firstNonEmpty(seo.TwitterDescription, seo.OGDescription, seo.Description),
			Image:       image,
			Creator:     g.twitterCreator,
		},
		Alternates: g.Alternates(path),
	}
}

// LanguageURL returns base + "/" + lang + path, after stripping any
// language prefix already on path.
func (g *MetadataGenerator) LanguageURL(lang Language, path string) string {
	return g.baseURL + "/" + string(lang) + StripLanguagePrefix(g.catalog, path)
}

// Alternates returns one link per catalog language in order, then x-default
// pointing at the default language's URL.
func (g *MetadataGenerator) Alternates(path string) []HreflangLink {
	path = StripLanguagePrefix(g.catalog, path)
	links := make([]HreflangLink, 0, g.catalog.Len()+1)
	for _, e := range g.catalog.Entries() {
		links = append(links, HreflangLink{Hreflang: e.Hreflang, Href: g.LanguageURL(e.Code, path)})
	}
	links = append(links, HreflangLink{Hreflang: XDefault, Href: g.LanguageURL(g.catalog.Default(), path)})
	return links
}

// AbsoluteURL joins a site-relative path to the base URL. Absolute URLs are
// returned unchanged.
func (g *MetadataGenerator) AbsoluteURL(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return g.baseURL + "/" + strings.TrimLeft(p, "/")
}

func (g *MetadataGenerator) imageURL() string {
	return g.AbsoluteURL(g.ogImage)
}

// StripLanguagePrefix normalizes path and removes a leading catalog
// language segment: "/fr/projects" → "/projects", "/fr" → "/".
func StripLanguagePrefix(catalog *Catalog, path string) string {
	path = cleanURLPath(path)
	seg := firstSegment(path)
	if seg == "" || !catalog.Supports(seg) || strings.ToLower(seg) != seg {
		return path
	}
	rest := strings.TrimPrefix(path, "/"+seg)
	if rest == "" {
		return "/"
	}
	return rest
}

// cleanURLPath drops query and fragment and guarantees a leading slash.
func cleanURLPath(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
