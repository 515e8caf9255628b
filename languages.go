package lingoseo

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a short language code such as "en" or "pt".
type Language string

func (l Language) String() string { return string(l) }

// Languages served out of the box.
const (
	English    Language = "en"
	French     Language = "fr"
	German     Language = "de"
	Portuguese Language = "pt"
	Spanish    Language = "es"
)

// LanguageMetadata describes how a language is presented and tagged.
type LanguageMetadata struct {
	Code       Language `json:"code" yaml:"code"`
	Name       string   `json:"name" yaml:"name"`
	NativeName string   `json:"nativeName" yaml:"native_name"`
	// Locale is the Open Graph locale, e.g. "fr_CH".
	Locale string `json:"locale" yaml:"locale"`
	// Hreflang is the alternate-link tag, e.g. "fr-CH".
	Hreflang string `json:"hreflang" yaml:"hreflang"`
}

// HTMLLang returns the value for the html lang attribute.
func (m LanguageMetadata) HTMLLang() string {
	if m.Hreflang != "" {
		return m.Hreflang
	}
	return ToHTMLLang(m.Locale)
}

// Direction returns "rtl" or "ltr".
func (m LanguageMetadata) Direction() string {
	return GetDirection(string(m.Code))
}

// KnownLanguages holds presentation data for languages a catalog may be
// built from. The first five match the default catalog.
var KnownLanguages = map[Language]LanguageMetadata{
	English:    {Code: English, Name: "English", NativeName: "English", Locale: "en_US", Hreflang: "en"},
	French:     {Code: French, Name: "French", NativeName: "Français", Locale: "fr_CH", Hreflang: "fr-CH"},
	German:     {Code: German, Name: "German", NativeName: "Deutsch", Locale: "de_CH", Hreflang: "de-CH"},
	Portuguese: {Code: Portuguese, Name: "Portuguese", NativeName: "Português", Locale: "pt_BR", Hreflang: "pt-BR"},
	Spanish:    {Code: Spanish, Name: "Spanish", NativeName: "Español", Locale: "es_ES", Hreflang: "es"},
	"it":       {Code: "it", Name: "Italian", NativeName: "Italiano", Locale: "it_IT", Hreflang: "it"},
	"nl":       {Code: "nl", Name: "Dutch", NativeName: "Nederlands", Locale: "nl_NL", Hreflang: "nl"},
	"pl":       {Code: "pl", Name: "Polish", NativeName: "Polski", Locale: "pl_PL", Hreflang: "pl"},
	"ja":       {Code: "ja", Name: "Japanese", NativeName: "日本語", Locale: "ja_JP", Hreflang: "ja"},
	"zh":       {Code: "zh", Name: "Chinese", NativeName: "中文", Locale: "zh_CN", Hreflang: "zh-CN"},
	"ar":       {Code: "ar", Name: "Arabic", NativeName: "العربية", Locale: "ar_SA", Hreflang: "ar"},
	"he":       {Code: "he", Name: "Hebrew", NativeName: "עברית", Locale: "he_IL", Hreflang: "he"},
}

// RTLLanguages lists base codes written right to left.
var RTLLanguages = map[string]bool{
	"ar": true,
	"he": true,
	"fa": true,
	"ur": true,
	"ps": true,
	"sd": true,
	"ug": true,
}

// Catalog is the ordered, closed set of supported languages.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	entries  []LanguageMetadata
	index    map[Language]int
	fallback Language
}

// NewCatalog builds a catalog from entries in presentation order.
// defaultLang must be one of the entries.
func NewCatalog(defaultLang Language, entries ...LanguageMetadata) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, &ConfigError{Field: "languages", Message: "catalog needs at least one language"}
	}
	c := &Catalog{
		entries: make([]LanguageMetadata, 0, len(entries)),
		index:   make(map[Language]int, len(entries)),
	}
	for _, e := range entries {
		code := Language(strings.ToLower(strings.TrimSpace(string(e.Code))))
		if code == "" {
			return nil, &ConfigError{Field: "languages", Message: "language code is empty"}
		}
		if _, dup := c.index[code]; dup {
			return nil, &ConfigError{Field: "languages", Message: fmt.Sprintf("duplicate language %q", code)}
		}
		e.Code = code
		if e.Locale == "" {
			e.Locale = string(code)
		}
		if e.Hreflang == "" {
			e.Hreflang = ToHTMLLang(e.Locale)
		}
		c.index[code] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	if _, ok := c.index[defaultLang]; !ok {
		return nil, &ConfigError{Field: "default_language", Message: fmt.Sprintf("%q is not in the catalog", defaultLang)}
	}
	c.fallback = defaultLang
	return c, nil
}

// CatalogFromCodes builds a catalog from KnownLanguages.
func CatalogFromCodes(defaultLang Language, codes ...Language) (*Catalog, error) {
	entries := make([]LanguageMetadata, 0, len(codes))
	for _, code := range codes {
		meta, ok := KnownLanguages[code]
		if !ok {
			return nil, &ConfigError{Field: "languages", Message: fmt.Sprintf("no metadata for %q", code), Cause: ErrUnsupportedLanguage}
		}
		entries = append(entries, meta)
	}
	return NewCatalog(defaultLang, entries...)
}

// DefaultCatalog returns en, fr, de, pt, es with English as default.
func DefaultCatalog() *Catalog {
	c, err := CatalogFromCodes(English, English, French, German, Portuguese, Spanish)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the fallback language.
func (c *Catalog) Default() Language { return c.fallback }

// Len returns the number of supported languages.
func (c *Catalog) Len() int { return len(c.entries) }

// Languages returns the codes in catalog order.
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Code
	}
	return out
}

// Entries returns a copy of every entry in catalog order.
func (c *Catalog) Entries() []LanguageMetadata {
	out := make([]LanguageMetadata, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the metadata for code. ok is false for codes outside the
// catalog. Matching is exact after lowercasing.
func (c *Catalog) Lookup(code string) (LanguageMetadata, bool) {
	i, ok := c.index[Language(strings.ToLower(strings.TrimSpace(code)))]
	if !ok {
		return LanguageMetadata{}, false
	}
	return c.entries[i], true
}

// Supports reports whether code is a catalog member.
func (c *Catalog) Supports(code string) bool {
	_, ok := c.Lookup(code)
	return ok
}

// Meta returns the metadata for lang, or the default language's metadata
// when lang is unsupported.
func (c *Catalog) Meta(lang Language) LanguageMetadata {
	if m, ok := c.Lookup(string(lang)); ok {
		return m
	}
	return c.entries[c.index[c.fallback]]
}

// Normalize maps lang to itself when supported, else to the default.
func (c *Catalog) Normalize(lang Language) Language {
	return c.Meta(lang).Code
}

// BaseSubtag returns the primary language subtag of a BCP 47 tag
// ("es-MX" → "es"). Unparseable input falls back to the text before the
// first separator.
func BaseSubtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if t, err := language.Parse(tag); err == nil {
		if base, conf := t.Base(); conf != language.No {
			return base.String()
		}
	}
	head := strings.FieldsFunc(tag, func(r rune) bool { return r == '-' || r == '_' })
	if len(head) == 0 {
		return ""
	}
	return strings.ToLower(head[0])
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	base := strings.ToLower(strings.Split(NormalizeLocale(langCode), "_")[0])
	if RTLLanguages[base] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// NormalizeLocale converts a tag to Open Graph form ("pt-BR" → "pt_BR").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// ToHTMLLang converts a locale to hreflang form ("pt_BR" → "pt-BR").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}

// LanguageName returns the English name of a code or locale, including the
// region when it changes the variety ("fr_CH" → "Swiss French"). Unknown
// input is returned unchanged.
func LanguageName(code string) string {
	tag, err := language.Parse(ToHTMLLang(strings.TrimSpace(code)))
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	if meta, ok := KnownLanguages[Language(BaseSubtag(code))]; ok {
		return meta.Name
	}
	return code
}
