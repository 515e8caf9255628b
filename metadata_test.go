package lingoseo

import (
	"reflect"
	"strings"
	"testing"
)

const testBase = "https://carlos.example"

func TestBuildPageMetadataCanonicalAndLocales(t *testing.T) {
	g := NewMetadataGenerator(DefaultCatalog(), testBase+"/", WithOGImage("carlos-profile.jpg"))
	seo := SEOFields{Title: "Carlos", Description: "Engineer", Keywords: "go, seo"}

	m := g.BuildPageMetadata(French, seo, "/fr/projects")

	if m.Canonical != testBase+"/fr/projects" {
		t.Errorf("Canonical = %q", m.Canonical)
	}
	if m.Path != "/projects" {
		t.Errorf("Path = %q", m.Path)
	}
	if m.OpenGraph.Locale != "fr_CH" {
		t.Errorf("og:locale = %q", m.OpenGraph.Locale)
	}
	wantAlt := []string{"en_US", "de_CH", "pt_BR", "es_ES"}
	if !reflect.DeepEqual(m.OpenGraph.LocaleAlternates, wantAlt) {
		t.Errorf("og:locale:alternate = %v, want %v", m.OpenGraph.LocaleAlternates, wantAlt)
	}
	if m.OpenGraph.Image != testBase+"/carlos-profile.jpg" || m.Twitter.Image != m.OpenGraph.Image {
		t.Errorf("images = %q / %q", m.OpenGraph.Image, m.Twitter.Image)
	}
	if m.OpenGraph.Type != "profile" || m.Twitter.Card != "summary_large_image" {
		t.Errorf("og:type/twitter:card = %q/%q", m.OpenGraph.Type, m.Twitter.Card)
	}
	if m.HTMLLang != "fr-CH" || m.Direction != "ltr" {
		t.Errorf("html lang/dir = %q/%q", m.HTMLLang, m.Direction)
	}
}

func TestBuildPageMetadataHreflang(t *testing.T) {
	c := DefaultCatalog()
	g := NewMetadataGenerator(c, testBase)

	m := g.BuildPageMetadata(German, SEOFields{Title: "T"}, "/de/")

	if len(m.Alternates) != c.Len()+1 {
		t.Fatalf("expected %d alternates, got %d", c.Len()+1, len(m.Alternates))
	}
	want := []HreflangLink{
		{"en", testBase + "/en/"},
		{"fr-CH", testBase + "/fr/"},
		{"de-CH", testBase + "/de/"},
		{"pt-BR", testBase + "/pt/"},
		{"es", testBase + "/es/"},
		{"x-default", testBase + "/en/"},
	}
	if !reflect.DeepEqual(m.Alternates, want) {
		t.Errorf("Alternates = %v\nwant %v", m.Alternates, want)
	}
}

func TestBuildPageMetadataSocialFallbacks(t *testing.T) {
	g := NewMetadataGenerator(DefaultCatalog(), testBase, WithTwitterCreator("@carlos"))

	m := g.BuildPageMetadata(English, SEOFields{Title: "Title", Description: "Desc"}, "/")
	if m.OpenGraph.Title != "Title" || m.OpenGraph.Description != "Desc" {
		t.Errorf("og fallback = %q/%q", m.OpenGraph.Title, m.OpenGraph.Description)
	}
	if m.Twitter.Title != "Title" || m.Twitter.Description != "Desc" || m.Twitter.Creator != "@carlos" {
		t.Errorf("twitter fallback = %+v", m.Twitter)
	}

	m = g.BuildPageMetadata(English, SEOFields{Title: "Title", OGTitle: "OG", TwitterDescription: "TW"}, "/")
	if m.OpenGraph.Title != "OG" || m.Twitter.Title != "OG" || m.Twitter.Description != "TW" {
		t.Errorf("explicit social fields not used: %+v %+v", m.OpenGraph, m.Twitter)
	}
}

func TestBuildPageMetadataIsDeterministic(t *testing.T) {
	g := NewMetadataGenerator(DefaultCatalog(), testBase)
	seo := SEOFields{Title: "T", Description: "D"}

	a := g.BuildPageMetadata(Portuguese, seo, "/pt/about?x=1")
	b := g.BuildPageMetadata(Portuguese, seo, "/about")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("metadata differs:\n%+v\n%+v", a, b)
	}
	if a.Canonical != testBase+"/pt/about" {
		t.Errorf("Canonical = %q", a.Canonical)
	}
}

func TestBuildPageMetadataUnsupportedLanguage(t *testing.T) {
	g := NewMetadataGenerator(DefaultCatalog(), testBase)
	m := g.BuildPageMetadata("xx", SEOFields{}, "/")
	if m.Language != English || m.Canonical != testBase+"/en/" {
		t.Errorf("unsupported language: %s %s", m.Language, m.Canonical)
	}
}

func TestStripLanguagePrefix(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		in   string
		want string
	}{
		{"/fr/projects", "/projects"},
		{"/fr", "/"},
		{"/fr/", "/"},
		{"/", "/"},
		{"", "/"},
		{"about", "/about"},
		{"/frank/x", "/frank/x"},
		{"/xx/about", "/xx/about"},
		{"/es//blog#top", "/blog"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StripLanguagePrefix(c, tt.in); got != tt.want {
				t.Errorf("StripLanguagePrefix(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if twice := StripLanguagePrefix(c, StripLanguagePrefix(c, tt.in)); twice != StripLanguagePrefix(c, tt.want) {
				t.Errorf("not stable on %q", tt.in)
			}
		})
	}
}

func TestSEOFieldsFrom(t *testing.T) {
	r := NewResolver(DefaultCatalog(), map[Language]Table{
		English: {"seo": map[string]any{"title": "T", "description": "D", "keywords": []any{"go", "seo"}}},
		French:  {"seo": map[string]any{"title": "TF"}},
	})

	f := SEOFieldsFrom(r.For(French))
	if f.Title != "TF" || f.Description != "D" || f.Keywords != "go, seo" {
		t.Errorf("SEOFieldsFrom = %+v", f)
	}
}

func TestBuildPageMetadataCleansSEOText(t *testing.T) {
	g := NewMetadataGenerator(DefaultCatalog(), testBase)
	long := strings.Repeat("Product owner and engineer. ", 10)

	m := g.BuildPageMetadata(English, SEOFields{
		Title:       "  Carlos\n  Mello ",
		Description: long,
		Keywords:    "go,\n\tseo",
	}, "/")

	if m.Title != "Carlos Mello" || m.OpenGraph.Title != "Carlos Mello" {
		t.Errorf("title = %q, og:title = %q", m.Title, m.OpenGraph.Title)
	}
	if n := len([]rune(m.Description)); n != DefaultDescriptionLength || !strings.HasSuffix(m.Description, "...") {
		t.Errorf("description has %d runes: %q", n, m.Description)
	}
	if m.Twitter.Description != m.Description {
		t.Errorf("twitter:description = %q", m.Twitter.Description)
	}
	if m.Keywords != "go, seo" {
		t.Errorf("keywords = %q", m.Keywords)
	}
}
