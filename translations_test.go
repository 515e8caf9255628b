package lingoseo

import (
	"testing"

	"github.com/ZaguanLabs/lingoseo/logging"
)

func testTables() map[Language]Table {
	return map[Language]Table{
		English: {
			"seo": map[string]any{
				"title":       "Carlos | Portfolio",
				"description": "Software engineer",
			},
			"hero": map[string]any{
				"greeting": "Hello",
				"skills":   []any{"Go", "TypeScript"},
			},
			"certifications": map[string]any{
				"items": []any{
					map[string]any{"name": "CKA", "issuer": "CNCF"},
					map[string]any{"name": "AWS SA", "issuer": "Amazon"},
				},
			},
			"testimonials": map[string]any{
				"10": map[string]any{"author": "Z"},
				"2":  map[string]any{"author": "B"},
				"1":  map[string]any{"author": "A"},
			},
			"stats": map[string]any{"years": float64(8)},
		},
		French: {
			"seo": map[string]any{
				"title": "Carlos | Portfolio FR",
			},
			"hero": map[string]any{
				"greeting": "Bonjour",
			},
		},
	}
}

func TestResolverFallback(t *testing.T) {
	r := NewResolver(DefaultCatalog(), testTables())

	tests := []struct {
		name string
		lang Language
		key  string
		want string
	}{
		{"direct hit", French, "hero.greeting", "Bonjour"},
		{"falls back to default table", French, "seo.description", "Software engineer"},
		{"missing everywhere", French, "seo.keywords", ""},
		{"language without a table", German, "hero.greeting", "Hello"},
		{"unsupported language uses default", "xx", "seo.title", "Carlos | Portfolio"},
		{"structured value as string", English, "hero.skills", ""},
		{"number formatted", English, "stats.years", "8"},
		{"path through a leaf", English, "hero.greeting.more", ""},
		{"empty key", English, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.String(tt.lang, tt.key); got != tt.want {
				t.Errorf("String(%s, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestResolverStructuredValues(t *testing.T) {
	r := NewResolver(DefaultCatalog(), testTables())

	skills := r.Strings(French, "hero.skills")
	if len(skills) != 2 || skills[0] != "Go" {
		t.Errorf("Strings() = %v", skills)
	}

	certs := r.Objects(Spanish, "certifications.items")
	if len(certs) != 2 || RecordString(certs[1], "issuer") != "Amazon" {
		t.Errorf("Objects() = %v", certs)
	}

	ordered := r.Objects(English, "testimonials")
	if len(ordered) != 3 {
		t.Fatalf("Objects(map) = %v", ordered)
	}
	for i, want := range []string{"A", "B", "Z"} {
		if RecordString(ordered[i], "author") != want {
			t.Errorf("Objects(map)[%d] author = %v, want %s", i, ordered[i]["author"], want)
		}
	}

	if got := r.Objects(English, "missing.list"); got == nil || len(got) != 0 {
		t.Errorf("missing list should be empty, not nil: %v", got)
	}
	if got := r.Strings(English, "seo.title"); len(got) != 0 {
		t.Errorf("scalar as list should be empty: %v", got)
	}
	if got := r.Object(English, "nope"); got == nil || len(got) != 0 {
		t.Errorf("missing object should be empty: %v", got)
	}
	if got := r.Translate(English, "nope", AsRaw()); got != nil {
		t.Errorf("raw missing = %v, want nil", got)
	}
	if got := r.Translate(English, "nope", WithFallback("n/a")); got != "n/a" {
		t.Errorf("fallback = %v", got)
	}
}

func TestResolverWarnsOncePerKey(t *testing.T) {
	rec := logging.NewRecorder()
	r := NewResolver(DefaultCatalog(), testTables(), WithResolverLogger(rec))

	for i := 0; i < 3; i++ {
		r.String(French, "footer.copyright")
	}
	r.String(German, "footer.copyright")

	if got := rec.Count("warn", "missing translation key"); got != 2 {
		t.Errorf("expected 2 warnings (fr, de), got %d", got)
	}
}

func TestLocalizer(t *testing.T) {
	r := NewResolver(DefaultCatalog(), testTables())

	fr := r.For(French)
	if fr.Language() != French || fr.T("hero.greeting") != "Bonjour" {
		t.Errorf("Localizer fr = %s %q", fr.Language(), fr.T("hero.greeting"))
	}
	if !fr.Has("seo.description") || fr.Has("seo.keywords") {
		t.Error("Has() mismatch")
	}
	if r.For("xx").Language() != English {
		t.Error("unsupported language should bind to default")
	}
}

func TestResolverIgnoresForeignTables(t *testing.T) {
	tables := testTables()
	tables["ru"] = Table{"hero": map[string]any{"greeting": "Привет"}}
	r := NewResolver(DefaultCatalog(), tables)

	if r.Table("ru") != nil {
		t.Error("tables outside the catalog should be dropped")
	}
}
