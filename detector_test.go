package lingoseo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ZaguanLabs/lingoseo/logging"
)

type memoryPrefs struct {
	value   string
	saves   []string
	loadErr error
	saveErr error
}

func (p *memoryPrefs) Load(context.Context) (string, error) {
	return p.value, p.loadErr
}

func (p *memoryPrefs) Save(_ context.Context, lang string) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.value = lang
	p.saves = append(p.saves, lang)
	return nil
}

func TestDetectorResolve(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		stored   string
		accepted []string
		want     ResolvedLanguage
	}{
		{"path wins over client languages", "/fr/projects", "", []string{"de-DE", "en-US"}, ResolvedLanguage{French, ProvenancePath}},
		{"path wins over stored", "/de/", "pt", nil, ResolvedLanguage{German, ProvenancePath}},
		{"stored preference at root", "/", "pt", []string{"en-US"}, ResolvedLanguage{Portuguese, ProvenanceStored}},
		{"negotiated by base subtag", "/", "", []string{"es-MX", "fr-FR"}, ResolvedLanguage{Spanish, ProvenanceNegotiated}},
		{"unknown path segment falls to default", "/xx/about", "", nil, ResolvedLanguage{English, ProvenanceDefault}},
		{"unsupported stored value ignored", "/", "ru", []string{"de-CH"}, ResolvedLanguage{German, ProvenanceNegotiated}},
		{"segment must match exactly", "/french/", "", nil, ResolvedLanguage{English, ProvenanceDefault}},
		{"uppercase segment is not a match", "/FR/", "", nil, ResolvedLanguage{English, ProvenanceDefault}},
		{"query string ignored", "/es?ref=x", "", nil, ResolvedLanguage{Spanish, ProvenancePath}},
		{"empty path", "", "", nil, ResolvedLanguage{English, ProvenanceDefault}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(DefaultCatalog())
			prefs := &memoryPrefs{value: tt.stored}

			got := d.Resolve(context.Background(), DetectContext{Path: tt.path, Preferences: prefs, Accepted: tt.accepted})
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectorWritesBackResolvedLanguage(t *testing.T) {
	d := NewDetector(DefaultCatalog())
	prefs := &memoryPrefs{}

	got := d.Resolve(context.Background(), DetectContext{Path: "/", Preferences: prefs, Accepted: []string{"es-MX"}})
	if got.Language != Spanish {
		t.Fatalf("Resolve() = %v", got)
	}
	if prefs.value != "es" {
		t.Errorf("stored = %q, want es", prefs.value)
	}

	// The next session short-circuits on the stored value.
	got = d.Resolve(context.Background(), DetectContext{Path: "/", Preferences: prefs, Accepted: []string{"de"}})
	if got != (ResolvedLanguage{Spanish, ProvenanceStored}) {
		t.Errorf("second Resolve() = %v", got)
	}
	if len(prefs.saves) != 1 {
		t.Errorf("expected one save, got %v", prefs.saves)
	}
}

func TestDetectorWithoutWriteBack(t *testing.T) {
	d := NewDetector(DefaultCatalog(), WithoutWriteBack())
	prefs := &memoryPrefs{}

	d.Resolve(context.Background(), DetectContext{Path: "/fr/", Preferences: prefs})
	if len(prefs.saves) != 0 {
		t.Errorf("expected no saves, got %v", prefs.saves)
	}
}

func TestDetectorStoreFailuresDoNotFail(t *testing.T) {
	rec := logging.NewRecorder()
	d := NewDetector(DefaultCatalog(), WithDetectorLogger(rec))
	prefs := &memoryPrefs{loadErr: errors.New("down"), saveErr: errors.New("down")}

	got := d.Resolve(context.Background(), DetectContext{Path: "/", Preferences: prefs, Accepted: []string{"pt-BR"}})
	if got != (ResolvedLanguage{Portuguese, ProvenanceNegotiated}) {
		t.Errorf("Resolve() = %v", got)
	}
	if rec.Count("warn", "preference store") != 2 {
		t.Errorf("expected read and write warnings, got %v", rec.Entries())
	}
}

func TestDetectorNilPreferences(t *testing.T) {
	d := NewDetector(DefaultCatalog())
	got := d.Resolve(context.Background(), DetectContext{Path: "/pt/sobre"})
	if got != (ResolvedLanguage{Portuguese, ProvenancePath}) {
		t.Errorf("Resolve() = %v", got)
	}
}

func TestAcceptedLanguages(t *testing.T) {
	got := AcceptedLanguages("fr-FR;q=0.5, es-MX, de;q=0.8")
	want := []string{"es-MX", "de", "fr-FR"}
	if len(got) != len(want) {
		t.Fatalf("AcceptedLanguages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AcceptedLanguages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if AcceptedLanguages("") != nil {
		t.Error("empty header should yield nil")
	}
}

func TestAcceptedLanguages_SkipsBadEntries(t *testing.T) {
	tests := []struct {
		header string
		want   []string
	}{
		{"xx-toolongsubtag123, fr;q=0.9", []string{"fr"}},
		{"pt-BR;q=abc, fr", []string{"fr"}},
		{"de;q=0, es;q=0.4, en-GB;q=0.7", []string{"en-GB", "es"}},
		{"fr;q=0.5, ,, de;q=0.5", []string{"fr", "de"}},
		{"*;q=0.1, it", []string{"it", "mul"}},
		{";;;, ===", nil},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got := AcceptedLanguages(tt.header)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AcceptedLanguages(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestDetectorNegotiatesPastBadEntries(t *testing.T) {
	d := NewDetector(DefaultCatalog(), WithoutWriteBack())
	got := d.Resolve(context.Background(), DetectContext{
		Path:     "/",
		Accepted: AcceptedLanguages("xx-toolongsubtag123, fr;q=0.9"),
	})
	if got != (ResolvedLanguage{French, ProvenanceNegotiated}) {
		t.Errorf("Resolve() = %v, want fr (negotiated)", got)
	}
}

func TestDetectorResolveIsIdempotent(t *testing.T) {
	tests := []DetectContext{
		{Path: "/de/contact"},
		{Path: "/", Accepted: []string{"pt-BR", "en"}},
		{Path: "/", Preferences: &memoryPrefs{value: "es"}, Accepted: []string{"fr"}},
		{Path: "/unknown", Preferences: &memoryPrefs{value: "zz"}},
		{},
	}

	d := NewDetector(DefaultCatalog(), WithoutWriteBack())
	for _, dc := range tests {
		first := d.Resolve(context.Background(), dc)
		second := d.Resolve(context.Background(), dc)
		if first != second {
			t.Errorf("Resolve(%+v) gave %v then %v", dc, first, second)
		}
	}
}

func TestDetectorResolveIsTotal(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		stored   string
		accepted []string
	}{
		{"blank stored", "/", " ", nil},
		{"mixed case region stored", "/", "EN-us", nil},
		{"control character stored", "/", "\x00", nil},
		{"unknown stored", "/", "xx", nil},
		{"empty declared list", "/", "", []string{}},
		{"garbage declared", "/", "", []string{"", "-", "q=0.5", "\x00", "toolongsubtag123"}},
		{"garbage path", "//\x00/..", "", []string{"*"}},
	}

	c := DefaultCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(c)
			got := d.Resolve(context.Background(), DetectContext{
				Path:        tt.path,
				Preferences: &memoryPrefs{value: tt.stored},
				Accepted:    tt.accepted,
			})
			if !c.Supports(string(got.Language)) {
				t.Fatalf("Resolve() = %v, not a catalog language", got)
			}
			if got != (ResolvedLanguage{English, ProvenanceDefault}) {
				t.Errorf("Resolve() = %v, want the default", got)
			}
		})
	}
}
