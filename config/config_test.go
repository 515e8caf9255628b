package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaguanLabs/lingoseo"
	goerrors "github.com/goliatone/go-errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lingoseo.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Setenv("LINGOSEO_BASE_URL", "")
	path := writeConfig(t, `
base_url: https://example.org
default_language: fr
languages: [fr, en, it]
dist_dir: public
sitemap:
  changefreq: weekly
  paths: ["/", "/projects"]
prerender:
  timeout: 45s
  renderer: http
person:
  name: Carlos
  knows_about: [Go, Kubernetes]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://example.org" || cfg.DefaultLanguage != "fr" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Prerender.Timeout != 45*time.Second {
		t.Errorf("timeout = %v", cfg.Prerender.Timeout)
	}
	if cfg.Prerender.Settle != 3*time.Second {
		t.Errorf("unset settle should keep default, got %v", cfg.Prerender.Settle)
	}
	if cfg.Sitemap.Priority != 1.0 || cfg.Sitemap.ChangeFreq != "weekly" {
		t.Errorf("sitemap = %+v", cfg.Sitemap)
	}
	if cfg.DistDir != filepath.Join(filepath.Dir(path), "public") {
		t.Errorf("dist dir should resolve against the config file, got %s", cfg.DistDir)
	}
	if cfg.Person.Name != "Carlos" || len(cfg.Person.KnowsAbout) != 2 {
		t.Errorf("person = %+v", cfg.Person)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LINGOSEO_BASE_URL", "https://env.example")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://env.example" || cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("LINGOSEO_BASE_URL", "")
	tests := []struct {
		name string
		body string
		code string
	}{
		{"unknown key", "base_urll: https://x.example\n", CodeParse},
		{"relative base url", "base_url: /site\n", CodeInvalid},
		{"default not listed", "default_language: it\n", CodeInvalid},
		{"duplicate languages", "languages: [en, en]\n", CodeInvalid},
		{"bad renderer", "prerender:\n  renderer: phantom\n", CodeInvalid},
		{"redis without url", "store:\n  kind: redis\n", CodeInvalid},
		{"bad changefreq", "sitemap:\n  changefreq: sometimes\n", CodeInvalid},
		{"negative settle", "prerender:\n  settle: -1s\n", CodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Errorf("expected validation category, got %v", err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCatalog(t *testing.T) {
	cfg := Default()
	cfg.Languages = []string{"en", "fr", "sv"}
	cfg.LanguageMeta = []lingoseo.LanguageMetadata{
		{Code: "fr", Name: "French", Locale: "fr_FR", Hreflang: "fr"},
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if catalog.Len() != 3 || catalog.Default() != lingoseo.English {
		t.Errorf("catalog = %v", catalog.Languages())
	}
	if m := catalog.Meta("fr"); m.Locale != "fr_FR" {
		t.Errorf("override ignored: %+v", m)
	}
	if m := catalog.Meta("sv"); m.Name != "Swedish" || m.Hreflang != "sv" {
		t.Errorf("unknown code metadata = %+v", m)
	}
}

func TestBuilders(t *testing.T) {
	cfg := Default()
	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}

	meta := cfg.MetadataGenerator(catalog)
	if meta.BaseURL() != "https://carlosmello.work" {
		t.Errorf("base = %s", meta.BaseURL())
	}
	page := meta.BuildPageMetadata(lingoseo.French, lingoseo.SEOFields{Title: "T"}, "/fr/")
	if page.OpenGraph.Image != "https://carlosmello.work/carlos-profile.jpg" {
		t.Errorf("og:image = %s", page.OpenGraph.Image)
	}

	r := cfg.Readiness()
	if r.Selector != "#root > *" || r.Timeout != 30*time.Second || r.Settle != 3*time.Second {
		t.Errorf("readiness = %+v", r)
	}

	store, closeFn, err := cfg.OpenStore(context.Background())
	if err != nil || store == nil {
		t.Fatalf("memory store: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Error(err)
	}

	if _, err := cfg.Translator(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
	cfg.OpenAI.APIKey = "sk-test"
	if p, err := cfg.Translator(); err != nil || p == nil {
		t.Errorf("Translator = %v, %v", p, err)
	}

	if _, err := cfg.LoggerProvider(); err != nil {
		t.Errorf("LoggerProvider: %v", err)
	}
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := Default()
	cfg.Store.Kind = StoreSQLite
	cfg.Store.SQLiteDSN = "file:" + t.Name() + "?mode=memory&cache=shared"

	store, closeFn, err := cfg.OpenStore(context.Background())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer closeFn()

	ctx := context.Background()
	if err := store.Set(ctx, "client-1", "de"); err != nil {
		t.Fatal(err)
	}
	if v, ok, err := store.Get(ctx, "client-1"); err != nil || !ok || v != "de" {
		t.Errorf("Get = %q %v %v", v, ok, err)
	}
}
