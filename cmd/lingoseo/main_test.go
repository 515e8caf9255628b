package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/lingoseo/prerender"
)

const enTable = `{
  "seo": {"title": "Carlos Mello | Software Engineer", "description": "Portfolio"},
  "nav": {"home": "Home", "about": "About"}
}`

const frTable = `{
  "seo": {"title": "Carlos Mello | Ingénieur logiciel", "description": "Portfolio"},
  "nav": {"home": "Accueil"}
}`

const shell = `<!DOCTYPE html><html lang="en"><head><title>Shell</title></head>` +
	`<body><div id="root"><main>Hello</main></div></body></html>`

// project writes a config, two locale tables and a built shell, and
// returns the config path.
func project(t *testing.T, extra string) string {
	t.Helper()
	t.Setenv("LINGOSEO_BASE_URL", "")
	t.Setenv("LINGOSEO_DIST_DIR", "")
	t.Setenv("LINGOSEO_LOCALES_DIR", "")
	t.Setenv("OPENAI_API_KEY", "")

	dir := t.TempDir()
	files := map[string]string{
		"locales/en.json": enTable,
		"locales/fr.json": frTable,
		"dist/index.html": shell,
		"lingoseo.yaml": `base_url: https://example.org
default_language: en
languages: [en, fr]
log:
  level: error
prerender:
  renderer: http
  settle: 0s
  timeout: 5s
` + extra,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "lingoseo.yaml")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(ctx, args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "lingoseo") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestDetect(t *testing.T) {
	cfg := project(t, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"path wins", []string{"--path", "/fr/projects", "--accept-language", "en"}, "fr (path)"},
		{"stored", []string{"--stored", "fr", "--accept-language", "en-US"}, "fr (stored)"},
		{"negotiated", []string{"--accept-language", "fr-CA,en;q=0.5"}, "fr (negotiated)"},
		{"unsupported stored ignored", []string{"--stored", "de"}, "en (default)"},
		{"default", nil, "en (default)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "detect"}, tt.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("detect failed: %v", err)
			}
			if !strings.HasPrefix(out, tt.want) {
				t.Errorf("got %q, want prefix %q", out, tt.want)
			}
		})
	}
}

func TestDetect_JSONReportsWriteBack(t *testing.T) {
	cfg := project(t, "")
	out, err := runCLI(t, "--config", cfg, "--json", "detect", "--path", "/fr/", "--stored", "en")
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Language   string `json:"language"`
		Provenance string `json:"provenance"`
		HTMLLang   string `json:"htmlLang"`
		Stored     string `json:"stored"`
		Saved      bool   `json:"saved"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	if got.Language != "fr" || got.Provenance != "path" || got.Stored != "en" || !got.Saved {
		t.Errorf("got %+v", got)
	}
}

func TestDetect_ClientNeedsKeyedStore(t *testing.T) {
	cfg := project(t, "store:\n  kind: cookie\n")
	_, err := runCLI(t, "--config", cfg, "detect", "--client", "abc")
	if err == nil {
		t.Fatal("expected error")
	}
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", exitCode(err))
	}
}

func TestDetect_ClientMemoryStore(t *testing.T) {
	cfg := project(t, "")
	out, err := runCLI(t, "--config", cfg, "detect", "--client", "abc", "--path", "/fr/")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "preference saved: fr") {
		t.Errorf("expected write-back, got %q", out)
	}
}

func TestMeta(t *testing.T) {
	cfg := project(t, "")
	out, err := runCLI(t, "--config", cfg, "--json", "meta", "--lang", "fr", "--path", "/fr/")
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Title      string `json:"title"`
		Canonical  string `json:"canonical"`
		HTMLLang   string `json:"htmlLang"`
		Alternates []struct {
			Hreflang string `json:"hreflang"`
			Href     string `json:"href"`
		} `json:"alternates"`
		StructuredData []string `json:"structuredData"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Title != "Carlos Mello | Ingénieur logiciel" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Canonical != "https://example.org/fr/" {
		t.Errorf("canonical = %q", got.Canonical)
	}
	if len(got.Alternates) != 3 || got.Alternates[2].Hreflang != "x-default" || got.Alternates[2].Href != "https://example.org/en/" {
		t.Errorf("alternates = %+v", got.Alternates)
	}
	if len(got.StructuredData) == 0 {
		t.Error("expected structured data")
	}
}

func TestMeta_HTML(t *testing.T) {
	cfg := project(t, "")
	out, err := runCLI(t, "--config", cfg, "meta", "--lang", "en", "--html")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<link rel="canonical" href="https://example.org/en/"/>`,
		`hreflang="x-default"`,
		`<meta property="og:locale:alternate"`,
		`application/ld+json`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestMeta_UnsupportedLanguage(t *testing.T) {
	cfg := project(t, "")
	_, err := runCLI(t, "--config", cfg, "meta", "--lang", "ja")
	if err == nil {
		t.Fatal("expected error")
	}
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", exitCode(err))
	}
}

func TestSitemap(t *testing.T) {
	cfg := project(t, "")
	out := filepath.Join(t.TempDir(), "public")
	if _, err := runCLI(t, "--config", cfg, "sitemap", "--out", out); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"sitemap.xml", "sitemap-en.xml", "sitemap-fr.xml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(out, "sitemap-fr.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "https://example.org/fr/") {
		t.Errorf("sitemap-fr.xml = %s", data)
	}
}

func TestI18nCheck(t *testing.T) {
	cfg := project(t, "")

	out, err := runCLI(t, "--config", cfg, "i18n", "check", "-v")
	if err != nil {
		t.Fatalf("non-strict check should pass: %v", err)
	}
	if !strings.Contains(out, "incomplete") || !strings.Contains(out, "- nav.about") {
		t.Errorf("output = %q", out)
	}

	_, err = runCLI(t, "--config", cfg, "i18n", "check", "--strict")
	if err == nil || !strings.Contains(err.Error(), "fr") {
		t.Fatalf("strict check should fail naming fr, got %v", err)
	}
}

func TestI18nFill_NoAPIKey(t *testing.T) {
	cfg := project(t, "")
	_, err := runCLI(t, "--config", cfg, "i18n", "fill")
	if err == nil {
		t.Fatal("expected error without OPENAI_API_KEY")
	}
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", exitCode(err))
	}
}

func TestI18nFill_DryRun(t *testing.T) {
	cfg := project(t, "")
	out, err := runCLI(t, "--config", cfg, "i18n", "fill", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 keys to translate") {
		t.Errorf("output = %q", out)
	}
}

func TestI18nFill_WritesOverlay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": `{"translations":["À propos"]}`},
			}},
		})
	}))
	defer srv.Close()

	cfg := project(t, "openai:\n  base_url: "+srv.URL+"\n")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	out, err := runCLI(t, "--config", cfg, "i18n", "fill", "--lang", "fr")
	if err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if !strings.Contains(out, "filled=1") {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(cfg), "locales", "fr.overlay.json"))
	if err != nil {
		t.Fatalf("overlay not written: %v", err)
	}
	if !strings.Contains(string(data), "À propos") {
		t.Errorf("overlay = %s", data)
	}

	// The overlay now supplies the key, so the check passes strictly.
	if _, err := runCLI(t, "--config", cfg, "i18n", "check", "--strict"); err != nil {
		t.Errorf("check after fill: %v", err)
	}
}

func TestPrerender_HTTPRenderer(t *testing.T) {
	cfg := project(t, "")
	dist := filepath.Join(filepath.Dir(cfg), "dist")

	out, err := runCLI(t, "--config", cfg, "prerender")
	if err != nil {
		t.Fatalf("prerender failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2/2 languages prerendered") {
		t.Errorf("output = %q", out)
	}

	page, err := os.ReadFile(filepath.Join(dist, "fr", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`lang="fr"`, "Ingénieur logiciel", `href="https://example.org/fr/"`} {
		if !strings.Contains(string(page), want) {
			t.Errorf("fr/index.html missing %s", want)
		}
	}

	report, err := prerender.ReadReport(filepath.Join(dist, prerender.ReportFile))
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() || report.RunID == "" {
		t.Errorf("report = %+v", report)
	}
}

func TestPrerender_FailsWhenNotMounted(t *testing.T) {
	cfg := project(t, "")
	dist := filepath.Join(filepath.Dir(cfg), "dist")
	if err := os.WriteFile(filepath.Join(dist, "index.html"), []byte(`<html><body><div id="root"></div></body></html>`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "--config", cfg, "prerender", "--timeout", "300ms")
	if err == nil {
		t.Fatal("expected failure for an empty mount point")
	}
	if exitCode(err) != 1 {
		t.Errorf("exit code = %d, want 1", exitCode(err))
	}
	if _, statErr := os.Stat(filepath.Join(dist, "fr", "index.html")); statErr == nil {
		t.Error("no page should be written for a failed language")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := project(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := runCLIContext(t, ctx, "--config", cfg, "serve", "--addr", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "serving") || !strings.Contains(out, "stopped") {
		t.Errorf("output = %q", out)
	}
}

func TestLoad_BadConfig(t *testing.T) {
	cfg := project(t, "unknown_key: true\n")
	_, err := runCLI(t, "--config", cfg, "detect")
	if err == nil {
		t.Fatal("expected config error")
	}
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", exitCode(err))
	}
}
