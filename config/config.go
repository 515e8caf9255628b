// Package config loads lingoseo.yaml, applies environment overrides and
// validates the result.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/htmldoc"
	"github.com/ZaguanLabs/lingoseo/prefstore"
	"github.com/ZaguanLabs/lingoseo/sitemap"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// DefaultFiles are searched in the working directory when no path is given.
var DefaultFiles = []string{"lingoseo.yaml", "lingoseo.yml"}

// Error text codes.
const (
	CodeInvalid  = "CONFIG_INVALID"
	CodeNotFound = "CONFIG_NOT_FOUND"
	CodeParse    = "CONFIG_PARSE_FAILED"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreCookie = "cookie"
	StoreSQLite = "sqlite"
)

// Renderer kinds.
const (
	RendererChrome = "chrome"
	RendererHTTP   = "http"
)

// Config is the full configuration.
type Config struct {
	BaseURL         string                      `yaml:"base_url"`
	DefaultLanguage string                      `yaml:"default_language"`
	Languages       []string                    `yaml:"languages"`
	LanguageMeta    []lingoseo.LanguageMetadata `yaml:"language_metadata"`
	LocalesDir      string                      `yaml:"locales_dir"`
	DistDir         string                      `yaml:"dist_dir"`
	OGImage         string                      `yaml:"og_image"`
	OGType          string                      `yaml:"og_type"`
	TwitterCard     string                      `yaml:"twitter_card"`
	TwitterCreator  string                      `yaml:"twitter_creator"`
	PreferenceKey   string                      `yaml:"preference_key"`
	Person          lingoseo.PersonProfile      `yaml:"person"`
	Sitemap         SitemapConfig               `yaml:"sitemap"`
	Prerender       PrerenderConfig             `yaml:"prerender"`
	Store           StoreConfig                 `yaml:"store"`
	Log             LogConfig                   `yaml:"log"`
	OpenAI          OpenAIConfig                `yaml:"openai"`
}

// SitemapConfig configures sitemap generation.
type SitemapConfig struct {
	ChangeFreq string   `yaml:"changefreq"`
	Priority   float64  `yaml:"priority"`
	Paths      []string `yaml:"paths"`
}

// PrerenderConfig configures the prerender run.
type PrerenderConfig struct {
	Addr          string        `yaml:"addr"`
	ReadySelector string        `yaml:"ready_selector"`
	Timeout       time.Duration `yaml:"timeout"`
	Settle        time.Duration `yaml:"settle"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout"`
	Renderer      string        `yaml:"renderer"`
	ChromePath    string        `yaml:"chrome_path"`
}

// StoreConfig selects the preference store.
type StoreConfig struct {
	Kind      string        `yaml:"kind"`
	RedisURL  string        `yaml:"redis_url"`
	SQLiteDSN string        `yaml:"sqlite_dsn"`
	TTL       time.Duration `yaml:"ttl"`
	KeyPrefix string        `yaml:"key_prefix"`
}

// LogConfig configures the logger provider.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OpenAIConfig configures i18n fill. The API key only comes from the
// environment.
type OpenAIConfig struct {
	Model             string `yaml:"model"`
	BaseURL           string `yaml:"base_url"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	APIKey            string `yaml:"-"`
}

// Default returns the configuration of the carlosmello.work portfolio.
func Default() Config {
	return Config{
		BaseURL:         "https://carlosmello.work",
		DefaultLanguage: string(lingoseo.English),
		Languages:       []string{"en", "fr", "de", "pt", "es"},
		LocalesDir:      "locales",
		DistDir:         "dist",
		OGImage:         "carlos-profile.jpg",
		OGType:          lingoseo.DefaultOGType,
		TwitterCard:     lingoseo.DefaultTwitterCard,
		PreferenceKey:   prefstore.DefaultKey,
		Sitemap: SitemapConfig{
			ChangeFreq: sitemap.DefaultChangeFreq,
			Priority:   sitemap.DefaultPriority,
			Paths:      []string{"/"},
		},
		Prerender: PrerenderConfig{
			Addr:          "127.0.0.1:0",
			ReadySelector: htmldoc.DefaultReadySelector,
			Timeout:       30 * time.Second,
			Settle:        3 * time.Second,
			ProbeTimeout:  10 * time.Second,
			Renderer:      RendererChrome,
		},
		Store: StoreConfig{
			Kind: StoreMemory,
			TTL:  365 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		OpenAI: OpenAIConfig{
			RequestsPerMinute: 60,
		},
	}
}

// Load reads path over the defaults, applies the process environment and
// validates. An empty path searches DefaultFiles and falls back to the
// defaults when none exists.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		for _, name := range DefaultFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			code := CodeParse
			if errors.Is(err, os.ErrNotExist) {
				code = CodeNotFound
			}
			return cfg, goerrors.Wrap(err, goerrors.CategoryValidation, "read config "+path).WithTextCode(code)
		}
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return cfg, goerrors.Wrap(err, goerrors.CategoryValidation, "parse config "+path).WithTextCode(CodeParse)
		}
		cfg.resolvePaths(filepath.Dir(path))
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode reads YAML into cfg, keeping values the document does not set.
// Unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// resolvePaths makes relative directories relative to the config file.
func (c *Config) resolvePaths(base string) {
	if base == "" || base == "." {
		return
	}
	for _, p := range []*string{&c.LocalesDir, &c.DistDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("LINGOSEO_BASE_URL"); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup("LINGOSEO_DIST_DIR"); ok && v != "" {
		c.DistDir = v
	}
	if v, ok := lookup("LINGOSEO_LOCALES_DIR"); ok && v != "" {
		c.LocalesDir = v
	}
	if v, ok := lookup("LINGOSEO_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("LINGOSEO_REDIS_URL"); ok && v != "" {
		c.Store.RedisURL = v
	}
	if v, ok := lookup("OPENAI_API_KEY"); ok {
		c.OpenAI.APIKey = v
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(absoluteHTTPURL)),
		validation.Field(&c.Languages, validation.Required, validation.By(uniqueCodes)),
		validation.Field(&c.DefaultLanguage, validation.Required, validation.By(func(value any) error {
			for _, code := range c.Languages {
				if code == value.(string) {
					return nil
				}
			}
			return validation.NewError("config.default_language.not_listed", "must be one of languages")
		})),
		validation.Field(&c.PreferenceKey, validation.Required),
		validation.Field(&c.Sitemap),
		validation.Field(&c.Prerender),
		validation.Field(&c.Store),
		validation.Field(&c.Log),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").WithTextCode(CodeInvalid)
	}
	return nil
}

// Validate implements validation.Validatable.
func (s SitemapConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ChangeFreq, validation.In(toAny(sitemap.ChangeFreqs)...)),
		validation.Field(&s.Priority, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&s.Paths, validation.Each(validation.By(func(value any) error {
			if !strings.HasPrefix(value.(string), "/") {
				return validation.NewError("config.sitemap.path", "must start with /")
			}
			return nil
		}))),
	)
}

// Validate implements validation.Validatable.
func (p PrerenderConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Addr, validation.Required),
		validation.Field(&p.ReadySelector, validation.Required),
		validation.Field(&p.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&p.Settle, validation.Min(time.Duration(0))),
		validation.Field(&p.Renderer, validation.Required, validation.In(RendererChrome, RendererHTTP)),
	)
}

// Validate implements validation.Validatable.
func (s StoreConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Kind, validation.Required, validation.In(StoreMemory, StoreRedis, StoreCookie, StoreSQLite)),
		validation.Field(&s.RedisURL, validation.When(s.Kind == StoreRedis, validation.Required)),
		validation.Field(&s.SQLiteDSN, validation.When(s.Kind == StoreSQLite, validation.Required)),
		validation.Field(&s.TTL, validation.Min(time.Duration(0))),
	)
}

// Validate implements validation.Validatable.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&l.Format, validation.In("console", "json", "pretty")),
	)
}

func absoluteHTTPURL(value any) error {
	u, err := url.Parse(value.(string))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("config.base_url.absolute", "must be an absolute http(s) URL")
	}
	return nil
}

func uniqueCodes(value any) error {
	seen := map[string]bool{}
	for _, code := range value.([]string) {
		if strings.TrimSpace(code) == "" {
			return validation.NewError("config.languages.empty", "must not contain empty codes")
		}
		if seen[code] {
			return validation.NewError("config.languages.duplicate", fmt.Sprintf("duplicate code %q", code))
		}
		seen[code] = true
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
