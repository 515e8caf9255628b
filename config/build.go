package config

import (
	"context"
	"errors"

	"github.com/ZaguanLabs/lingoseo"
	"github.com/ZaguanLabs/lingoseo/content"
	"github.com/ZaguanLabs/lingoseo/logging"
	"github.com/ZaguanLabs/lingoseo/logging/gologger"
	"github.com/ZaguanLabs/lingoseo/prefstore"
	"github.com/ZaguanLabs/lingoseo/prerender"
	"github.com/ZaguanLabs/lingoseo/provider"
	"github.com/ZaguanLabs/lingoseo/sitemap"
)

// ErrNoAPIKey is returned by Translator when OPENAI_API_KEY is unset.
var ErrNoAPIKey = errors.New("OPENAI_API_KEY is not set")

// Catalog builds the language catalog. Metadata comes from
// language_metadata, then the built-in registry, then the bare code.
func (c Config) Catalog() (*lingoseo.Catalog, error) {
	overrides := make(map[lingoseo.Language]lingoseo.LanguageMetadata, len(c.LanguageMeta))
	for _, m := range c.LanguageMeta {
		overrides[m.Code] = m
	}

	entries := make([]lingoseo.LanguageMetadata, 0, len(c.Languages))
	for _, code := range c.Languages {
		lang := lingoseo.Language(code)
		meta, ok := overrides[lang]
		if !ok {
			meta, ok = lingoseo.KnownLanguages[lang]
		}
		if !ok {
			meta = lingoseo.LanguageMetadata{
				Code:     lang,
				Name:     lingoseo.LanguageName(code),
				Locale:   lingoseo.NormalizeLocale(code),
				Hreflang: lingoseo.ToHTMLLang(code),
			}
		}
		meta.Code = lang
		entries = append(entries, meta)
	}
	return lingoseo.NewCatalog(lingoseo.Language(c.DefaultLanguage), entries...)
}

// MetadataGenerator builds the head metadata generator.
func (c Config) MetadataGenerator(catalog *lingoseo.Catalog) *lingoseo.MetadataGenerator {
	return lingoseo.NewMetadataGenerator(catalog, c.BaseURL,
		lingoseo.WithOGImage(c.OGImage),
		lingoseo.WithOGType(c.OGType),
		lingoseo.WithTwitterCard(c.TwitterCard),
		lingoseo.WithTwitterCreator(c.TwitterCreator),
	)
}

// SitemapGenerator builds the sitemap generator.
func (c Config) SitemapGenerator(meta *lingoseo.MetadataGenerator, logger logging.Logger) *sitemap.Generator {
	return sitemap.New(meta,
		sitemap.WithPaths(c.Sitemap.Paths...),
		sitemap.WithChangeFreq(c.Sitemap.ChangeFreq),
		sitemap.WithPriority(c.Sitemap.Priority),
		sitemap.WithLogger(logger),
	)
}

// Readiness returns the prerender readiness settings.
func (c Config) Readiness() prerender.Readiness {
	return prerender.Readiness{
		Selector: c.Prerender.ReadySelector,
		Timeout:  c.Prerender.Timeout,
		Settle:   c.Prerender.Settle,
	}
}

// LoggerProvider builds the go-logger backed provider.
func (c Config) LoggerProvider() (logging.Provider, error) {
	p, err := gologger.NewProvider(gologger.Config{Level: c.Log.Level, Format: c.Log.Format})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ContentProvider reads translation tables from LocalesDir.
func (c Config) ContentProvider(catalog *lingoseo.Catalog, logger logging.Logger) *content.DirProvider {
	return content.NewDir(c.LocalesDir, catalog, content.WithLogger(logger))
}

// OpenStore opens the configured keyed preference store. The cookie kind
// has no keyed store and yields nil. The returned close function is never
// nil.
func (c Config) OpenStore(ctx context.Context) (prefstore.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Store.Kind {
	case StoreRedis:
		s, err := prefstore.NewRedisStore(ctx, prefstore.RedisConfig{
			URL:       c.Store.RedisURL,
			TTL:       c.Store.TTL,
			KeyPrefix: c.Store.KeyPrefix,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case StoreSQLite:
		s, err := prefstore.OpenSQLite(ctx, c.Store.SQLiteDSN)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case StoreCookie:
		return nil, noop, nil
	default:
		return prefstore.NewMemoryStore(c.Store.TTL), noop, nil
	}
}

// Translator builds the rate-limited, retrying OpenAI provider.
func (c Config) Translator() (lingoseo.AIProvider, error) {
	if c.OpenAI.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	backend := provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey:  c.OpenAI.APIKey,
		Model:   c.OpenAI.Model,
		BaseURL: c.OpenAI.BaseURL,
	})
	return provider.Wrap(backend, provider.Options{
		RateLimit: provider.RateLimitConfig{RequestsPerMinute: c.OpenAI.RequestsPerMinute},
	}), nil
}
