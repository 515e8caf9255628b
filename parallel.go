package lingoseo

import (
	"context"
	"sync"
	"time"
)

// LanguagePage is the head content for one language of a page.
type LanguagePage struct {
	Language Language
	Metadata PageMetadata
	JSONLD   []string
	Err      error
}

// PageBuilder derives per-language head content from a resolver.
type PageBuilder struct {
	Generator *MetadataGenerator
	Resolver  *Resolver
	// Profile enables structured data when non-nil.
	Profile *PersonProfile
	Now     func() time.Time
}

// Build returns the head content for lang at path.
func (b PageBuilder) Build(lang Language, path string) LanguagePage {
	loc := b.Resolver.For(lang)
	page := LanguagePage{
		Language: loc.Language(),
		Metadata: b.Generator.BuildPageMetadata(loc.Language(), SEOFieldsFrom(loc), path),
	}
	if b.Profile != nil {
		now := time.Now
		if b.Now != nil {
			now = b.Now
		}
		page.JSONLD, page.Err = PageStructuredData(b.Generator, *b.Profile, loc, now())
	}
	return page
}

// BuildAll builds every catalog language concurrently and returns the pages
// in catalog order. Languages not started before ctx ends carry ctx.Err().
func (b PageBuilder) BuildAll(ctx context.Context, path string) []LanguagePage {
	langs := b.Generator.Catalog().Languages()

	type indexed struct {
		i    int
		page LanguagePage
	}
	results := make(chan indexed, len(langs))
	var wg sync.WaitGroup

	for i, lang := range langs {
		wg.Add(1)
		go func(i int, lang Language) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				results <- indexed{i, LanguagePage{Language: lang, Err: ctx.Err()}}
				return
			default:
			}
			results <- indexed{i, b.Build(lang, path)}
		}(i, lang)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	pages := make([]LanguagePage, len(langs))
	for r := range results {
		pages[r.i] = r.page
	}
	return pages
}
