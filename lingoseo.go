// Package lingoseo resolves which language a page is served in and derives
// everything search engines see from that choice: canonical URLs, hreflang
// alternates, Open Graph and Twitter tags, structured data and sitemaps.
//
// The pipeline is built from small pieces:
//
//   - Catalog: the closed set of supported languages and their locale tags.
//   - Detector: path, stored preference, Accept-Language, then default.
//   - Resolver: nested translation tables with default-language fallback.
//   - Session: per-navigation state where the last navigation wins.
//   - MetadataGenerator: canonical, hreflang and social tags for a page.
//
// Basic usage:
//
//	catalog := lingoseo.DefaultCatalog()
//	detector := lingoseo.NewDetector(catalog)
//	resolved := detector.Resolve(ctx, lingoseo.DetectContext{
//	    Path:     r.URL.Path,
//	    Accepted: lingoseo.AcceptedLanguages(r.Header.Get("Accept-Language")),
//	})
//
//	gen := lingoseo.NewMetadataGenerator(catalog, "https://example.com")
//	meta := gen.BuildPageMetadata(resolved.Language, seo, r.URL.Path)
//
// The sitemap, prerender, site and content subpackages build on these types.
package lingoseo
