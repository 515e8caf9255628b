package htmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/lingoseo"
	"golang.org/x/net/html"
)

// managedSelectors lists the head elements ApplyHead owns. Anything matching
// is removed before fresh tags are written.
var managedSelectors = []string{
	"title",
	`meta[name="description"]`,
	`meta[name="keywords"]`,
	`link[rel="canonical"]`,
	`meta[property^="og:"]`,
	`meta[name^="twitter:"]`,
	`link[rel="alternate"][hreflang]`,
	`script[type="application/ld+json"]`,
}

// ApplyHead replaces the document's language attributes, title, meta
// description, canonical, social tags, hreflang links and JSON-LD blocks
// with those derived from meta. Other head content is left alone.
func (d *Document) ApplyHead(meta lingoseo.PageMetadata, jsonld []string) {
	d.SetLang(meta.HTMLLang, meta.Direction)

	head := d.doc.Find("head").First()
	for _, sel := range managedSelectors {
		head.Find(sel).Remove()
	}
	head.Contents().FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
	}).Remove()
	head.AppendHtml(RenderHead(meta, jsonld))
}

// RenderHead returns the managed head tags as markup.
func RenderHead(meta lingoseo.PageMetadata, jsonld []string) string {
	var b strings.Builder

	b.WriteString("<title>" + html.EscapeString(meta.Title) + "</title>\n")
	writeMeta(&b, "name", "description", meta.Description)
	if meta.Keywords != "" {
		writeMeta(&b, "name", "keywords", meta.Keywords)
	}
	writeLink(&b, "canonical", "", meta.Canonical)

	og := meta.OpenGraph
	writeMeta(&b, "property", "og:title", og.Title)
	writeMeta(&b, "property", "og:description", og.Description)
	writeMeta(&b, "property", "og:type", og.Type)
	writeMeta(&b, "property", "og:url", og.URL)
	if og.Image != "" {
		writeMeta(&b, "property", "og:image", og.Image)
	}
	writeMeta(&b, "property", "og:locale", og.Locale)
	for _, alt := range og.LocaleAlternates {
		writeMeta(&b, "property", "og:locale:alternate", alt)
	}

	tw := meta.Twitter
	writeMeta(&b, "name", "twitter:card", tw.Card)
	writeMeta(&b, "name", "twitter:title", tw.Title)
	writeMeta(&b, "name", "twitter:description", tw.Description)
	if tw.Image != "" {
		writeMeta(&b, "name", "twitter:image", tw.Image)
	}
	if tw.Creator != "" {
		writeMeta(&b, "name", "twitter:creator", tw.Creator)
	}

	for _, alt := range meta.Alternates {
		writeLink(&b, "alternate", alt.Hreflang, alt.Href)
	}

	for _, doc := range jsonld {
		// Keep a literal "</script" inside JSON from closing the element.
		safe := strings.ReplaceAll(doc, "</", `<\/`)
		b.WriteString(`<script type="application/ld+json">` + safe + "</script>\n")
	}
	return b.String()
}

func writeMeta(b *strings.Builder, attr, key, content string) {
	b.WriteString(`<meta ` + attr + `="` + html.EscapeString(key) + `" content="` + html.EscapeString(content) + `"/>` + "\n")
}

func writeLink(b *strings.Builder, rel, hreflang, href string) {
	b.WriteString(`<link rel="` + rel + `"`)
	if hreflang != "" {
		b.WriteString(` hreflang="` + html.EscapeString(hreflang) + `"`)
	}
	b.WriteString(` href="` + html.EscapeString(href) + `"/>` + "\n")
}

// SyncHead parses markup, applies meta and returns the new markup.
func SyncHead(markup string, meta lingoseo.PageMetadata, jsonld []string) (string, error) {
	d, err := Parse(markup)
	if err != nil {
		return "", err
	}
	d.ApplyHead(meta, jsonld)
	return d.HTML()
}
