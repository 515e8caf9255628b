// Package htmldoc inspects and rewrites rendered HTML pages: mount
// readiness, head metadata and diagnostics for failed renders.
package htmldoc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultReadySelector matches any element mounted inside the app root.
const DefaultReadySelector = "#root > *"

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse parses markup. The HTML5 parser accepts almost anything, so errors
// are rare and mean the reader failed.
func Parse(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Ready reports whether selector matches at least one element.
func (d *Document) Ready(selector string) bool {
	if selector == "" {
		selector = DefaultReadySelector
	}
	return d.doc.Find(selector).Length() > 0
}

// Title returns the trimmed document title.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// Lang returns the html lang attribute.
func (d *Document) Lang() string {
	v, _ := d.doc.Find("html").Attr("lang")
	return v
}

// SetLang sets the html lang and dir attributes.
func (d *Document) SetLang(lang, dir string) {
	htmlTag := d.doc.Find("html")
	if htmlTag.Length() == 0 {
		return
	}
	htmlTag.SetAttr("lang", lang)
	if dir != "" {
		htmlTag.SetAttr("dir", dir)
	}
}

// HTML serializes the document with a doctype.
func (d *Document) HTML() (string, error) {
	out, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(out)), "<!doctype") {
		out = "<!DOCTYPE html>" + out
	}
	return out, nil
}

// MountReady parses markup and reports whether selector matches.
func MountReady(markup, selector string) bool {
	d, err := Parse(markup)
	if err != nil {
		return false
	}
	return d.Ready(selector)
}
