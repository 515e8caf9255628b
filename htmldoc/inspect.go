package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedText holds elements whose text is not visible page content.
var skippedText = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Diagnostics summarizes a captured page for failure reports.
type Diagnostics struct {
	Bytes        int    `json:"bytes"`
	Title        string `json:"title,omitempty"`
	Lang         string `json:"lang,omitempty"`
	Ready        bool   `json:"ready"`
	RootChildren int    `json:"rootChildren"`
	TextLength   int    `json:"textLength"`
	Snippet      string `json:"snippet,omitempty"`
}

// Diagnose inspects markup against the readiness selector. snippetLen bounds
// the leading markup copied into Snippet.
func Diagnose(markup, selector string, snippetLen int) Diagnostics {
	diag := Diagnostics{Bytes: len(markup), Snippet: Snippet(markup, snippetLen)}
	d, err := Parse(markup)
	if err != nil {
		return diag
	}
	diag.Title = d.Title()
	diag.Lang = d.Lang()
	diag.Ready = d.Ready(selector)
	diag.RootChildren = d.doc.Find("#root").Children().Length()
	for _, n := range d.doc.Find("body").Nodes {
		diag.TextLength += len([]rune(VisibleText(n)))
	}
	return diag
}

// VisibleText concatenates the non-blank text under n, skipping scripts and
// styles, with single spaces between runs.
func VisibleText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedText[strings.ToLower(n.Data)] {
			return
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// Snippet returns at most n runes of markup with whitespace collapsed.
func Snippet(markup string, n int) string {
	if n <= 0 {
		n = 500
	}
	s := strings.Join(strings.Fields(markup), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
