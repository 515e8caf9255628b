package lingoseo

import (
	"context"
	"fmt"
)

// DefaultFillBatchSize bounds the texts sent per provider call.
const DefaultFillBatchSize = 40

// FillOptions tunes FillMissing.
type FillOptions struct {
	BatchSize     int
	Style         TranslationStyle
	Context       string
	Glossary      map[string]string
	ExcludedTerms []string
}

// FillResult is the outcome of filling one language.
type FillResult struct {
	Language Language
	// Overlay holds only the filled keys, ready to be written beside the
	// source table.
	Overlay Table
	Filled  []string
	// Skipped keys are gaps whose reference value is not text.
	Skipped []string
}

// fillItem is one text to translate. List elements share a key and carry
// their index.
type fillItem struct {
	key   string
	index int
	text  string
}

// FillMissing machine-translates the gaps of lang's table. Keys missing or
// blank in candidate are translated from the reference (default-language)
// table; string lists are translated element by element. Nothing is
// written; callers persist Overlay.
func FillMissing(ctx context.Context, p AIProvider, catalog *Catalog, reference, candidate Table, lang Language, opts FillOptions) (*FillResult, error) {
	if !catalog.Supports(string(lang)) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultFillBatchSize
	}

	diff := DiffTables(reference, candidate)
	gaps := append(append([]string{}, diff.Missing...), diff.Empty...)

	res := &FillResult{Language: lang, Overlay: Table{}}
	lists := map[string][]string{}
	var items []fillItem
	for _, key := range gaps {
		value, _ := reference.Get(key)
		switch v := value.(type) {
		case string:
			items = append(items, fillItem{key: key, index: -1, text: v})
		default:
			texts, ok := stringList(value)
			if !ok || len(texts) == 0 {
				res.Skipped = append(res.Skipped, key)
				continue
			}
			lists[key] = make([]string, len(texts))
			for i, t := range texts {
				items = append(items, fillItem{key: key, index: i, text: t})
			}
		}
	}

	req := TranslateRequest{
		TargetLang:    catalog.Meta(lang).Locale,
		SourceLang:    catalog.Meta(catalog.Default()).Locale,
		Context:       opts.Context,
		Glossary:      opts.Glossary,
		ExcludedTerms: opts.ExcludedTerms,
		Style:         opts.Style,
	}

	for start := 0; start < len(items); start += opts.BatchSize {
		batch := items[start:min(start+opts.BatchSize, len(items))]
		req.Texts = make([]string, len(batch))
		req.Keys = make([]string, len(batch))
		for i, it := range batch {
			req.Texts[i] = it.text
			req.Keys[i] = it.key
		}

		out, err := p.Translate(ctx, req)
		if err != nil {
			return res, fmt.Errorf("fill %s: %w", lang, err)
		}
		if len(out) != len(batch) {
			return res, &CountMismatchError{Expected: len(batch), Got: len(out)}
		}
		for i, it := range batch {
			if it.index < 0 {
				res.Overlay.Set(it.key, out[i])
				res.Filled = append(res.Filled, it.key)
				continue
			}
			lists[it.key][it.index] = out[i]
		}
	}

	for _, key := range gaps {
		if list, ok := lists[key]; ok {
			values := make([]any, len(list))
			for i, s := range list {
				values[i] = s
			}
			res.Overlay.Set(key, values)
			res.Filled = append(res.Filled, key)
		}
	}
	return res, nil
}

// stringList returns v's elements when every one is a string.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
