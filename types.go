package lingoseo

import "context"

// Provenance records which signal decided a resolved language.
type Provenance string

const (
	ProvenancePath       Provenance = "path"
	ProvenanceStored     Provenance = "stored"
	ProvenanceNegotiated Provenance = "negotiated"
	ProvenanceDefault    Provenance = "default"
)

// ResolvedLanguage is the outcome of detection. Language is always a
// catalog member.
type ResolvedLanguage struct {
	Language   Language   `json:"language"`
	Provenance Provenance `json:"provenance"`
}

func (r ResolvedLanguage) String() string {
	return string(r.Language) + " (" + string(r.Provenance) + ")"
}

// Table is a nested translation table decoded from JSON, YAML or TOML.
// Leaves are strings, numbers, booleans, lists or nested tables.
type Table map[string]any

// TableLoader supplies translation tables. Implementations may load
// asynchronously and must be safe for concurrent use.
type TableLoader interface {
	Load(ctx context.Context, lang Language) (Table, error)
}

// TableLoaderFunc adapts a function to TableLoader.
type TableLoaderFunc func(ctx context.Context, lang Language) (Table, error)

// Load calls f.
func (f TableLoaderFunc) Load(ctx context.Context, lang Language) (Table, error) {
	return f(ctx, lang)
}

// TranslationStyle controls the tone of machine-filled translations.
type TranslationStyle string

const (
	StyleFormal    TranslationStyle = "formal"
	StyleNeutral   TranslationStyle = "neutral"
	StyleCasual    TranslationStyle = "casual"
	StyleMarketing TranslationStyle = "marketing"
	StyleTechnical TranslationStyle = "technical"
)

// Description returns the register instruction given to AI providers.
func (s TranslationStyle) Description() string {
	switch s {
	case StyleFormal:
		return "Use a formal, professional register."
	case StyleCasual:
		return "Use a relaxed, conversational register."
	case StyleMarketing:
		return "Use a persuasive, engaging register suited to a personal brand."
	case StyleTechnical:
		return "Use precise technical terminology and keep product names untranslated."
	default:
		return "Use a neutral, clear register."
	}
}

// TranslateRequest asks an AI provider to translate table values.
type TranslateRequest struct {
	Texts      []string
	TargetLang string // Locale of the target, e.g. "fr_CH"
	SourceLang string
	// Keys holds the dotted table key of each text, used as context.
	Keys          []string
	ExcludedTerms []string
	Context       string
	Glossary      map[string]string
	Style         TranslationStyle
}

// AIProvider translates batches of strings.
type AIProvider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}
