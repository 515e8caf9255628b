package lingoseo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ZaguanLabs/lingoseo/logging"
)

// ValueKind selects the shape Translate returns.
type ValueKind int

const (
	// KindString returns a string; structured values yield "".
	KindString ValueKind = iota
	// KindRaw returns the stored value as is; absent keys yield nil.
	KindRaw
	// KindStrings returns []string.
	KindStrings
	// KindObjects returns []map[string]any.
	KindObjects
	// KindObject returns map[string]any.
	KindObject
)

// TranslateOption tweaks a single Translate call.
type TranslateOption func(*translateOptions)

type translateOptions struct {
	kind     ValueKind
	fallback string
}

// AsRaw requests the structured value instead of a string.
func AsRaw() TranslateOption {
	return func(o *translateOptions) { o.kind = KindRaw }
}

// As requests a specific value kind.
func As(kind ValueKind) TranslateOption {
	return func(o *translateOptions) { o.kind = kind }
}

// WithFallback sets the string returned when a scalar key is absent from
// every table.
func WithFallback(s string) TranslateOption {
	return func(o *translateOptions) { o.fallback = s }
}

// Resolver looks up dotted keys in per-language tables, falling back to the
// default language and then to an empty value. It never returns an error.
// A Resolver is immutable once built and safe for concurrent use.
type Resolver struct {
	catalog *Catalog
	tables  map[Language]Table
	logger  logging.Logger
	warned  sync.Map
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for missing-key warnings.
func WithResolverLogger(logger logging.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logging.OrNoOp(logger)
	}
}

// NewResolver builds a resolver over tables. Tables for languages outside the
// catalog are ignored.
func NewResolver(catalog *Catalog, tables map[Language]Table, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		catalog: catalog,
		tables:  make(map[Language]Table, len(tables)),
		logger:  logging.NoOp(),
	}
	for lang, t := range tables {
		if catalog.Supports(string(lang)) {
			r.tables[lang] = t
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// Table returns the table for lang, or nil.
func (r *Resolver) Table(lang Language) Table { return r.tables[lang] }

// Lookup finds key in lang's table, then in the default language's table.
func (r *Resolver) Lookup(lang Language, key string) (any, bool) {
	if v, ok := lookupPath(r.tables[lang], key); ok {
		return v, true
	}
	def := r.catalog.Default()
	if lang != def {
		if v, ok := lookupPath(r.tables[def], key); ok {
			r.logger.Debug("translation fell back to default language", "language", lang, "key", key)
			return v, true
		}
	}
	r.warnMissing(lang, key)
	return nil, false
}

// Translate resolves key for lang in the shape requested by opts.
// The default shape is a string.
func (r *Resolver) Translate(lang Language, key string, opts ...TranslateOption) any {
	o := translateOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	v, ok := r.Lookup(lang, key)
	switch o.kind {
	case KindRaw:
		return v
	case KindStrings:
		return toStrings(v)
	case KindObjects:
		return toObjects(v)
	case KindObject:
		return toObject(v)
	default:
		if !ok {
			return o.fallback
		}
		return toString(v)
	}
}

// String resolves a scalar key.
func (r *Resolver) String(lang Language, key string) string {
	return r.Translate(lang, key).(string)
}

// Strings resolves a list of strings.
func (r *Resolver) Strings(lang Language, key string) []string {
	return r.Translate(lang, key, As(KindStrings)).([]string)
}

// Objects resolves a list of records. A table of records keyed by name is
// returned in key order.
func (r *Resolver) Objects(lang Language, key string) []map[string]any {
	return r.Translate(lang, key, As(KindObjects)).([]map[string]any)
}

// Object resolves a nested table.
func (r *Resolver) Object(lang Language, key string) map[string]any {
	return r.Translate(lang, key, As(KindObject)).(map[string]any)
}

// For returns a view bound to lang. Unsupported languages bind to the
// default.
func (r *Resolver) For(lang Language) Localizer {
	return Localizer{resolver: r, lang: r.catalog.Normalize(lang)}
}

func (r *Resolver) warnMissing(lang Language, key string) {
	if _, seen := r.warned.LoadOrStore(string(lang)+"\x00"+key, struct{}{}); seen {
		return
	}
	r.logger.Warn("missing translation key", "language", lang, "key", key)
}

// Localizer is a Resolver bound to one language.
type Localizer struct {
	resolver *Resolver
	lang     Language
}

// Language returns the bound language.
func (l Localizer) Language() Language { return l.lang }

// T resolves a scalar key.
func (l Localizer) T(key string) string { return l.resolver.String(l.lang, key) }

// Strings resolves a list of strings.
func (l Localizer) Strings(key string) []string { return l.resolver.Strings(l.lang, key) }

// Objects resolves a list of records.
func (l Localizer) Objects(key string) []map[string]any { return l.resolver.Objects(l.lang, key) }

// Object resolves a nested table.
func (l Localizer) Object(key string) map[string]any { return l.resolver.Object(l.lang, key) }

// Has reports whether key resolves in the bound language or the default.
func (l Localizer) Has(key string) bool {
	_, ok := l.resolver.Lookup(l.lang, key)
	return ok
}

func lookupPath(table Table, key string) (any, bool) {
	if table == nil || key == "" {
		return nil, false
	}
	current := map[string]any(table)
	parts := strings.Split(key, ".")
	for i, part := range parts {
		value, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return value, true
		}
		next, ok := asMap(value)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Table:
		return m, true
	default:
		return nil, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool, int, int64, float64, float32:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

func toStrings(v any) []string {
	out := []string{}
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func toObjects(v any) []map[string]any {
	out := []map[string]any{}
	switch list := v.(type) {
	case []map[string]any:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			if m, ok := asMap(item); ok {
				out = append(out, m)
			}
		}
	default:
		m, ok := asMap(v)
		if !ok {
			return out
		}
		for _, k := range sortedKeys(m) {
			if rec, ok := asMap(m[k]); ok {
				out = append(out, rec)
			}
		}
	}
	return out
}

func toObject(v any) map[string]any {
	if m, ok := asMap(v); ok {
		return m
	}
	return map[string]any{}
}

// sortedKeys orders numeric keys numerically, then the rest lexically.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// RecordString reads a string field from a structured record.
func RecordString(rec map[string]any, field string) string {
	v, _ := lookupPath(rec, field)
	return toString(v)
}
