package lingoseo

import (
	"sort"
	"strings"
)

// TableDiff compares one language's table against the default language's.
type TableDiff struct {
	Language Language `json:"language"`

	// Missing keys exist in the reference but not in the candidate.
	Missing []string `json:"missing"`

	// Empty keys exist in both but the candidate value is blank.
	Empty []string `json:"empty"`

	// Extra keys exist only in the candidate.
	Extra []string `json:"extra"`

	// Mismatched keys hold a different value shape (text vs list vs table).
	Mismatched []string `json:"mismatched"`
}

// Stats returns summary statistics for the diff.
func (d *TableDiff) Stats() DiffStats {
	return DiffStats{
		Missing:    len(d.Missing),
		Empty:      len(d.Empty),
		Extra:      len(d.Extra),
		Mismatched: len(d.Mismatched),
	}
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Missing    int
	Empty      int
	Extra      int
	Mismatched int
}

// Complete reports whether every reference key resolves directly.
func (d *TableDiff) Complete() bool {
	return len(d.Missing) == 0 && len(d.Mismatched) == 0
}

// HasChanges returns true if there are any differences.
func (d *TableDiff) HasChanges() bool {
	return len(d.Missing) > 0 || len(d.Empty) > 0 || len(d.Extra) > 0 || len(d.Mismatched) > 0
}

// DiffTables compares candidate against reference. Lists are compared as
// leaves. Every slice in the result is sorted.
func DiffTables(reference, candidate Table) *TableDiff {
	ref := FlattenTable(reference)
	cand := FlattenTable(candidate)
	d := &TableDiff{Missing: []string{}, Empty: []string{}, Extra: []string{}, Mismatched: []string{}}

	for key, rv := range ref {
		cv, ok := cand[key]
		switch {
		case !ok:
			d.Missing = append(d.Missing, key)
		case leafKind(rv) != leafKind(cv):
			d.Mismatched = append(d.Mismatched, key)
		case isBlank(cv):
			d.Empty = append(d.Empty, key)
		}
	}
	for key := range cand {
		if _, ok := ref[key]; !ok {
			d.Extra = append(d.Extra, key)
		}
	}

	sort.Strings(d.Missing)
	sort.Strings(d.Empty)
	sort.Strings(d.Extra)
	sort.Strings(d.Mismatched)
	return d
}

// Completeness diffs every non-default language's table against the
// default's, in catalog order.
func Completeness(catalog *Catalog, tables map[Language]Table) []*TableDiff {
	reference := tables[catalog.Default()]
	out := make([]*TableDiff, 0, catalog.Len())
	for _, lang := range catalog.Languages() {
		if lang == catalog.Default() {
			continue
		}
		d := DiffTables(reference, tables[lang])
		d.Language = lang
		out = append(out, d)
	}
	return out
}

// FlattenTable maps every leaf's dotted key to its value. Nested tables are
// walked; lists and scalars are leaves. An empty nested table is a leaf.
func FlattenTable(table Table) map[string]any {
	out := make(map[string]any)
	collectLeaves(table, "", out)
	return out
}

func collectLeaves(data map[string]any, prefix string, out map[string]any) {
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := asMap(value); ok && len(nested) > 0 {
			collectLeaves(nested, full, out)
			continue
		}
		out[full] = value
	}
}

// Keys returns every leaf key of table, sorted.
func (t Table) Keys() []string {
	flat := FlattenTable(t)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores value at the dotted key, creating intermediate tables.
// Existing non-table values on the way are replaced.
func (t Table) Set(key string, value any) {
	parts := strings.Split(key, ".")
	current := map[string]any(t)
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(current[part])
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// Get returns the value at the dotted key.
func (t Table) Get(key string) (any, bool) {
	return lookupPath(t, key)
}

// MergeMissing copies into dst every leaf of src whose key dst lacks or
// holds blank. It returns the number of keys copied.
func MergeMissing(dst, src Table) int {
	n := 0
	for key, value := range FlattenTable(src) {
		if existing, ok := lookupPath(dst, key); ok && !isBlank(existing) {
			continue
		}
		dst.Set(key, value)
		n++
	}
	return n
}

func leafKind(v any) string {
	switch v.(type) {
	case []any, []string, []map[string]any:
		return "list"
	case map[string]any, Table:
		return "table"
	default:
		return "text"
	}
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case []map[string]any:
		return len(x) == 0
	default:
		return false
	}
}
