// Package content loads per-language translation tables from a directory.
//
// A language's table is the first of {lang}.json, {lang}.yaml, {lang}.yml,
// {lang}.toml or {lang}/translation.json found under the root. An optional
// {lang}.overlay.json supplies keys the source table lacks; `lingoseo i18n
// fill` writes those overlays.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/lingoseo"
)

// Format is a table file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(name string) (Format, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// Decode parses data and normalizes it to JSON value types so tables from
// every format look the same to the resolver.
func Decode(data []byte, format Format) (lingoseo.Table, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return asTable(raw)
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		m := map[string]any{}
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		raw = m
	default:
		return nil, fmt.Errorf("unsupported table format %q", format)
	}
	if raw == nil {
		return lingoseo.Table{}, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", format, err)
	}
	var normalized any
	dec := json.NewDecoder(bytes.NewReader(encoded))
	if err := dec.Decode(&normalized); err != nil {
		return nil, fmt.Errorf("normalize %s: %w", format, err)
	}
	return asTable(normalized)
}

func asTable(v any) (lingoseo.Table, error) {
	switch m := v.(type) {
	case map[string]any:
		return lingoseo.Table(m), nil
	case nil:
		return lingoseo.Table{}, nil
	default:
		return nil, fmt.Errorf("table root must be an object, got %T", v)
	}
}

// Encode writes table as indented JSON.
func Encode(table lingoseo.Table) ([]byte, error) {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
