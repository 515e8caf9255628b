package content

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ZaguanLabs/lingoseo"
)

// ErrInvalidTable wraps every table shape violation.
var ErrInvalidTable = errors.New("translation table invalid")

// tableSchema allows nested objects whose leaves are scalars or lists of
// scalars and records. Nulls and nested lists are rejected.
const tableSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": { "$ref": "#/$defs/value" },
  "$defs": {
    "scalar": { "type": ["string", "number", "boolean"] },
    "record": {
      "type": "object",
      "additionalProperties": { "$ref": "#/$defs/value" }
    },
    "value": {
      "anyOf": [
        { "$ref": "#/$defs/scalar" },
        { "$ref": "#/$defs/record" },
        {
          "type": "array",
          "items": {
            "anyOf": [
              { "$ref": "#/$defs/scalar" },
              { "$ref": "#/$defs/record" }
            ]
          }
        }
      ]
    }
  }
}`

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("table.json", strings.NewReader(tableSchema)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("table.json")
	})
	return compiledSchema, compileErr
}

// Issue is one shape violation.
type Issue struct {
	Location string
	Message  string
}

// ValidationError lists every violation in a table.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		loc := issue.Location
		if loc == "" {
			loc = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", loc, issue.Message))
	}
	return ErrInvalidTable.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidTable
}

// Validate checks a decoded table's shape.
func Validate(table lingoseo.Table) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile table schema: %w", err)
	}
	if err := s.Validate(map[string]any(table)); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Issues: collectIssues(verr)}
		}
		return &ValidationError{Issues: []Issue{{Message: err.Error()}}}
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
