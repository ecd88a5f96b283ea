// Package schema holds the declarative field schemas shared by the prompt
// renderer and the response validator, plus a process-wide registry of the
// input/output schema pairs of every flow.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
		Anonymous:                 true,
	}
}

// Reflect builds the schema of the Go type of v. Field names follow json tags,
// fields without omitempty are required, and constraints come from the
// jsonschema tag (format, minimum, maximum, minLength, maxLength).
func Reflect(v any) *jsonschema.Schema {
	s := newReflector().Reflect(v)
	// The version and id keywords only make sense for standalone documents;
	// model APIs reject them inside a response schema.
	s.Version = ""
	s.ID = ""
	return s
}

// ToValue converts v into the generic JSON shape the validator understands
// (map[string]any, []any, float64, string, bool, nil).
func ToValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

// Fields lists the top-level properties of an object schema in declaration order.
func Fields(s *jsonschema.Schema) []Field {
	if s == nil || s.Properties == nil {
		return nil
	}
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}
	var fields []Field
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, Field{
			Name:     pair.Key,
			Schema:   pair.Value,
			Required: required[pair.Key],
		})
	}
	return fields
}

// Field is one named property of an object schema.
type Field struct {
	Name     string
	Schema   *jsonschema.Schema
	Required bool
}
