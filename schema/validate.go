package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
)

// ValidationError is a single schema violation at Path.
type ValidationError struct {
	Path        string `json:"field"`
	Expected    string `json:"-"`
	Actual      string `json:"-"`
	ActualValue any    `json:"-"`
	Message     string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" && e.Expected == "" && e.Actual == "" {
		if e.Path == "" {
			return e.Message
		}
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	actualDetail := formatActualDetail(e.Actual, e.ActualValue)
	if e.Path == "" {
		return fmt.Sprintf("expected %s, got %s", e.Expected, actualDetail)
	}
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, actualDetail)
}

// ValidationErrors collects every violation found in one value.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Err returns errs as an error, or nil when there are no violations.
func (errs ValidationErrors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks value against s and returns every violation found.
// Properties not declared by the schema are ignored; callers decoding into a
// typed struct drop them.
func Validate(s *jsonschema.Schema, value any) ValidationErrors {
	var errs ValidationErrors
	validate(s, value, "", &errs)
	return errs
}

func validate(s *jsonschema.Schema, value any, path string, errs *ValidationErrors) {
	if s == nil {
		return
	}
	add := func(e *ValidationError) { *errs = append(*errs, e) }

	if value == nil {
		if allowsNull(s) {
			return
		}
		add(&ValidationError{Path: path, Expected: expectedType(s), Actual: "null", Message: "must be " + article(expectedType(s))})
		return
	}

	if len(s.AnyOf) > 0 {
		for _, option := range s.AnyOf {
			if len(Validate(option, value)) == 0 {
				return
			}
		}
		add(&ValidationError{Path: path, Expected: expectedType(s), Actual: actualType(value), ActualValue: value, Message: "does not match any allowed shape"})
		return
	}

	switch resolvedType(s) {
	case "object":
		object, ok := value.(map[string]any)
		if !ok {
			add(&ValidationError{Path: path, Expected: "object", Actual: actualType(value), ActualValue: value, Message: "must be an object"})
			return
		}
		validateObject(s, object, path, errs)
	case "array":
		array, ok := value.([]any)
		if !ok {
			add(&ValidationError{Path: path, Expected: "array", Actual: actualType(value), ActualValue: value, Message: "must be an array"})
			return
		}
		if s.MinItems != nil && uint64(len(array)) < *s.MinItems {
			add(&ValidationError{Path: path, Message: fmt.Sprintf("must contain at least %d items", *s.MinItems)})
		}
		if s.Items == nil {
			return
		}
		for i, entry := range array {
			validate(s.Items, entry, fmt.Sprintf("%s[%d]", path, i), errs)
		}
	case "string":
		str, ok := value.(string)
		if !ok {
			add(&ValidationError{Path: path, Expected: "string", Actual: actualType(value), ActualValue: value, Message: "must be a string"})
			return
		}
		validateString(s, str, path, errs)
	case "boolean":
		if _, ok := value.(bool); !ok {
			add(&ValidationError{Path: path, Expected: "boolean", Actual: actualType(value), ActualValue: value, Message: "must be a boolean"})
		}
	case "integer":
		n, ok := asNumber(value)
		if !ok || n != float64(int64(n)) {
			add(&ValidationError{Path: path, Expected: "integer", Actual: actualType(value), ActualValue: value, Message: "must be an integer"})
			return
		}
		validateRange(s, n, path, errs)
	case "number":
		n, ok := asNumber(value)
		if !ok {
			add(&ValidationError{Path: path, Expected: "number", Actual: actualType(value), ActualValue: value, Message: "must be a number"})
			return
		}
		validateRange(s, n, path, errs)
	}
}

func validateObject(s *jsonschema.Schema, object map[string]any, path string, errs *ValidationErrors) {
	for _, required := range s.Required {
		if _, ok := object[required]; !ok {
			*errs = append(*errs, &ValidationError{Path: joinPath(path, required), Message: "is required"})
		}
	}
	if s.Properties == nil {
		return
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		value, ok := object[pair.Key]
		if !ok {
			continue
		}
		validate(pair.Value, value, joinPath(path, pair.Key), errs)
	}
}

func validateString(s *jsonschema.Schema, str, path string, errs *ValidationErrors) {
	n := uint64(utf8.RuneCountInString(str))
	if s.MinLength != nil && n < *s.MinLength {
		*errs = append(*errs, &ValidationError{Path: path, Message: fmt.Sprintf("must be at least %d characters", *s.MinLength), ActualValue: str})
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		*errs = append(*errs, &ValidationError{Path: path, Message: fmt.Sprintf("must be at most %d characters", *s.MaxLength), ActualValue: str})
	}
	switch s.Format {
	case "uri", "url":
		if !IsAbsoluteURL(str) {
			*errs = append(*errs, &ValidationError{Path: path, Message: "must be a valid URL", ActualValue: str})
		}
	}
	if len(s.Enum) > 0 {
		for _, candidate := range s.Enum {
			if reflect.DeepEqual(candidate, str) {
				return
			}
		}
		*errs = append(*errs, &ValidationError{Path: path, Expected: "enum", Actual: "string", ActualValue: str, Message: "is not an allowed value"})
	}
}

func validateRange(s *jsonschema.Schema, n float64, path string, errs *ValidationErrors) {
	if s.Minimum != "" {
		if min, err := s.Minimum.Float64(); err == nil && n < min {
			*errs = append(*errs, &ValidationError{Path: path, Message: fmt.Sprintf("must be >= %s", s.Minimum), ActualValue: n})
		}
	}
	if s.Maximum != "" {
		if max, err := s.Maximum.Float64(); err == nil && n > max {
			*errs = append(*errs, &ValidationError{Path: path, Message: fmt.Sprintf("must be <= %s", s.Maximum), ActualValue: n})
		}
	}
}

// IsAbsoluteURL reports whether raw parses as an absolute URL with a scheme and host.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}

func resolvedType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	if s.Properties != nil {
		return "object"
	}
	if s.Items != nil {
		return "array"
	}
	return ""
}

func allowsNull(s *jsonschema.Schema) bool {
	if s.Type == "null" {
		return true
	}
	for _, option := range s.AnyOf {
		if option != nil && option.Type == "null" {
			return true
		}
	}
	return false
}

func expectedType(s *jsonschema.Schema) string {
	if t := resolvedType(s); t != "" {
		return t
	}
	var types []string
	for _, option := range s.AnyOf {
		if option == nil {
			continue
		}
		if t := resolvedType(option); t != "" {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return "value"
	}
	return strings.Join(types, " or ")
}

func article(t string) string {
	switch t {
	case "object", "array", "integer":
		return "an " + t
	}
	return "a " + t
}

func actualType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64, json.Number:
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", value)
}

func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func formatActualDetail(actualType string, value any) string {
	if value == nil {
		return actualType
	}
	payload, err := json.Marshal(value)
	formatted := string(payload)
	if err != nil {
		formatted = fmt.Sprint(value)
	}
	const maxLength = 160
	if len(formatted) > maxLength {
		formatted = formatted[:maxLength-3] + "..."
	}
	if actualType == "" {
		return formatted
	}
	return fmt.Sprintf("%s (%s)", actualType, formatted)
}
