package schema

import (
	"strings"
	"testing"
)

type sample struct {
	URL   string   `json:"url" jsonschema:"format=uri" jsonschema_description:"Page to analyze."`
	Query string   `json:"query,omitempty"`
	Score float64  `json:"score" jsonschema:"minimum=0,maximum=100"`
	Code  string   `json:"code" jsonschema:"minLength=2,maxLength=2"`
	Tags  []string `json:"tags"`
	Inner struct {
		Name string `json:"name"`
	} `json:"inner"`
}

func valid() map[string]any {
	return map[string]any{
		"url":   "https://example.com/page",
		"score": 42.0,
		"code":  "US",
		"tags":  []any{"a", "b"},
		"inner": map[string]any{"name": "n"},
	}
}

func TestReflectRequiredAndDescriptions(t *testing.T) {
	s := Reflect(&sample{})
	fields := Fields(s)
	if len(fields) != 6 {
		t.Fatalf("len(Fields) = %d, want 6", len(fields))
	}
	if fields[0].Name != "url" || !fields[0].Required {
		t.Errorf("url field = %+v, want required url", fields[0])
	}
	if fields[0].Schema.Description != "Page to analyze." {
		t.Errorf("url description = %q", fields[0].Schema.Description)
	}
	if fields[1].Name != "query" || fields[1].Required {
		t.Errorf("query field should be optional, got %+v", fields[1])
	}
	if s.Version != "" || s.ID != "" {
		t.Errorf("reflected schema should not carry $schema/$id, got %q %q", s.Version, s.ID)
	}
}

func TestValidateAcceptsConformingValue(t *testing.T) {
	if errs := Validate(Reflect(&sample{}), valid()); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateIgnoresUnknownFields(t *testing.T) {
	v := valid()
	v["extra"] = "dropped later"
	if errs := Validate(Reflect(&sample{}), v); len(errs) != 0 {
		t.Fatalf("unknown fields should not fail validation: %v", errs)
	}
}

func TestValidateViolations(t *testing.T) {
	s := Reflect(&sample{})
	tests := []struct {
		name   string
		mutate func(map[string]any)
		path   string
	}{
		{"bad url", func(v map[string]any) { v["url"] = "not-a-url" }, "url"},
		{"relative url", func(v map[string]any) { v["url"] = "/path/only" }, "url"},
		{"missing required", func(v map[string]any) { delete(v, "score") }, "score"},
		{"out of range", func(v map[string]any) { v["score"] = 101.0 }, "score"},
		{"wrong type", func(v map[string]any) { v["score"] = "high" }, "score"},
		{"length", func(v map[string]any) { v["code"] = "USA" }, "code"},
		{"array item", func(v map[string]any) { v["tags"] = []any{"a", 3.0} }, "tags[1]"},
		{"nested", func(v map[string]any) { v["inner"] = map[string]any{} }, "inner.name"},
		{"null array", func(v map[string]any) { v["tags"] = nil }, "tags"},
	}
	for _, tt := range tests {
		v := valid()
		tt.mutate(v)
		errs := Validate(s, v)
		if len(errs) == 0 {
			t.Errorf("%s: expected a violation", tt.name)
			continue
		}
		if errs[0].Path != tt.path {
			t.Errorf("%s: path = %q, want %q", tt.name, errs[0].Path, tt.path)
		}
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	errs := Validate(Reflect(&sample{}), map[string]any{"url": "nope"})
	if len(errs) < 5 {
		t.Fatalf("expected every violation to be reported, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs.Error(), "url: must be a valid URL") {
		t.Errorf("error text = %q", errs.Error())
	}
}

func TestRegistry(t *testing.T) {
	d := Descriptor{Input: Reflect(&sample{}), Output: Reflect(&sample{})}
	if err := Register("  Sample-Flow ", d); err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := Resolve("sample-flow")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Name != "sample-flow" {
		t.Errorf("Name = %q, want sample-flow", got.Name)
	}
	if _, err := Resolve("missing"); err == nil {
		t.Error("expected unknown schema error")
	}
	if err := Register("", d); err == nil {
		t.Error("expected empty name error")
	}
	if err := Register("x", Descriptor{}); err == nil {
		t.Error("expected missing schema error")
	}
	found := false
	for _, n := range Names() {
		if n == "sample-flow" {
			found = true
		}
	}
	if !found {
		t.Errorf("Names() = %v, missing sample-flow", Names())
	}
}
