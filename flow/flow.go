// Package flow runs the AI-backed SEO operations. Each flow pairs a prompt
// template with an input and an output schema: the input is validated before
// the model is called, and the model's JSON answer is validated against the
// output schema before it is handed back.
package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/schema"
)

// FlowInvocation describes one completed call. It is passed to the
// invoker's observer and then discarded.
type FlowInvocation struct {
	Flow      string
	Input     any
	RawOutput string
	Parsed    any
	Duration  time.Duration
	Err       error
}

// Invoker carries the model and the per-call policy shared by every flow.
type Invoker struct {
	model   Model
	log     zerolog.Logger
	timeout time.Duration
	observe func(FlowInvocation)
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithTimeout bounds each model call. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) InvokerOption {
	return func(i *Invoker) { i.timeout = d }
}

// WithObserver registers fn to receive every invocation record.
func WithObserver(fn func(FlowInvocation)) InvokerOption {
	return func(i *Invoker) { i.observe = fn }
}

// NewInvoker creates an invoker calling model.
func NewInvoker(model Model, log zerolog.Logger, opts ...InvokerOption) *Invoker {
	inv := &Invoker{model: model, log: log}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

func (inv *Invoker) record(fi FlowInvocation) {
	ev := inv.log.Debug().
		Str("flow", fi.Flow).
		Dur("duration", fi.Duration)
	if fi.Err != nil {
		ev = ev.Err(fi.Err)
	}
	ev.Msg("flow invoked")
	if inv.observe != nil {
		inv.observe(fi)
	}
}

// Flow is a named, schema-checked prompt whose input is In and whose
// validated result is Out.
type Flow[In, Out any] struct {
	name   string
	prompt *template.Template
	input  *jsonschema.Schema
	output *jsonschema.Schema
}

// Define builds a flow and registers its schemas under name. It panics if
// the template does not parse, so flows are declared as package variables.
func Define[In, Out any](name, prompt string) *Flow[In, Out] {
	var (
		in  In
		out Out
	)
	f := &Flow[In, Out]{
		name:   name,
		prompt: template.Must(template.New(name).Parse(prompt)),
		input:  schema.Reflect(&in),
		output: schema.Reflect(&out),
	}
	if err := schema.Register(name, schema.Descriptor{Input: f.input, Output: f.output}); err != nil {
		panic(err)
	}
	return f
}

// Name returns the registered flow name.
func (f *Flow[In, Out]) Name() string { return f.name }

// OutputSchema returns the schema the model answer must satisfy.
func (f *Flow[In, Out]) OutputSchema() *jsonschema.Schema { return f.output }

// Run validates in, prompts the model and returns its validated answer.
// Input violations fail with apperr.ErrInvalidInput before any model call;
// model failures and non-conforming answers fail with apperr.ErrModelInvocation.
func (f *Flow[In, Out]) Run(ctx context.Context, inv *Invoker, in In) (Out, error) {
	var out Out

	input, err := schema.ToValue(in)
	if err != nil {
		return out, apperr.Wrapf(apperr.ErrInvalidInput, err, "flow %s", f.name)
	}
	if errs := schema.Validate(f.input, input); len(errs) > 0 {
		return out, &apperr.Error{Kind: apperr.ErrInvalidInput, Msg: errs.Error(), Err: errs}
	}

	prompt, err := f.render(input)
	if err != nil {
		return out, apperr.Wrapf(apperr.ErrInvalidInput, err, "render prompt for %s", f.name)
	}

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	start := time.Now()
	fi := FlowInvocation{Flow: f.name, Input: input}
	defer func() {
		fi.Duration = time.Since(start)
		inv.record(fi)
	}()

	raw, err := inv.model.Generate(ctx, ModelRequest{Flow: f.name, Prompt: prompt, Schema: f.output})
	fi.RawOutput = raw
	if err != nil {
		fi.Err = apperr.Wrapf(apperr.ErrModelInvocation, err, "flow %s", f.name)
		return out, fi.Err
	}

	body := stripCodeFence(raw)
	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		fi.Err = apperr.Wrapf(apperr.ErrModelInvocation, err, "flow %s: parse model output", f.name)
		return out, fi.Err
	}
	if errs := schema.Validate(f.output, parsed); len(errs) > 0 {
		fi.Err = apperr.Wrapf(apperr.ErrModelInvocation, errs, "flow %s: model output does not match schema", f.name)
		return out, fi.Err
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		fi.Err = apperr.Wrapf(apperr.ErrModelInvocation, err, "flow %s: decode model output", f.name)
		return out, fi.Err
	}
	fi.Parsed = parsed
	return out, nil
}

// render fills the template with the input fields and appends the response
// contract derived from the output schema.
func (f *Flow[In, Out]) render(input any) (string, error) {
	var buf bytes.Buffer
	if err := f.prompt.Execute(&buf, input); err != nil {
		return "", err
	}
	buf.WriteString("\n\nRespond with a single JSON object with these fields:\n")
	describeFields(&buf, f.output, 0)
	return buf.String(), nil
}

func describeFields(buf *bytes.Buffer, s *jsonschema.Schema, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, field := range schema.Fields(s) {
		fmt.Fprintf(buf, "%s- %s (%s", indent, field.Name, typeLabel(field.Schema))
		if field.Required {
			buf.WriteString(", required")
		}
		if c := constraintLabel(field.Schema); c != "" {
			buf.WriteString(", " + c)
		}
		buf.WriteString(")")
		if field.Schema.Description != "" {
			buf.WriteString(": " + field.Schema.Description)
		}
		buf.WriteByte('\n')

		switch {
		case field.Schema.Properties != nil:
			describeFields(buf, field.Schema, depth+1)
		case field.Schema.Items != nil && field.Schema.Items.Properties != nil:
			describeFields(buf, field.Schema.Items, depth+1)
		}
	}
}

func typeLabel(s *jsonschema.Schema) string {
	if s.Type == "array" && s.Items != nil && s.Items.Type != "" {
		return "array of " + s.Items.Type
	}
	if s.Type == "" {
		return "value"
	}
	return s.Type
}

func constraintLabel(s *jsonschema.Schema) string {
	var parts []string
	switch s.Format {
	case "uri", "url":
		parts = append(parts, "must be a valid absolute URL")
	}
	if s.Minimum != "" && s.Maximum != "" {
		parts = append(parts, fmt.Sprintf("between %s and %s", s.Minimum, s.Maximum))
	}
	if s.MinLength != nil && s.MaxLength != nil && *s.MinLength == *s.MaxLength {
		parts = append(parts, fmt.Sprintf("exactly %d characters", *s.MinLength))
	}
	return strings.Join(parts, ", ")
}

// stripCodeFence removes a Markdown code fence wrapped around a JSON answer.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
