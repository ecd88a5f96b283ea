package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// ModelRequest is one prompt sent to the generative model.
type ModelRequest struct {
	Flow   string
	Prompt string
	// Schema is the flow's output schema; models that support structured
	// output constrain their response to it.
	Schema *jsonschema.Schema
}

// Model generates the raw text answer for a rendered prompt.
type Model interface {
	Generate(ctx context.Context, req ModelRequest) (string, error)
}

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// GenAIModel calls the Gemini API through google.golang.org/genai.
type GenAIModel struct {
	client *genai.Client
	model  string
}

// NewGenAIModel creates a Gemini-backed model.
func NewGenAIModel(ctx context.Context, apiKey, model string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIModel{client: client, model: model}, nil
}

// Generate sends the prompt with a JSON response constraint.
func (m *GenAIModel) Generate(ctx context.Context, req ModelRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if req.Schema != nil {
		responseSchema, err := schemaMap(req.Schema)
		if err != nil {
			return "", err
		}
		config.ResponseJsonSchema = responseSchema
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("model returned an empty response")
	}
	return text, nil
}

// schemaMap turns a reflected schema into the plain map the API accepts,
// dropping document-level keywords it rejects.
func schemaMap(s *jsonschema.Schema) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode response schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response schema: %w", err)
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out, nil
}
