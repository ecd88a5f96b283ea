package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/schema"
)

const (
	keywordsJSON = `{"keywords":[{"keyword":"seo tools","relevanceScore":0.92},{"keyword":"site audit","relevanceScore":0.7}]}`
	reportJSON   = `{"seoScore":78,"onPageSeo":{"title":"Home","metaDescription":"Welcome","titleSuggestion":"Better Home","metaDescriptionSuggestion":"Better welcome"},"performance":{"score":64,"recommendations":["Compress images","Defer scripts","Cache assets"]}}`
)

func newTestInvoker(m Model, opts ...InvokerOption) *Invoker {
	return NewInvoker(m, zerolog.Nop(), opts...)
}

func TestRunReturnsValidatedOutput(t *testing.T) {
	model := &FakeModel{Responses: map[string]string{Keywords.Name(): keywordsJSON}}
	inv := newTestInvoker(model)

	got, err := SuggestKeywords(context.Background(), inv, "https://example.com", "")
	require.NoError(t, err)
	require.Len(t, got.Keywords, 2)
	assert.Equal(t, "seo tools", got.Keywords[0].Keyword)
	assert.InDelta(t, 0.92, got.Keywords[0].RelevanceScore, 1e-9)
}

func TestRunRejectsInvalidInputWithoutCallingModel(t *testing.T) {
	model := &FakeModel{Responses: map[string]string{Report.Name(): reportJSON}}
	inv := newTestInvoker(model)

	for _, url := range []string{"", "not a url", "example.com", "/relative/path"} {
		_, err := AnalyzeSEO(context.Background(), inv, url)
		require.Error(t, err, url)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, url)
	}
	assert.Empty(t, model.Calls())
}

func TestRunModelFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	model := &FakeModel{GenerateFunc: func(context.Context, ModelRequest) (string, error) {
		return "", cause
	}}

	_, err := AnalyzeSEO(context.Background(), newTestInvoker(model), "https://example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrModelInvocation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Analysis unavailable. The AI model may be unavailable or the URL may be inaccessible.", apperr.Message(err))
}

func TestRunRejectsNonConformingOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I cannot analyze this page."},
		{"missing required", `{"seoScore":78,"performance":{"score":64,"recommendations":[]}}`},
		{"out of range", strings.Replace(reportJSON, `"seoScore":78`, `"seoScore":140`, 1)},
		{"wrong type", strings.Replace(reportJSON, `"seoScore":78`, `"seoScore":"high"`, 1)},
		{"wrong item type", strings.Replace(reportJSON, `"Compress images"`, `42`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &FakeModel{Responses: map[string]string{Report.Name(): tt.raw}}
			_, err := AnalyzeSEO(context.Background(), newTestInvoker(model), "https://example.com")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrModelInvocation)
		})
	}
}

func TestRunValidatesURLFormatInOutput(t *testing.T) {
	draft := `{"slug":"s","title":"T","content":"<p>x</p>","excerpt":"e","tags":["a"],"author":"AI Content Team","image":"not-a-url","dataAiHint":"seo"}`
	model := &FakeModel{Responses: map[string]string{BlogPost.Name(): draft}}

	_, err := CreateBlogPostFromURL(context.Background(), newTestInvoker(model), "https://example.com", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrModelInvocation)
	assert.Contains(t, err.Error(), "image")
}

func TestRunStripsCodeFenceAndDropsUnknownFields(t *testing.T) {
	raw := "```json\n{\"title\":\"T\",\"metaDescription\":\"D\",\"keywords\":[\"k\"],\"confidence\":0.4}\n```"
	model := &FakeModel{Responses: map[string]string{Meta.Name(): raw}}

	got, err := GenerateMetaTags(context.Background(), newTestInvoker(model), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, MetaTags{Title: "T", MetaDescription: "D", Keywords: []string{"k"}}, got)
}

func TestRenderedPromptCarriesInputAndOutputContract(t *testing.T) {
	model := &FakeModel{Responses: map[string]string{Keywords.Name(): keywordsJSON}}
	inv := newTestInvoker(model)

	_, err := SuggestKeywords(context.Background(), inv, "https://example.com/a", "running shoes")
	require.NoError(t, err)
	_, err = SuggestKeywords(context.Background(), inv, "https://example.com/b", "")
	require.NoError(t, err)

	calls := model.Calls()
	require.Len(t, calls, 2)

	first := calls[0].Prompt
	assert.Contains(t, first, "URL: https://example.com/a")
	assert.Contains(t, first, "Query: running shoes")
	assert.Contains(t, first, "- keywords (array of object, required)")
	assert.Contains(t, first, "  - relevanceScore (number, required)")
	assert.Same(t, Keywords.OutputSchema(), calls[0].Schema)

	second := calls[1].Prompt
	assert.NotContains(t, second, "Query:")
	assert.NotContains(t, second, "<no value>")
}

func TestRunObserverAndTimeout(t *testing.T) {
	var seen []FlowInvocation
	model := &FakeModel{GenerateFunc: func(ctx context.Context, req ModelRequest) (string, error) {
		deadline, ok := ctx.Deadline()
		if !ok || time.Until(deadline) > time.Minute {
			return "", errors.New("expected a bounded context")
		}
		return keywordsJSON, nil
	}}
	inv := newTestInvoker(model,
		WithTimeout(5*time.Second),
		WithObserver(func(fi FlowInvocation) { seen = append(seen, fi) }),
	)

	_, err := SuggestKeywords(context.Background(), inv, "https://example.com", "")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, Keywords.Name(), seen[0].Flow)
	assert.Equal(t, keywordsJSON, seen[0].RawOutput)
	assert.NotNil(t, seen[0].Parsed)
	assert.NoError(t, seen[0].Err)
}

func TestFlowsAreRegistered(t *testing.T) {
	for _, name := range []string{
		"keyword-suggestions",
		"seo-report",
		"meta-tags",
		"blog-post-from-url",
		"website-information",
	} {
		d, err := schema.Resolve(name)
		require.NoError(t, err, name)
		assert.NotNil(t, d.Input, name)
		assert.NotNil(t, d.Output, name)
	}
}

func TestWebsiteInformationCountryCodeLength(t *testing.T) {
	info := `{"summary":{"age":"22 years old","traffic":"medium-traffic","globalRank":"#653,951","pageRank":"3.4","backlinks":"many","hosting":"Cloudflare","serverLocation":"US","registrar":"GoDaddy","expiry":"in 1 year"},` +
		`"overview":{"country":"United States","countryCode":"USA","owner":"Example Inc","registeredWith":"GoDaddy","registrationDate":"23 July 2003","registrationAge":"22 years ago","expirationDate":"23 July 2027","expirationDuration":"in 1 year","ipAddress":"93.184.216.34","ipWebsiteCount":12,"hostedBy":"Cloudflare","serverLocation":"US","safety":"Safe","safetyScore":"7/7"}}`
	model := &FakeModel{Responses: map[string]string{Website.Name(): info}}

	_, err := WebsiteInformation(context.Background(), newTestInvoker(model), "example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overview.countryCode")

	model.Responses[Website.Name()] = strings.Replace(info, `"USA"`, `"US"`, 1)
	got, err := WebsiteInformation(context.Background(), newTestInvoker(model), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "US", got.Overview.CountryCode)
	assert.Equal(t, float64(12), got.Overview.IPWebsiteCount)
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                  `{"a":1}`,
		"```json\n{\"a\":1}\n```":  `{"a":1}`,
		"```\n{\"a\":1}\n```\n":    `{"a":1}`,
		"  \n{\"a\":1}\n  ":        `{"a":1}`,
		"```{\"a\":1}```":          `{"a":1}`,
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
