package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bhk-seo/seotools/apperr"
)

func TestAnalyzeJoinsBothResults(t *testing.T) {
	defer goleak.VerifyNone(t)

	model := &FakeModel{Responses: map[string]string{
		Keywords.Name(): keywordsJSON,
		Report.Name():   reportJSON,
	}}

	a, err := Analyze(context.Background(), newTestInvoker(model), "https://example.com")
	require.NoError(t, err)
	assert.True(t, a.Complete())
	assert.Equal(t, float64(78), a.Report.SEOScore)
	assert.Len(t, a.Keywords.Keywords, 2)
	assert.Empty(t, a.KeywordsError)
	assert.Empty(t, a.ReportError)
}

func TestAnalyzeToleratesOneFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	model := &FakeModel{GenerateFunc: func(_ context.Context, req ModelRequest) (string, error) {
		if req.Flow == Keywords.Name() {
			return "", errors.New("upstream unavailable")
		}
		return reportJSON, nil
	}}

	a, err := Analyze(context.Background(), newTestInvoker(model), "https://example.com")
	require.NoError(t, err)
	assert.False(t, a.Complete())
	assert.False(t, a.Failed())
	assert.Nil(t, a.Keywords)
	assert.NotEmpty(t, a.KeywordsError)
	require.NotNil(t, a.Report)
	assert.Equal(t, float64(64), a.Report.Performance.Score)
}

func TestAnalyzeBothFail(t *testing.T) {
	defer goleak.VerifyNone(t)

	model := &FakeModel{Responses: map[string]string{
		Keywords.Name(): `{"keywords":"none"}`,
		Report.Name():   `{}`,
	}}

	a, err := Analyze(context.Background(), newTestInvoker(model), "https://example.com")
	require.NoError(t, err)
	assert.True(t, a.Failed())
	assert.NotEmpty(t, a.KeywordsError)
	assert.NotEmpty(t, a.ReportError)
}

func TestAnalyzeInvalidURL(t *testing.T) {
	model := &FakeModel{}
	_, err := Analyze(context.Background(), newTestInvoker(model), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Equal(t, "Please enter a valid URL.", apperr.Message(err))
	assert.Empty(t, model.Calls())
}

func TestCompare(t *testing.T) {
	defer goleak.VerifyNone(t)

	model := &FakeModel{GenerateFunc: func(_ context.Context, req ModelRequest) (string, error) {
		if req.Flow == Report.Name() && strings.Contains(req.Prompt, "https://b.example") {
			return "", errors.New("timeout")
		}
		if req.Flow == Report.Name() {
			return reportJSON, nil
		}
		return keywordsJSON, nil
	}}

	c, err := Compare(context.Background(), newTestInvoker(model), "https://a.example", "https://b.example")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", c.First.URL)
	assert.True(t, c.First.Complete())
	assert.Equal(t, "https://b.example", c.Second.URL)
	assert.Nil(t, c.Second.Report)
	assert.NotEmpty(t, c.Second.ReportError)
	assert.Equal(t, 4, len(model.Calls()))

	_, err = Compare(context.Background(), newTestInvoker(model), "https://a.example", "b")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
