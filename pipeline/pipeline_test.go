package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/flow"
	"github.com/bhk-seo/seotools/posts"
	"github.com/bhk-seo/seotools/sitemap"
)

const (
	metaJSON  = `{"title":"Suggested Title","metaDescription":"d","keywords":["a"]}`
	draftJSON = `{"slug":"Ten SEO Tips!","title":"Ten SEO Tips","content":"<h2 class=\"x\">Intro</h2><p>Body text.</p><script>x()</script>","excerpt":"Short.","tags":["SEO","Tips"],"author":"AI Content Team","image":"https://picsum.photos/1200/600","dataAiHint":"search engine"}`
)

var fixedNow = time.Date(2024, time.October, 26, 9, 0, 0, 0, time.UTC)

func newTestPipeline(t *testing.T, model flow.Model) (*Pipeline, *posts.Store) {
	t.Helper()
	store := posts.NewStore(filepath.Join(t.TempDir(), "posts.json"))
	inv := flow.NewInvoker(model, zerolog.Nop())
	return New(inv, store, zerolog.Nop(), WithClock(func() time.Time { return fixedNow })), store
}

func TestRunEndToEnd(t *testing.T) {
	model := &flow.FakeModel{Responses: map[string]string{
		flow.Meta.Name():     metaJSON,
		flow.BlogPost.Name(): draftJSON,
	}}
	p, store := newTestPipeline(t, model)

	res, err := p.Run(context.Background(), Request{URL: "https://example.com/page", SuggestTitle: true})
	require.NoError(t, err)
	assert.Equal(t, Result{Slug: "ten-seo-tips", Title: "Ten SEO Tips"}, res)

	calls := model.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, flow.Meta.Name(), calls[0].Flow)
	assert.Contains(t, calls[1].Prompt, "Suggested Title: Suggested Title")

	got, err := store.Get("ten-seo-tips")
	require.NoError(t, err)
	assert.Equal(t, "October 26, 2024", got.Date)
	assert.Equal(t, "<h2>Intro</h2><p>Body text.</p>", got.Content)
	assert.Equal(t, []string{"SEO", "Tips"}, got.Tags)
	assert.Equal(t, "search engine", got.DataAiHint)
}

func TestRunTitleFailureDegrades(t *testing.T) {
	model := &flow.FakeModel{GenerateFunc: func(_ context.Context, req flow.ModelRequest) (string, error) {
		if req.Flow == flow.Meta.Name() {
			return "", errors.New("model overloaded")
		}
		return draftJSON, nil
	}}
	p, store := newTestPipeline(t, model)

	res, err := p.Run(context.Background(), Request{URL: "https://example.com/page", Title: "Mine", SuggestTitle: true})
	require.NoError(t, err)
	assert.Equal(t, TitleNotice, res.TitleNotice)
	assert.Equal(t, "ten-seo-tips", res.Slug)

	calls := model.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Prompt, "Suggested Title: Mine")

	all, err := store.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRunGenerationFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		draft string
		err   error
	}{
		{"model error", "", errors.New("boom")},
		{"schema violation", `{"slug":"x","title":"T"}`, nil},
		{"empty content", strings.Replace(draftJSON, `<h2 class=\"x\">Intro</h2><p>Body text.</p><script>x()</script>`, `<script>x()</script>`, 1), nil},
		{"no slug or title", `{"slug":"!!!","title":"???","content":"<p>x</p>","excerpt":"e","tags":[],"author":"a","image":"https://picsum.photos/1","dataAiHint":"h"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &flow.FakeModel{GenerateFunc: func(context.Context, flow.ModelRequest) (string, error) {
				return tt.draft, tt.err
			}}
			p, store := newTestPipeline(t, model)

			_, err := p.Run(context.Background(), Request{URL: "https://example.com/page"})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrGenerationFailed)
			assert.Equal(t, "Could not generate the blog post.", apperr.Message(err))

			all, err := store.List()
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestRunSlugFallsBackToTitle(t *testing.T) {
	draft := strings.Replace(draftJSON, `"slug":"Ten SEO Tips!"`, `"slug":""`, 1)
	model := &flow.FakeModel{Responses: map[string]string{flow.BlogPost.Name(): draft}}
	p, _ := newTestPipeline(t, model)

	res, err := p.Run(context.Background(), Request{URL: "https://example.com/page"})
	require.NoError(t, err)
	assert.Equal(t, "ten-seo-tips", res.Slug)
}

func TestRunInvalidURL(t *testing.T) {
	model := &flow.FakeModel{}
	p, _ := newTestPipeline(t, model)

	_, err := p.Run(context.Background(), Request{URL: "not a url", SuggestTitle: true})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Empty(t, model.Calls())
}

type failingStore struct{}

func (failingStore) Upsert(posts.Post) (posts.Post, error) {
	return posts.Post{}, os.ErrPermission
}

func TestGeneratePersistenceFailure(t *testing.T) {
	model := &flow.FakeModel{Responses: map[string]string{flow.BlogPost.Name(): draftJSON}}
	p := New(flow.NewInvoker(model, zerolog.Nop()), failingStore{}, zerolog.Nop())

	_, err := p.Generate(context.Background(), "https://example.com/page", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrPersistenceFailed)
	assert.ErrorIs(t, err, os.ErrPermission)
}

type staticResolver struct {
	urls []string
	err  error
}

func (r staticResolver) Resolve(context.Context, sitemap.Source) ([]string, error) {
	return r.urls, r.err
}

func TestBulkContinuesPastFailures(t *testing.T) {
	model := &flow.FakeModel{GenerateFunc: func(_ context.Context, req flow.ModelRequest) (string, error) {
		if strings.Contains(req.Prompt, "https://example.com/bad") {
			return "", errors.New("unavailable")
		}
		return draftJSON, nil
	}}
	p, _ := newTestPipeline(t, model)

	var seen []string
	resolver := staticResolver{urls: []string{
		"https://example.com/a",
		"https://example.com/bad",
		"https://example.com/c",
		"https://example.com/d",
	}}
	sum, err := p.Bulk(context.Background(), resolver, sitemap.Source{Text: "ignored"}, BulkOptions{
		Limit:     3,
		OnOutcome: func(o Outcome) { seen = append(seen, o.URL) },
	})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Found)
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/bad", "https://example.com/c"}, seen)
	assert.ErrorIs(t, sum.Outcomes[1].Err, apperr.ErrGenerationFailed)
}

func TestBulkSitemapFailure(t *testing.T) {
	p, _ := newTestPipeline(t, &flow.FakeModel{})
	_, err := p.Bulk(context.Background(), staticResolver{err: apperr.InvalidInput("Invalid URL format provided.")}, sitemap.Source{URL: "x"}, BulkOptions{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestBulkStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := &flow.FakeModel{GenerateFunc: func(context.Context, flow.ModelRequest) (string, error) {
		cancel()
		return draftJSON, nil
	}}
	p, _ := newTestPipeline(t, model)

	sum, err := p.Bulk(ctx, staticResolver{urls: []string{"https://example.com/a", "https://example.com/b"}}, sitemap.Source{Text: "x"}, BulkOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sum.Processed)
}
