// Package pipeline turns pages found in a sitemap into stored blog posts:
// an optional title suggestion, a generated article, then an upsert into the
// blog store.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/flow"
	"github.com/bhk-seo/seotools/posts"
)

// TitleNotice is reported when the title suggestion failed and generation
// went ahead with the caller's title.
const TitleNotice = "Could not generate a title. Continuing with the provided title."

// Store persists generated posts.
type Store interface {
	Upsert(p posts.Post) (posts.Post, error)
}

// Pipeline chains the title and article flows with the blog store.
type Pipeline struct {
	invoker *flow.Invoker
	store   Store
	log     zerolog.Logger
	now     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces time.Now for the post date.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline.
func New(invoker *flow.Invoker, store Store, log zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		invoker: invoker,
		store:   store,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SuggestTitle asks the meta tag flow for a title for url.
func (p *Pipeline) SuggestTitle(ctx context.Context, url string) (string, error) {
	tags, err := flow.GenerateMetaTags(ctx, p.invoker, url)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(tags.Title), nil
}

// Generate writes an article for url and stores it. title is a hint and may
// be empty. Nothing is stored unless the article was generated in full.
// Generation failures are apperr.ErrGenerationFailed; store failures are
// apperr.ErrPersistenceFailed; an invalid url is apperr.ErrInvalidInput.
func (p *Pipeline) Generate(ctx context.Context, url, title string) (posts.Post, error) {
	draft, err := flow.CreateBlogPostFromURL(ctx, p.invoker, url, title)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			return posts.Post{}, err
		}
		return posts.Post{}, apperr.Wrap(apperr.ErrGenerationFailed, err)
	}

	post := posts.Post{
		Slug:       posts.Slugify(draft.Slug),
		Title:      strings.TrimSpace(draft.Title),
		Excerpt:    strings.TrimSpace(draft.Excerpt),
		Date:       posts.DisplayDate(p.now()),
		Author:     strings.TrimSpace(draft.Author),
		Image:      draft.Image,
		DataAiHint: strings.TrimSpace(draft.DataAiHint),
		Tags:       draft.Tags,
		Content:    posts.Sanitize(draft.Content),
	}
	if post.Slug == "" {
		post.Slug = posts.Slugify(post.Title)
	}
	if post.Slug == "" {
		return posts.Post{}, apperr.Wrap(apperr.ErrGenerationFailed, errors.New("generated post has no usable slug or title"))
	}
	if post.Content == "" {
		return posts.Post{}, apperr.Wrap(apperr.ErrGenerationFailed, errors.New("generated post has no content after sanitizing"))
	}

	stored, err := p.store.Upsert(post)
	if err != nil {
		if errors.Is(err, apperr.ErrPersistenceFailed) {
			return posts.Post{}, err
		}
		return posts.Post{}, apperr.Wrap(apperr.ErrPersistenceFailed, err)
	}
	return stored, nil
}

// Request asks for one post to be generated from URL.
type Request struct {
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	SuggestTitle bool   `json:"suggestTitle,omitempty"`
}

// Result describes the stored post.
type Result struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	TitleNotice string `json:"titleNotice,omitempty"`
}

// Run generates and stores one post. A failed title suggestion is not fatal:
// it is reported in Result.TitleNotice and the caller's title is used.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	var res Result
	title := strings.TrimSpace(req.Title)

	if req.SuggestTitle {
		suggested, err := p.SuggestTitle(ctx, req.URL)
		switch {
		case errors.Is(err, apperr.ErrInvalidInput):
			return Result{}, err
		case err != nil:
			p.log.Warn().Err(err).Str("url", req.URL).Msg("title suggestion failed")
			res.TitleNotice = TitleNotice
		case suggested != "":
			title = suggested
		}
	}

	post, err := p.Generate(ctx, req.URL, title)
	if err != nil {
		return Result{}, err
	}
	res.Slug = post.Slug
	res.Title = post.Title
	return res, nil
}
