package pipeline

import (
	"context"
	"strings"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/sitemap"
)

// SitemapResolver lists the page URLs of a sitemap.
type SitemapResolver interface {
	Resolve(ctx context.Context, src sitemap.Source) ([]string, error)
}

// BulkOptions controls a bulk run.
type BulkOptions struct {
	// Limit caps how many URLs are processed; zero means all.
	Limit int
	// SuggestTitles asks for a title before each article.
	SuggestTitles bool
	// OnOutcome, when set, is called after each URL.
	OnOutcome func(Outcome)
}

// Outcome is the result of one URL in a bulk run.
type Outcome struct {
	URL    string
	Result Result
	Err    error
}

// Summary totals a bulk run.
type Summary struct {
	Found     int
	Processed int
	Succeeded int
	Outcomes  []Outcome
}

// Bulk resolves src and generates a post for each URL in order. A failing
// URL is recorded and the run moves on; only a sitemap failure or a
// cancelled context ends the run early.
func (p *Pipeline) Bulk(ctx context.Context, resolver SitemapResolver, src sitemap.Source, opts BulkOptions) (Summary, error) {
	urls, err := resolver.Resolve(ctx, src)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Found: len(urls)}
	if opts.Limit > 0 && len(urls) > opts.Limit {
		urls = urls[:opts.Limit]
	}

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		u = strings.TrimSpace(u)
		res, err := p.Run(ctx, Request{URL: u, SuggestTitle: opts.SuggestTitles})
		out := Outcome{URL: u, Result: res, Err: err}
		if err != nil {
			p.log.Warn().
				Err(err).
				Str("url", u).
				Str("reason", apperr.Message(err)).
				Msg("bulk generation failed for url")
		} else {
			sum.Succeeded++
			p.log.Info().
				Str("url", u).
				Str("slug", res.Slug).
				Msg("post generated")
		}
		sum.Processed++
		sum.Outcomes = append(sum.Outcomes, out)
		if opts.OnOutcome != nil {
			opts.OnOutcome(out)
		}
	}
	return sum, nil
}
