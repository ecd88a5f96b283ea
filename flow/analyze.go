package flow

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/schema"
)

// Analysis joins the keyword suggestions and the SEO report of one URL.
// Either side may be absent; its error then carries the user-facing reason.
type Analysis struct {
	URL           string              `json:"url"`
	Keywords      *KeywordSuggestions `json:"keywords"`
	KeywordsError string              `json:"keywordsError,omitempty"`
	Report        *SEOReport          `json:"report"`
	ReportError   string              `json:"reportError,omitempty"`
}

// Complete reports whether both analyses succeeded.
func (a Analysis) Complete() bool {
	return a.Keywords != nil && a.Report != nil
}

// Failed reports whether neither analysis succeeded.
func (a Analysis) Failed() bool {
	return a.Keywords == nil && a.Report == nil
}

// Analyze requests keyword suggestions and the SEO report concurrently.
// One side failing never cancels the other. An invalid URL fails the whole
// call with apperr.ErrInvalidInput before any model call.
func Analyze(ctx context.Context, inv *Invoker, url string) (Analysis, error) {
	if err := checkURL(url); err != nil {
		return Analysis{}, err
	}

	a := Analysis{URL: url}
	var g errgroup.Group
	g.Go(func() error {
		kw, err := SuggestKeywords(ctx, inv, url, "")
		if err != nil {
			a.KeywordsError = apperr.Message(err)
			return nil
		}
		a.Keywords = &kw
		return nil
	})
	g.Go(func() error {
		report, err := AnalyzeSEO(ctx, inv, url)
		if err != nil {
			a.ReportError = apperr.Message(err)
			return nil
		}
		a.Report = &report
		return nil
	})
	_ = g.Wait()
	return a, nil
}

// Comparison holds the analyses of two URLs side by side.
type Comparison struct {
	First  Analysis `json:"first"`
	Second Analysis `json:"second"`
}

// Compare analyses two URLs concurrently. Both URLs are validated first.
func Compare(ctx context.Context, inv *Invoker, url1, url2 string) (Comparison, error) {
	if err := checkURL(url1); err != nil {
		return Comparison{}, err
	}
	if err := checkURL(url2); err != nil {
		return Comparison{}, err
	}

	var (
		c Comparison
		g errgroup.Group
	)
	g.Go(func() error {
		var err error
		c.First, err = Analyze(ctx, inv, url1)
		return err
	})
	g.Go(func() error {
		var err error
		c.Second, err = Analyze(ctx, inv, url2)
		return err
	})
	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}
	return c, nil
}

func checkURL(url string) error {
	value, err := schema.ToValue(URLInput{URL: url})
	if err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, err)
	}
	if errs := schema.Validate(Report.input, value); len(errs) > 0 {
		return &apperr.Error{Kind: apperr.ErrInvalidInput, Msg: "Please enter a valid URL.", Err: errs}
	}
	return nil
}
