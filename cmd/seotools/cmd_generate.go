package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/flow"
	"github.com/bhk-seo/seotools/pipeline"
	"github.com/bhk-seo/seotools/posts"
	"github.com/bhk-seo/seotools/sitemap"
)

var (
	generateLimit         int
	generateSuggestTitles bool
	generateFromFile      string
)

var generateCmd = &cobra.Command{
	Use:   "generate [sitemap-url]",
	Short: "Generate a blog post for every page in a sitemap",
	Long: `Resolves a sitemap and writes one AI-generated blog post per page URL
into the posts file. A failing URL is reported and the run continues.

Examples:
  seotools generate https://example.com/sitemap.xml --limit 5
  seotools generate --file sitemap.xml --suggest-titles`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateLimit, "limit", "n", 0, "process at most n URLs (0 means all)")
	generateCmd.Flags().BoolVar(&generateSuggestTitles, "suggest-titles", false, "ask the model for a title before each article")
	generateCmd.Flags().StringVarP(&generateFromFile, "file", "f", "", "read sitemap XML from a local file instead of a URL")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	src, err := generateSource(args)
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := flow.NewGenAIModel(ctx, cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}

	invoker := flow.NewInvoker(model, log, flow.WithTimeout(cfg.ModelTimeout))
	p := pipeline.New(invoker, posts.NewStore(cfg.PostsPath), log)
	resolver := sitemap.NewResolver(
		sitemap.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		sitemap.WithUserAgent(cfg.UserAgent),
	)

	return runBulk(ctx, cmd.OutOrStdout(), p, resolver, src, pipeline.BulkOptions{
		Limit:         generateLimit,
		SuggestTitles: generateSuggestTitles,
	})
}

// runBulk runs the pipeline over src and reports each URL to out. A
// cancelled ctx stops the run between URLs and reports what was done.
func runBulk(ctx context.Context, out io.Writer, p *pipeline.Pipeline, resolver pipeline.SitemapResolver, src sitemap.Source, opts pipeline.BulkOptions) error {
	opts.OnOutcome = func(o pipeline.Outcome) {
		if o.Err != nil {
			fmt.Fprintf(out, "FAIL %s: %s\n", o.URL, apperr.Message(o.Err))
			return
		}
		fmt.Fprintf(out, "ok   %s -> /blog/%s/\n", o.URL, o.Result.Slug)
	}

	sum, err := p.Bulk(ctx, resolver, src, opts)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(out, "interrupted: %d found, %d processed, %d generated\n", sum.Found, sum.Processed, sum.Succeeded)
		return err
	}
	if err != nil {
		return fmt.Errorf("%s", apperr.Message(err))
	}

	fmt.Fprintf(out, "%d found, %d processed, %d generated\n", sum.Found, sum.Processed, sum.Succeeded)
	if sum.Processed > 0 && sum.Succeeded == 0 {
		return errors.New("no posts were generated")
	}
	return nil
}

func generateSource(args []string) (sitemap.Source, error) {
	switch {
	case generateFromFile != "" && len(args) > 0:
		return sitemap.Source{}, errors.New("pass a sitemap URL or --file, not both")
	case generateFromFile != "":
		b, err := os.ReadFile(generateFromFile)
		if err != nil {
			return sitemap.Source{}, err
		}
		return sitemap.Source{Text: string(b)}, nil
	case len(args) == 1:
		return sitemap.Source{URL: args[0]}, nil
	default:
		return sitemap.Source{}, errors.New("a sitemap URL or --file is required")
	}
}
