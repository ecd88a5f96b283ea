package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/sitemap"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap <sitemap-url>",
	Short: "List the page URLs found in a sitemap",
	Args:  cobra.ExactArgs(1),
	RunE:  runSitemap,
}

func runSitemap(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	r := sitemap.NewResolver(
		sitemap.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		sitemap.WithUserAgent(cfg.UserAgent),
	)

	urls, err := r.Fetch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s", apperr.Message(err))
	}
	out := cmd.OutOrStdout()
	for _, u := range urls {
		fmt.Fprintln(out, u)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d URLs\n", len(urls))
	return nil
}
