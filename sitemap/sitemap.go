// Package sitemap turns a sitemap document, fetched or uploaded, into the
// ordered list of page URLs it names.
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/schema"
)

// UserAgent identifies the fetcher to sitemap hosts.
const UserAgent = "BHK-SEO-Tools-Sitemap-Fetcher/1.0"

// MaxBodySize bounds how much of a sitemap response is read.
const MaxBodySize = 10 << 20

var (
	locPattern    = regexp.MustCompile(`<loc>(.*?)</loc>`)
	urlLocPattern = regexp.MustCompile(`<url><loc>(.*?)</loc>`)
)

// Extract returns the contents of every <loc> tag in order of appearance,
// duplicates included. When the loose scan finds nothing it retries with
// <url><loc> pairs. The text does not need to be well-formed XML.
func Extract(text string) []string {
	urls := collect(locPattern, text)
	if len(urls) == 0 {
		urls = collect(urlLocPattern, text)
	}
	return urls
}

func collect(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m[1])
	}
	return urls
}

// Source is exactly one of a sitemap URL or raw sitemap text.
type Source struct {
	URL  string `json:"sitemapUrl,omitempty"`
	Text string `json:"sitemapText,omitempty"`
}

// Resolver fetches and parses sitemaps.
type Resolver struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.httpClient = c }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// NewResolver creates a Resolver with a 30 second fetch timeout.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  UserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch downloads the sitemap at sitemapURL and extracts its URLs.
func (r *Resolver) Fetch(ctx context.Context, sitemapURL string) ([]string, error) {
	sitemapURL = strings.TrimSpace(sitemapURL)
	if !schema.IsAbsoluteURL(sitemapURL) {
		return nil, apperr.InvalidInput("Invalid URL format provided.")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, apperr.InvalidInput("Invalid URL format provided.")
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.8")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.FetchError{URL: sitemapURL, Message: "send request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperr.FetchError{
			URL:        sitemapURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Failed to fetch sitemap. Status: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, &apperr.FetchError{URL: sitemapURL, Message: "read response", Err: err}
	}
	return Extract(string(body)), nil
}

// Resolve extracts URLs from whichever side of src is set.
func (r *Resolver) Resolve(ctx context.Context, src Source) ([]string, error) {
	hasURL := strings.TrimSpace(src.URL) != ""
	hasText := strings.TrimSpace(src.Text) != ""
	switch {
	case hasURL && hasText:
		return nil, apperr.InvalidInput("Provide either a sitemap URL or sitemap text, not both.")
	case hasURL:
		return r.Fetch(ctx, src.URL)
	case hasText:
		return Extract(src.Text), nil
	}
	return nil, apperr.InvalidInput("A sitemap URL or sitemap text is required.")
}

// Result is the boundary shape of a sitemap lookup: errors travel as text.
type Result struct {
	URLs  []string `json:"urls"`
	Error string   `json:"error,omitempty"`
}

// Lookup resolves src and folds any failure into Result.Error.
func (r *Resolver) Lookup(ctx context.Context, src Source) Result {
	urls, err := r.Resolve(ctx, src)
	if err != nil {
		return Result{URLs: []string{}, Error: message(err)}
	}
	return Result{URLs: urls}
}

func message(err error) string {
	var fe *apperr.FetchError
	if errors.As(err, &fe) && fe.StatusCode != 0 {
		return fe.Message
	}
	if errors.Is(err, apperr.ErrFetch) {
		return "An unknown error occurred while fetching the sitemap."
	}
	return apperr.Message(err)
}
