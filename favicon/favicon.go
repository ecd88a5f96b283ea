// Package favicon locates a site's favicon, or decodes an uploaded one, for
// the favicon preview tool.
package favicon

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/schema"
)

// FallbackURL is the favicon service used when a site has no /favicon.ico.
const FallbackURL = "https://www.google.com/s2/favicons?sz=64&domain_url="

// Source says where a favicon came from.
type Source string

const (
	SourceSite     Source = "site"
	SourceFallback Source = "fallback"
	SourceUpload   Source = "upload"
)

// Request is either a site URL or uploaded image data.
type Request struct {
	URL       string `json:"url,omitempty"`
	ImageData string `json:"imageData,omitempty"`
}

// Result is the favicon to preview.
type Result struct {
	SiteURL    string `json:"siteUrl"`
	FaviconURL string `json:"faviconUrl"`
	Source     Source `json:"source"`
	Image      *Image `json:"image,omitempty"`
}

// Checker probes sites for their favicon.
type Checker struct {
	httpClient *http.Client
	userAgent  string
}

// NewChecker creates a Checker. A nil client gets a 10 second timeout.
func NewChecker(hc *http.Client, userAgent string) *Checker {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Checker{httpClient: hc, userAgent: userAgent}
}

// Check resolves req. Uploaded data wins over a URL.
func (c *Checker) Check(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.ImageData) != "" {
		img, err := DecodeDataURL(req.ImageData)
		if err != nil {
			return Result{}, apperr.InvalidInput("The uploaded file is not a supported image: %v", err)
		}
		site := req.URL
		if site == "" {
			site = "local-preview"
		}
		return Result{SiteURL: site, FaviconURL: img.Preview, Source: SourceUpload, Image: &img}, nil
	}

	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return Result{}, apperr.InvalidInput("Please provide a URL or upload an image to check.")
	}
	if !schema.IsAbsoluteURL(raw) {
		return Result{}, apperr.InvalidInput("Please enter a valid URL.")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Result{}, apperr.InvalidInput("Please enter a valid URL.")
	}

	origin := u.Scheme + "://" + u.Host
	candidate := origin + "/favicon.ico"

	ok, err := c.exists(ctx, candidate)
	if err != nil {
		return Result{}, &apperr.FetchError{URL: candidate, Message: "Could not construct a valid URL or fetch the favicon.", Err: err}
	}
	if ok {
		return Result{SiteURL: raw, FaviconURL: candidate, Source: SourceSite}, nil
	}
	return Result{
		SiteURL:    raw,
		FaviconURL: FallbackURL + url.QueryEscape(u.Hostname()),
		Source:     SourceFallback,
	}, nil
}

func (c *Checker) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
