package seotools

import "strings"

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, optional
	SiteName    string
}

// Tool is one entry of the tools dashboard.
type Tool struct {
	Name        string
	Path        string // page path
	Endpoint    string // JSON API endpoint the page posts to
	Description string
}

// Tools lists every tool the site offers, in navigation order.
var Tools = []Tool{
	{Name: "SEO Report", Path: "/dashboard/#report", Endpoint: "/api/report", Description: "Keyword suggestions and an on-page SEO report for any URL."},
	{Name: "Compare", Path: "/dashboard/#compare", Endpoint: "/api/compare", Description: "Analyze two URLs side by side."},
	{Name: "Favicon Checker", Path: "/dashboard/#favicon", Endpoint: "/api/favicon", Description: "Find a site's favicon or preview an uploaded one."},
	{Name: "DNS Checker", Path: "/dashboard/#dns", Endpoint: "/api/dns", Description: "A, AAAA, CNAME, MX, NS and TXT records for a domain."},
	{Name: "Speed Test", Path: "/dashboard/#speed-test", Endpoint: "/api/speed-test", Description: "Performance score and recommendations for a URL."},
	{Name: "IP Checker", Path: "/dashboard/#ip", Endpoint: "/api/ip", Description: "Geolocation and network details of an IP address."},
	{Name: "Meta Tag Generator", Path: "/dashboard/#meta-tags", Endpoint: "/api/meta-tags", Description: "Title, description and keywords for a page."},
	{Name: "Website Information", Path: "/dashboard/#website-info", Endpoint: "/api/website-info", Description: "Summary and overview of a domain."},
	{Name: "Sitemap URLs", Path: "/dashboard/#sitemap", Endpoint: "/api/sitemap", Description: "List the page URLs of a sitemap."},
	{Name: "Content Generator", Path: "/dashboard/#post", Endpoint: "/api/generate/post", Description: "Turn a URL into a published blog post."},
}

// Anchor returns the fragment of the tool's page path, used as the id of its
// dashboard section.
func (t Tool) Anchor() string {
	_, frag, _ := strings.Cut(t.Path, "#")
	return frag
}
