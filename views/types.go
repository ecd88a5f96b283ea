package views

// field is one input of a dashboard tool form.
type field struct {
	Name        string
	Label       string
	Type        string // "url", "text", "email" or "checkbox"
	Placeholder string
	Required    bool
}

// toolForms maps a tool's API endpoint to the inputs its form posts.
var toolForms = map[string][]field{
	"/api/report":       {{Name: "url", Label: "Website URL", Type: "url", Placeholder: "https://example.com", Required: true}},
	"/api/compare":      {{Name: "url1", Label: "First URL", Type: "url", Placeholder: "https://example.com", Required: true}, {Name: "url2", Label: "Second URL", Type: "url", Placeholder: "https://competitor.com", Required: true}},
	"/api/favicon":      {{Name: "url", Label: "Website URL", Type: "url", Placeholder: "https://example.com", Required: true}},
	"/api/dns":          {{Name: "domain", Label: "Domain", Type: "text", Placeholder: "example.com", Required: true}},
	"/api/speed-test":   {{Name: "url", Label: "Website URL", Type: "url", Placeholder: "https://example.com", Required: true}},
	"/api/ip":           {{Name: "ip", Label: "IP address", Type: "text", Placeholder: "8.8.8.8"}},
	"/api/meta-tags":    {{Name: "url", Label: "Page URL", Type: "url", Placeholder: "https://example.com/page", Required: true}},
	"/api/website-info": {{Name: "domain", Label: "Domain", Type: "text", Placeholder: "example.com", Required: true}},
	"/api/sitemap":      {{Name: "sitemapUrl", Label: "Sitemap URL", Type: "url", Placeholder: "https://example.com/sitemap.xml", Required: true}},
	"/api/generate/post": {
		{Name: "url", Label: "Source URL", Type: "url", Placeholder: "https://example.com/article", Required: true},
		{Name: "title", Label: "Title", Type: "text", Placeholder: "Post title"},
		{Name: "suggestTitle", Label: "Suggest a title", Type: "checkbox"},
	},
}

var accessForm = []field{
	{Name: "email", Label: "Email", Type: "email", Placeholder: "you@example.com", Required: true},
	{Name: "website", Label: "Website", Type: "url", Placeholder: "https://example.com"},
}
