package flow

import "context"

// KeywordsInput is the input of the keyword suggestion flow.
type KeywordsInput struct {
	URL   string `json:"url" jsonschema:"format=uri" jsonschema_description:"The URL of the content to analyze for keyword suggestions."`
	Query string `json:"query,omitempty" jsonschema_description:"Optional search query."`
}

// Keyword is one suggested keyword.
type Keyword struct {
	Keyword        string  `json:"keyword" jsonschema_description:"The suggested keyword."`
	RelevanceScore float64 `json:"relevanceScore" jsonschema_description:"The relevance score of the keyword to the URL content."`
}

// KeywordSuggestions is the validated answer of the keyword flow.
type KeywordSuggestions struct {
	Keywords []Keyword `json:"keywords" jsonschema_description:"A list of keyword suggestions with their relevance scores."`
}

// URLInput is the input of flows that only need a page URL.
type URLInput struct {
	URL string `json:"url" jsonschema:"format=uri" jsonschema_description:"The URL of the content to analyze."`
}

// OnPageSEO holds the current and suggested title and description.
type OnPageSEO struct {
	Title                     string `json:"title" jsonschema_description:"The SEO title of the page."`
	MetaDescription           string `json:"metaDescription" jsonschema_description:"The meta description of the page."`
	TitleSuggestion           string `json:"titleSuggestion" jsonschema_description:"A suggestion to improve the SEO title."`
	MetaDescriptionSuggestion string `json:"metaDescriptionSuggestion" jsonschema_description:"A suggestion to improve the meta description."`
}

// Performance holds the performance score and recommendations.
type Performance struct {
	Score           float64  `json:"score" jsonschema:"minimum=0,maximum=100" jsonschema_description:"Overall performance score from 0 to 100."`
	Recommendations []string `json:"recommendations" jsonschema_description:"A list of performance improvement recommendations."`
}

// SEOReport is the validated answer of the SEO and performance report flow.
type SEOReport struct {
	SEOScore    float64     `json:"seoScore" jsonschema:"minimum=0,maximum=100" jsonschema_description:"Overall SEO score from 0 to 100."`
	OnPageSEO   OnPageSEO   `json:"onPageSeo"`
	Performance Performance `json:"performance"`
}

// MetaTags is the validated answer of the meta tag generator.
type MetaTags struct {
	Title           string   `json:"title" jsonschema_description:"The generated SEO-optimized title for the page."`
	MetaDescription string   `json:"metaDescription" jsonschema_description:"The generated SEO-optimized meta description for the page."`
	Keywords        []string `json:"keywords" jsonschema_description:"A list of relevant SEO keywords for the page."`
}

// BlogPostInput is the input of the blog post flow. Title may be empty.
type BlogPostInput struct {
	URL   string `json:"url" jsonschema:"format=uri" jsonschema_description:"The URL to base the blog post on."`
	Title string `json:"title" jsonschema_description:"A suggested title for the new blog post."`
}

// BlogPostDraft is the article produced from a URL, before it is stored.
type BlogPostDraft struct {
	Slug       string   `json:"slug" jsonschema_description:"The URL-friendly slug for the blog post."`
	Title      string   `json:"title" jsonschema_description:"The final, SEO-optimized title of the generated blog post."`
	Content    string   `json:"content" jsonschema_description:"The full HTML content of the generated blog post."`
	Excerpt    string   `json:"excerpt" jsonschema_description:"A short summary of the blog post."`
	Tags       []string `json:"tags" jsonschema_description:"A list of relevant tags for the post."`
	Author     string   `json:"author" jsonschema_description:"An appropriate author name for the content (e.g., \"AI Content Team\")."`
	Image      string   `json:"image" jsonschema:"format=uri" jsonschema_description:"A placeholder image URL for the blog post."`
	DataAiHint string   `json:"dataAiHint" jsonschema_description:"A hint for AI to generate a relevant image."`
}

// DomainInput is the input of the website information flow.
type DomainInput struct {
	Domain string `json:"domain" jsonschema:"minLength=1" jsonschema_description:"The domain name to look up."`
}

// WebsiteSummary is the short fact sheet of a domain.
type WebsiteSummary struct {
	Age            string `json:"age" jsonschema_description:"The age of the website (e.g., \"22 years old\")."`
	Traffic        string `json:"traffic" jsonschema_description:"A qualitative description of traffic (e.g., \"medium-traffic\")."`
	GlobalRank     string `json:"globalRank" jsonschema_description:"The estimated global rank as a formatted number (e.g., \"#653,951\")."`
	PageRank       string `json:"pageRank" jsonschema_description:"The estimated PageRank (e.g., \"3.4\")."`
	Backlinks      string `json:"backlinks" jsonschema_description:"A qualitative description of backlinks."`
	Hosting        string `json:"hosting" jsonschema_description:"The name of the hosting provider."`
	ServerLocation string `json:"serverLocation" jsonschema_description:"The country where the server is located."`
	Registrar      string `json:"registrar" jsonschema_description:"The domain registrar name."`
	Expiry         string `json:"expiry" jsonschema_description:"Time until domain expiration (e.g., \"in 1 year and 9 months\")."`
}

// WebsiteOverview is the detailed ownership and hosting record of a domain.
type WebsiteOverview struct {
	Country            string  `json:"country" jsonschema_description:"The country of the website owner or organization."`
	CountryCode        string  `json:"countryCode" jsonschema:"minLength=2,maxLength=2" jsonschema_description:"The two-letter country code (e.g., \"US\", \"IN\")."`
	Owner              string  `json:"owner" jsonschema_description:"The name of the website owner or organization."`
	RegisteredWith     string  `json:"registeredWith" jsonschema_description:"The domain registrar."`
	RegistrationDate   string  `json:"registrationDate" jsonschema_description:"The full registration date (e.g., \"23 July 2003\")."`
	RegistrationAge    string  `json:"registrationAge" jsonschema_description:"The human-readable age from registration (e.g., \"22 years and 2 months ago\")."`
	ExpirationDate     string  `json:"expirationDate" jsonschema_description:"The full expiration date (e.g., \"23 July 2027\")."`
	ExpirationDuration string  `json:"expirationDuration" jsonschema_description:"The human-readable time until expiration (e.g., \"in 1 year and 9 months\")."`
	IPAddress          string  `json:"ipAddress" jsonschema_description:"The primary IP address of the website."`
	IPWebsiteCount     float64 `json:"ipWebsiteCount" jsonschema_description:"The number of other websites hosted on the same IP."`
	HostedBy           string  `json:"hostedBy" jsonschema_description:"The hosting provider name."`
	ServerLocation     string  `json:"serverLocation" jsonschema_description:"The server location (Country -> Geolocation)."`
	Safety             string  `json:"safety" jsonschema_description:"A safety assessment (e.g., \"Safe\")."`
	SafetyScore        string  `json:"safetyScore" jsonschema_description:"A safety score (e.g., \"7/7\")."`
}

// WebsiteInfo is the validated answer of the website information flow.
type WebsiteInfo struct {
	Summary  WebsiteSummary  `json:"summary"`
	Overview WebsiteOverview `json:"overview"`
}

// The flows, registered in the schema registry at package initialisation.
var (
	Keywords = Define[KeywordsInput, KeywordSuggestions]("keyword-suggestions", keywordsPrompt)
	Report   = Define[URLInput, SEOReport]("seo-report", reportPrompt)
	Meta     = Define[URLInput, MetaTags]("meta-tags", metaPrompt)
	BlogPost = Define[BlogPostInput, BlogPostDraft]("blog-post-from-url", blogPostPrompt)
	Website  = Define[DomainInput, WebsiteInfo]("website-information", websitePrompt)
)

// SuggestKeywords suggests keywords with relevance scores for a page.
func SuggestKeywords(ctx context.Context, inv *Invoker, url, query string) (KeywordSuggestions, error) {
	return Keywords.Run(ctx, inv, KeywordsInput{URL: url, Query: query})
}

// AnalyzeSEO produces the SEO and performance report of a page.
func AnalyzeSEO(ctx context.Context, inv *Invoker, url string) (SEOReport, error) {
	return Report.Run(ctx, inv, URLInput{URL: url})
}

// GenerateMetaTags proposes a title, description and keywords for a page.
func GenerateMetaTags(ctx context.Context, inv *Invoker, url string) (MetaTags, error) {
	return Meta.Run(ctx, inv, URLInput{URL: url})
}

// CreateBlogPostFromURL writes a full article based on a page.
func CreateBlogPostFromURL(ctx context.Context, inv *Invoker, url, title string) (BlogPostDraft, error) {
	return BlogPost.Run(ctx, inv, BlogPostInput{URL: url, Title: title})
}

// WebsiteInformation gathers ownership, hosting and ranking facts for a domain.
func WebsiteInformation(ctx context.Context, inv *Invoker, domain string) (WebsiteInfo, error) {
	return Website.Run(ctx, inv, DomainInput{Domain: domain})
}

const keywordsPrompt = `You are an SEO expert. Given the URL of a website, suggest relevant keywords that can help improve the website's search engine optimization.

URL: {{.url}}
{{with .query}}
Query: {{.}}
{{end}}
Suggest keywords that are high-volume and low-competition, and provide a relevance score for each keyword.`

const reportPrompt = `You are a world-class SEO and web performance expert. Analyze the content of the provided URL and generate a comprehensive report.

URL: {{.url}}

Based on the content of the URL, provide the following:
1.  An overall SEO score between 0 and 100.
2.  The current SEO title and meta description.
3.  Actionable suggestions for improving the title and meta description to be more compelling and keyword-rich.
4.  An overall performance score between 0 and 100.
5.  A list of 3-5 concrete, high-impact recommendations to improve the website's speed and performance.`

const metaPrompt = `You are an SEO expert. Based on the content of the provided URL, generate the following:
1.  A concise and compelling SEO title (around 50-60 characters).
2.  A meta description (around 150-160 characters) that is engaging and encourages clicks.
3.  A list of 5-10 relevant keywords.

URL: {{.url}}`

const blogPostPrompt = `You are an expert content creator and SEO specialist. Your task is to create a full, high-quality blog post based on the content of a given URL.

URL: {{.url}}
Suggested Title: {{.title}}

1.  Analyze the content at the URL.
2.  Write an engaging, well-structured, and SEO-optimized blog post. The post should be at least 500 words long.
3.  Based on the content, create a new, compelling, and SEO-friendly title. The suggested title is just a hint.
4.  Generate a URL-friendly slug from the new, improved title.
5.  The output for the 'content' field must be a single string of clean, semantic HTML. Use only <p>, <h2>, <h3>, <ul>, <ol>, <li>, and <strong> tags. Do not include any attributes like 'class' or 'style'.
6.  Create a concise excerpt (around 150 characters).
7.  Suggest 3-5 relevant tags.
8.  The author should be "AI Content Team".
9.  Provide a relevant placeholder image URL from picsum.photos.
10. Provide a 1-2 word AI hint for image generation related to the topic.`

const websitePrompt = `You are a world-class website analyst. Given a domain name, you must perform a comprehensive analysis and return structured data about it. You will need to use your knowledge to find or estimate information like WHOIS data, hosting provider, IP address, SEO rank, and more.

Domain: {{.domain}}

For the summary object, give human-readable strings for age and expiry, a qualitative traffic level (low, medium, high), the global rank formatted with a '#' and commas (e.g., '#1,234,567'), and the hosting provider, server country and registrar.

For the overview object, give the owner's country and its two-letter code, the registered owner, registrar, full registration and expiration dates with their human-readable distances, the primary IP address with the number of other websites on it, the hosting provider, the server location and a one-word safety status with a score like "7/7".`
