package seotools

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/bhk-seo/seotools/flow"
	"github.com/bhk-seo/seotools/lookup"
)

// SiteConfig holds all configuration for a seotools site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "BHK SEO Tools")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Default post author and JSON-LD author

	Addr         string `yaml:"addr"`         // Listen address (default ":3000")
	PostsPath    string `yaml:"postsPath"`    // Blog store file (default "data/blog-posts.json")
	AccessDBPath string `yaml:"accessDBPath"` // Access request SQLite path (default "data/access.db")

	SessionSecret string `yaml:"sessionSecret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookieSecure"`  // Set true for HTTPS

	GeminiAPIKey string        `yaml:"geminiAPIKey"` // Required unless a model is injected
	Model        string        `yaml:"model"`        // Model name (default flow.DefaultModel)
	ModelTimeout time.Duration `yaml:"modelTimeout"` // Per flow invocation (default 60s)
	FetchTimeout time.Duration `yaml:"fetchTimeout"` // Sitemap, favicon and IP lookups (default 15s)
	UserAgent    string        `yaml:"userAgent"`    // Outbound User-Agent for sitemap and favicon fetches
	IPLookupURL  string        `yaml:"ipLookupURL"`  // ip-api.com compatible endpoint

	LogLevel  string `yaml:"logLevel"`  // debug, info, warn, error (default info)
	LogFormat string `yaml:"logFormat"` // json or pretty (default json)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "BHK SEO Tools"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "Free SEO tools: keyword suggestions, SEO reports, meta tags, sitemaps, DNS and IP lookups."
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsPath == "" {
		c.PostsPath = "data/blog-posts.json"
	}
	if c.AccessDBPath == "" {
		c.AccessDBPath = "data/access.db"
	}
	if c.Model == "" {
		c.Model = flow.DefaultModel
	}
	if c.ModelTimeout == 0 {
		c.ModelTimeout = 60 * time.Second
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.IPLookupURL == "" {
		c.IPLookupURL = lookup.DefaultIPLookupURL
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
}

// LoadConfig reads an optional YAML file at path, then applies environment
// overrides. A missing file is not an error; an empty path skips the file.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("seotools: read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("seotools: parse config %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func applyEnv(cfg *SiteConfig) error {
	cfg.Name = EnvOr("SEOTOOLS_NAME", cfg.Name)
	cfg.URL = EnvOr("SEOTOOLS_URL", cfg.URL)
	cfg.Description = EnvOr("SEOTOOLS_DESCRIPTION", cfg.Description)
	cfg.Author = EnvOr("SEOTOOLS_AUTHOR", cfg.Author)
	cfg.Addr = EnvOr("SEOTOOLS_ADDR", cfg.Addr)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	cfg.PostsPath = EnvOr("SEOTOOLS_POSTS_PATH", cfg.PostsPath)
	cfg.AccessDBPath = EnvOr("SEOTOOLS_ACCESS_DB_PATH", cfg.AccessDBPath)
	cfg.SessionSecret = EnvOr("SEOTOOLS_SESSION_SECRET", cfg.SessionSecret)
	cfg.GeminiAPIKey = EnvOr("GEMINI_API_KEY", EnvOr("GOOGLE_API_KEY", cfg.GeminiAPIKey))
	cfg.Model = EnvOr("SEOTOOLS_MODEL", cfg.Model)
	cfg.UserAgent = EnvOr("SEOTOOLS_USER_AGENT", cfg.UserAgent)
	cfg.IPLookupURL = EnvOr("SEOTOOLS_IP_LOOKUP_URL", cfg.IPLookupURL)
	cfg.LogLevel = EnvOr("SEOTOOLS_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = EnvOr("SEOTOOLS_LOG_FORMAT", cfg.LogFormat)

	if v := os.Getenv("SEOTOOLS_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("seotools: SEOTOOLS_COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}
	for key, dst := range map[string]*time.Duration{
		"SEOTOOLS_MODEL_TIMEOUT": &cfg.ModelTimeout,
		"SEOTOOLS_FETCH_TIMEOUT": &cfg.FetchTimeout,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("seotools: %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are installed.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithModel replaces the Gemini model, e.g. with a flow.FakeModel in tests.
func WithModel(m flow.Model) Option {
	return func(a *App) {
		a.model = m
	}
}

// WithLogger sets the application logger (default: built from LogLevel and LogFormat).
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) {
		a.Log = log
		a.hasLog = true
	}
}

// WithResolver replaces the DNS resolver used by the DNS lookup tool.
func WithResolver(r lookup.Resolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithHTTPClient sets the client used for sitemap, favicon and IP lookups.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.httpClient = hc
	}
}

// WithClock sets the clock used to date generated posts.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
