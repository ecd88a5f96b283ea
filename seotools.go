// Package seotools is an SEO tools site built with Go, Echo, and templ.
// It provides schema-validated AI flows (keywords, SEO reports, meta tags,
// website information), a sitemap resolver, a content pipeline that turns a
// URL into a stored blog post, DNS and IP lookups, and the public blog with
// RSS and sitemap.xml.
//
// Users provide their own templ templates via the ViewFuncs struct,
// and seotools handles the handler logic, middleware, and storage.
package seotools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bhk-seo/seotools/access"
	"github.com/bhk-seo/seotools/favicon"
	"github.com/bhk-seo/seotools/flow"
	"github.com/bhk-seo/seotools/logger"
	"github.com/bhk-seo/seotools/lookup"
	"github.com/bhk-seo/seotools/pipeline"
	"github.com/bhk-seo/seotools/posts"
	"github.com/bhk-seo/seotools/sitemap"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home        func(meta PageMeta, tools []Tool, recent []posts.Post) templ.Component
	Blog        func(meta PageMeta, all []posts.Post, activeTag string, tags []string) templ.Component
	Post        func(meta PageMeta, post posts.Post, related []posts.Post, jsonLD string) templ.Component
	Dashboard   func(meta PageMeta, email string, tools []Tool, csrfToken string) templ.Component
	Login       func(meta PageMeta, showError bool, csrfToken string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central seotools application. It wires together the stores,
// the flow invoker, the lookup clients, handlers, middleware, and
// user-provided templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Log      zerolog.Logger
	Views    ViewFuncs
	Posts    *posts.Store
	Access   *access.Store
	Invoker  *flow.Invoker
	Pipeline *pipeline.Pipeline
	Sitemaps *sitemap.Resolver
	DNS      *lookup.DNSClient
	IP       *lookup.IPClient
	Favicon  *favicon.Checker

	model         flow.Model
	resolver      lookup.Resolver
	httpClient    *http.Client
	now           func() time.Time
	hasLog        bool
	loginLimiter  *Limiter
	accessLimiter *Limiter
	customRoutes  []func(*App)
	staticDir     string
	ready         bool
}

// New creates a new seotools App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if !a.hasLog {
		a.Log = logger.New(cfg.LogLevel, cfg.LogFormat)
	}
	a.Echo.HideBanner = true
	return a
}

// Init builds the stores, clients, middleware, and routes without starting
// the server. Start calls it; tests drive the App through Echo directly.
func (a *App) Init(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("seotools: SessionSecret is required")
	}

	if a.model == nil {
		if a.Config.GeminiAPIKey == "" {
			return fmt.Errorf("seotools: GeminiAPIKey is required")
		}
		m, err := flow.NewGenAIModel(ctx, a.Config.GeminiAPIKey, a.Config.Model)
		if err != nil {
			return fmt.Errorf("seotools: init model: %w", err)
		}
		a.model = m
	}

	accessStore, err := access.NewStore(a.Config.AccessDBPath)
	if err != nil {
		return fmt.Errorf("seotools: init access store: %w", err)
	}
	a.Access = accessStore

	hc := a.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: a.Config.FetchTimeout}
	}

	a.Posts = posts.NewStore(a.Config.PostsPath)
	a.Invoker = flow.NewInvoker(a.model, a.Log, flow.WithTimeout(a.Config.ModelTimeout))
	a.Pipeline = pipeline.New(a.Invoker, a.Posts, a.Log, pipeline.WithClock(a.now))
	a.Sitemaps = sitemap.NewResolver(sitemap.WithHTTPClient(hc), sitemap.WithUserAgent(a.userAgent()))
	a.DNS = lookup.NewDNSClient(a.resolver, a.Log)
	a.IP = lookup.NewIPClient(a.Config.IPLookupURL, a.Log).WithHTTPClient(hc)
	a.Favicon = favicon.NewChecker(hc, a.Config.UserAgent)

	a.loginLimiter = NewLimiter(5, time.Minute)
	a.accessLimiter = NewLimiter(3, time.Hour)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

func (a *App) userAgent() string {
	if a.Config.UserAgent != "" {
		return a.Config.UserAgent
	}
	return sitemap.UserAgent
}

// Start initializes the App and starts the server.
func (a *App) Start() error {
	if err := a.Init(context.Background()); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Str("posts", a.Config.PostsPath).Msg("starting server")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded framework assets are served under /public/ and fall through
	// to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/tools.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/health", handleHealth)

	// Public pages
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)

	// Login stub and tools dashboard
	e.GET("/login/", a.handleLoginPage)
	e.POST("/login/", a.handleLogin)
	e.POST("/logout/", handleLogout)
	e.GET("/dashboard/", a.handleDashboard)

	// JSON API
	api := e.Group("/api")
	api.GET("/flows", handleFlows)
	api.GET("/posts", a.handleListPosts)
	api.GET("/posts/:slug", a.handleGetPost)
	api.POST("/posts", a.handleAddPost)
	api.POST("/sitemap", a.handleResolveSitemap)
	api.POST("/keywords", a.handleKeywords)
	api.POST("/report", a.handleReport)
	api.POST("/compare", a.handleCompare)
	api.POST("/speed-test", a.handleSpeedTest)
	api.POST("/meta-tags", a.handleMetaTags)
	api.POST("/website-info", a.handleWebsiteInfo)
	api.POST("/dns", a.handleDNS)
	api.POST("/ip", a.handleIP)
	api.POST("/favicon", a.handleFavicon)
	api.POST("/generate/title", a.handleGenerateTitle)
	api.POST("/generate/post", a.handleGeneratePost)
	api.POST("/access-requests", a.handleAccessRequest)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.accessLimiter != nil {
		a.accessLimiter.Close()
	}
	if a.Access != nil {
		return a.Access.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Fprintf(os.Stderr, "seotools: required environment variable %s is not set\n", key)
		os.Exit(1)
	}
	return v
}
