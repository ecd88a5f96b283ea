package seotools

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/favicon"
	"github.com/bhk-seo/seotools/flow"
	"github.com/bhk-seo/seotools/lookup"
	"github.com/bhk-seo/seotools/pipeline"
	"github.com/bhk-seo/seotools/posts"
	"github.com/bhk-seo/seotools/schema"
	"github.com/bhk-seo/seotools/sitemap"
)

var postSchema = schema.Reflect(&posts.Post{})

type urlRequest struct {
	URL   string `json:"url"`
	Query string `json:"query,omitempty"`
}

type compareRequest struct {
	URL1 string `json:"url1"`
	URL2 string `json:"url2"`
}

type domainRequest struct {
	Domain string `json:"domain"`
}

type ipRequest struct {
	IP string `json:"ip"`
}

type accessRequest struct {
	Email   string `json:"email"`
	Website string `json:"website,omitempty"`
}

// bind decodes the JSON body into dst. A malformed body is invalid input.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.InvalidInput("The request body is not valid JSON.")
	}
	return nil
}

func remarshal(src, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func handleFlows(c echo.Context) error {
	names := schema.Names()
	out := make([]schema.Descriptor, 0, len(names))
	for _, name := range names {
		d, err := schema.Resolve(name)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleListPosts(c echo.Context) error {
	all, err := a.Posts.List()
	if err != nil {
		return err
	}
	out := posts.FilterByTag(all, c.QueryParam("tag"))
	if out == nil {
		out = []posts.Post{}
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleGetPost(c echo.Context) error {
	post, err := a.Posts.Get(c.Param("slug"))
	if errors.Is(err, posts.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorBody{Error: "Post not found."})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// handleAddPost stores a hand-written post. Every field is required and
// image must be an absolute URL.
func (a *App) handleAddPost(c echo.Context) error {
	var raw any
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Error:   "Invalid post data.",
			Details: []*schema.ValidationError{{Message: "body must be a JSON object"}},
		})
	}
	if errs := schema.Validate(postSchema, raw); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid post data.", Details: errs})
	}

	var post posts.Post
	if err := remarshal(raw, &post); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid post data."})
	}
	stored, err := a.Posts.Upsert(post)
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, errorBody{
			Error:   "Invalid post data.",
			Details: []*schema.ValidationError{{Path: "slug", Message: apperr.Message(err)}},
		})
	case err != nil:
		a.Log.Error().Err(err).Str("slug", post.Slug).Msg("failed to add blog post")
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "An internal server error occurred."})
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "slug": stored.Slug})
}

func (a *App) handleResolveSitemap(c echo.Context) error {
	var src sitemap.Source
	if err := bind(c, &src); err != nil {
		return c.JSON(http.StatusOK, sitemap.Result{URLs: []string{}, Error: apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, a.Sitemaps.Lookup(c.Request().Context(), src))
}

func (a *App) handleKeywords(c echo.Context) error {
	var req urlRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	out, err := flow.SuggestKeywords(c.Request().Context(), a.Invoker, strings.TrimSpace(req.URL), strings.TrimSpace(req.Query))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// handleReport runs the keyword and report flows together. One side failing
// still returns 200 with that side's error text.
func (a *App) handleReport(c echo.Context) error {
	var req urlRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	analysis, err := flow.Analyze(c.Request().Context(), a.Invoker, strings.TrimSpace(req.URL))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, analysis)
}

func (a *App) handleCompare(c echo.Context) error {
	var req compareRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	cmp, err := flow.Compare(c.Request().Context(), a.Invoker, strings.TrimSpace(req.URL1), strings.TrimSpace(req.URL2))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, cmp)
}

// handleSpeedTest serves the performance section of the SEO report.
func (a *App) handleSpeedTest(c echo.Context) error {
	var req urlRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	url := strings.TrimSpace(req.URL)
	report, err := flow.AnalyzeSEO(c.Request().Context(), a.Invoker, url)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"url":         url,
		"performance": report.Performance,
	})
}

func (a *App) handleMetaTags(c echo.Context) error {
	var req urlRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	out, err := flow.GenerateMetaTags(c.Request().Context(), a.Invoker, strings.TrimSpace(req.URL))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleWebsiteInfo(c echo.Context) error {
	var req domainRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	domain, err := lookup.RegistrableDomain(req.Domain)
	if err != nil {
		return renderError(c, err)
	}
	out, err := flow.WebsiteInformation(c.Request().Context(), a.Invoker, domain)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleDNS(c echo.Context) error {
	var req domainRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, a.DNS.Lookup(c.Request().Context(), req.Domain))
}

func (a *App) handleIP(c echo.Context) error {
	var req ipRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, a.IP.Lookup(c.Request().Context(), strings.TrimSpace(req.IP)))
}

func (a *App) handleFavicon(c echo.Context) error {
	var req favicon.Request
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	res, err := a.Favicon.Check(c.Request().Context(), req)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (a *App) handleGenerateTitle(c echo.Context) error {
	var req urlRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	title, err := a.Pipeline.SuggestTitle(c.Request().Context(), strings.TrimSpace(req.URL))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"title": title})
}

func (a *App) handleGeneratePost(c echo.Context) error {
	var req pipeline.Request
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	req.URL = strings.TrimSpace(req.URL)
	res, err := a.Pipeline.Run(c.Request().Context(), req)
	if err != nil {
		a.Log.Warn().Err(err).Str("url", req.URL).Msg("content generation failed")
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (a *App) handleAccessRequest(c echo.Context) error {
	var req accessRequest
	if err := bind(c, &req); err != nil {
		return renderError(c, err)
	}
	if !a.accessLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, errorBody{Error: "Too many requests. Try again later."})
	}
	r, err := a.Access.Create(c.Request().Context(), req.Email, req.Website)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			return renderError(c, err)
		}
		return err
	}
	return c.JSON(http.StatusCreated, r)
}
