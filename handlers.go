package seotools

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bhk-seo/seotools/apperr"
	"github.com/bhk-seo/seotools/posts"
)

const recentPosts = 3

func (a *App) handleHome(c echo.Context) error {
	all, err := a.Posts.List()
	if err != nil {
		return err
	}
	if len(all) > recentPosts {
		all = all[:recentPosts]
	}
	meta := a.pageMeta(a.Config.Name, a.Config.Description, BuildURL(a.Config.URL), "website")
	return Render(c, a.Views.Home(meta, Tools, all))
}

func (a *App) handleBlog(c echo.Context) error {
	tag := c.QueryParam("tag")
	all, err := a.Posts.List()
	if err != nil {
		return err
	}
	meta := a.pageMeta("Blog | "+a.Config.Name, "SEO guides and articles.", BuildURL(a.Config.URL, "blog"), "website")
	return Render(c, a.Views.Blog(meta, posts.FilterByTag(all, tag), tag, posts.Tags(all)))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Posts.Get(slug)
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	all, err := a.Posts.List()
	if err != nil {
		return err
	}
	meta := a.pageMeta(post.Title+" | "+a.Config.Name, post.Excerpt, BuildURL(a.Config.URL, "blog", post.Slug), "article")
	meta.Image = post.Image
	return Render(c, a.Views.Post(meta, post, posts.Related(post, all, 3), BlogPostingJsonLD(post, a.Config)))
}

func (a *App) handleSitemap(c echo.Context) error {
	all, err := a.Posts.List()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, all)
}

func (a *App) handleFeed(c echo.Context) error {
	all, err := a.Posts.List()
	if err != nil {
		return err
	}
	return a.renderRSS(c, all)
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nDisallow: /api/\nDisallow: /dashboard/\n\nSitemap: %s\n",
		a.Config.URL+"/sitemap.xml")
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) pageMeta(title, description, url, ogType string) PageMeta {
	return PageMeta{
		Title:       title,
		Description: description,
		URL:         url,
		OGType:      ogType,
		SiteName:    a.Config.Name,
	}
}

// StatusOf maps a failure kind to its HTTP status.
func StatusOf(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrInvalidInput:
		return http.StatusBadRequest
	case apperr.ErrFetch, apperr.ErrModelInvocation, apperr.ErrGenerationFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		if apperr.Kind(err) != nil {
			_ = renderError(c, err)
			return
		}
		he = echo.NewHTTPError(http.StatusInternalServerError)
	}

	if isAPIPath(c.Request().URL.Path) {
		if he.Code >= 500 {
			a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
			_ = c.JSON(he.Code, errorBody{Error: "An internal server error occurred."})
			return
		}
		_ = c.JSON(he.Code, errorBody{Error: fmt.Sprint(he.Message)})
		return
	}

	switch {
	case he.Code == http.StatusNotFound:
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	case he.Code >= 500:
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, he.Code, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
