package seotools

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/bhk-seo/seotools/posts"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// staticPages are listed in sitemap.xml ahead of the posts.
var staticPages = [][]string{
	{},
	{"blog"},
	{"dashboard"},
}

func (a *App) renderSitemap(c echo.Context, all []posts.Post) error {
	return RenderXML(c, "application/xml; charset=utf-8", a.siteURLSet(all))
}

func (a *App) siteURLSet(all []posts.Post) sitemapURLSet {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(staticPages)+len(all))
	for _, segments := range staticPages {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, segments...)})
	}
	for _, p := range all {
		lastMod := ""
		if t, ok := posts.ParseDate(p.Date); ok {
			lastMod = t.Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "blog", p.Slug),
			LastMod: lastMod,
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}
