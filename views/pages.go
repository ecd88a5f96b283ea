// Package views renders the site's HTML pages as templ components. The
// seotools App calls them through seotools.ViewFuncs; use Funcs to get the
// full set.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	seotools "github.com/bhk-seo/seotools"
	"github.com/bhk-seo/seotools/posts"
)

// Funcs returns the default view set for seotools.New.
func Funcs() seotools.ViewFuncs {
	return seotools.ViewFuncs{
		Home:        Home,
		Blog:        Blog,
		Post:        Post,
		Dashboard:   Dashboard,
		Login:       Login,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(h)
		return h.err
	})
}

// layout wraps body in the document shell: head metadata, navigation and footer.
func layout(meta seotools.PageMeta, body func(h *html)) templ.Component {
	return component(func(h *html) {
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.rawf(`<title>%s</title>`, meta.Title)
		if meta.Description != "" {
			h.rawf(`<meta name="description" content="%s">`, meta.Description)
			h.rawf(`<meta property="og:description" content="%s">`, meta.Description)
		}
		h.rawf(`<meta property="og:title" content="%s">`, meta.Title)
		if meta.OGType != "" {
			h.rawf(`<meta property="og:type" content="%s">`, meta.OGType)
		}
		if meta.URL != "" {
			h.rawf(`<link rel="canonical" href="%s"><meta property="og:url" content="%s">`, meta.URL, meta.URL)
		}
		if meta.Image != "" {
			h.rawf(`<meta property="og:image" content="%s">`, meta.Image)
		}
		if meta.SiteName != "" {
			h.rawf(`<meta property="og:site_name" content="%s">`, meta.SiteName)
		}
		h.raw(`<link rel="stylesheet" href="/public/site.css">`)
		h.raw(`<link rel="alternate" type="application/rss+xml" title="RSS" href="/feed.xml">`)
		h.raw(`</head><body>`)

		h.raw(`<header class="site">`)
		h.rawf(`<a href="/"><strong>%s</strong></a>`, siteName(meta))
		h.raw(`<a href="/dashboard/">Tools</a><a href="/blog/">Blog</a><a href="/login/">Log in</a>`)
		h.raw(`</header><main>`)
		body(h)
		h.raw(`</main>`)
		h.rawf(`<footer class="site"><span>%s</span><a href="/feed.xml">RSS</a><a href="/sitemap.xml">Sitemap</a></footer>`, siteName(meta))
		h.raw(`<script src="/public/tools.js" defer></script></body></html>`)
	})
}

func siteName(meta seotools.PageMeta) string {
	if meta.SiteName != "" {
		return meta.SiteName
	}
	return "BHK SEO Tools"
}

// Home is the landing page: the tool list and the latest posts.
func Home(meta seotools.PageMeta, tools []seotools.Tool, recent []posts.Post) templ.Component {
	return layout(meta, func(h *html) {
		h.raw(`<h1>Analyze Your Website's SEO</h1>`)
		h.raw(`<p class="muted">Enter any URL to get an instant, AI-powered SEO report. Discover keywords, check performance, and unlock insights to improve your ranking.</p>`)
		toolGrid(h, tools)
		if len(recent) > 0 {
			h.raw(`<h2>From the blog</h2>`)
			postList(h, recent)
		}
	})
}

func toolGrid(h *html, tools []seotools.Tool) {
	h.raw(`<div class="tools">`)
	for _, t := range tools {
		h.rawf(`<a class="tool" href="%s"><h3>%s</h3><p class="muted">%s</p></a>`, t.Path, t.Name, t.Description)
	}
	h.raw(`</div>`)
}

func postList(h *html, list []posts.Post) {
	for _, p := range list {
		h.raw(`<div class="card">`)
		h.rawf(`<h3><a href="/blog/%s/">%s</a></h3>`, PathEscape(p.Slug), p.Title)
		h.rawf(`<p class="muted">%s · %s</p>`, p.Date, p.Author)
		h.rawf(`<p>%s</p>`, p.Excerpt)
		h.raw(`</div>`)
	}
}

// Blog lists posts, optionally filtered by activeTag.
func Blog(meta seotools.PageMeta, all []posts.Post, activeTag string, tags []string) templ.Component {
	return layout(meta, func(h *html) {
		h.raw(`<h1>Blog</h1><p>`)
		h.rawf(`<a class="%s" href="%s">All</a>`, TagClass(activeTag == ""), TagURL(""))
		for _, tag := range tags {
			h.rawf(`<a class="%s" href="%s">%s</a>`, TagClass(tag == activeTag), TagURL(tag), tag)
		}
		h.raw(`</p>`)
		if len(all) == 0 {
			h.raw(`<p class="muted">No posts yet.</p>`)
			return
		}
		postList(h, all)
	})
}

// Post renders one article with its JSON-LD and related posts.
func Post(meta seotools.PageMeta, post posts.Post, related []posts.Post, jsonLD string) templ.Component {
	return layout(meta, func(h *html) {
		h.raw(`<script type="application/ld+json">`)
		// json.Marshal escapes <, > and &, so the document cannot close the tag.
		h.raw(jsonLD)
		h.raw(`</script>`)
		h.raw(`<article class="post">`)
		h.rawf(`<h1>%s</h1>`, post.Title)
		h.rawf(`<p class="muted">%s · %s</p>`, post.Date, post.Author)
		if post.Image != "" {
			h.rawf(`<img src="%s" alt="%s" data-ai-hint="%s">`, post.Image, post.Title, post.DataAiHint)
		}
		h.raw(`<p>`)
		for _, tag := range post.Tags {
			h.rawf(`<a class="tag" href="%s">%s</a>`, TagURL(tag), tag)
		}
		h.raw(`</p>`)
		h.raw(posts.Sanitize(post.Content))
		h.raw(`</article>`)
		if len(related) > 0 {
			h.raw(`<h2>Related posts</h2>`)
			postList(h, related)
		}
	})
}

// Dashboard renders one form per tool. Forms post JSON to the tool's API
// endpoint through tools.js and print the response below the form.
func Dashboard(meta seotools.PageMeta, email string, tools []seotools.Tool, csrfToken string) templ.Component {
	return layout(meta, func(h *html) {
		h.raw(`<h1>SEO Tools</h1>`)
		if email != "" {
			h.rawf(`<form method="post" action="/logout/"><input type="hidden" name="_csrf" value="%s"><p class="muted">Signed in as %s <button type="submit">Log out</button></p></form>`, csrfToken, email)
		}
		for _, t := range tools {
			fs, ok := toolForms[t.Endpoint]
			if !ok {
				continue
			}
			toolSection(h, t.Anchor(), t.Name, t.Description, t.Endpoint, fs)
		}
		toolSection(h, "access", "Request access", "Request access to the backlink creator.", "/api/access-requests", accessForm)
	})
}

func toolSection(h *html, id, name, description, endpoint string, fs []field) {
	h.rawf(`<section class="card" id="%s"><h3>%s</h3><p class="muted">%s</p>`, id, name, description)
	h.rawf(`<form class="tool-form" data-endpoint="%s" data-output="%s-result"`, endpoint, id)
	if names := checkboxNames(fs); names != "" {
		h.rawf(` data-bool="%s"`, names)
	}
	h.raw(`>`)
	h.fields(fs)
	h.raw(`<button type="submit">Run</button></form>`)
	h.rawf(`<pre class="result" id="%s-result"></pre></section>`, id)
}

// Login is the sign-in stub. Any valid email signs in.
func Login(meta seotools.PageMeta, showError bool, csrfToken string) templ.Component {
	return layout(meta, func(h *html) {
		h.raw(`<h1>Log in</h1>`)
		if showError {
			h.raw(`<p class="error">Please enter a valid email address.</p>`)
		}
		h.raw(`<form method="post" action="/login/" class="tool-form-static">`)
		h.rawf(`<input type="hidden" name="_csrf" value="%s">`, csrfToken)
		h.raw(`<input type="email" name="email" placeholder="you@example.com" required>`)
		h.raw(`<button type="submit">Log in</button></form>`)
	})
}

// NotFound is the 404 page.
func NotFound() templ.Component {
	return layout(seotools.PageMeta{Title: "Page not found"}, func(h *html) {
		h.raw(`<h1>Page not found</h1><p class="muted">The page you are looking for does not exist.</p><p><a href="/">Go home</a></p>`)
	})
}

// ServerError is the 500 page.
func ServerError() templ.Component {
	return layout(seotools.PageMeta{Title: "Something went wrong"}, func(h *html) {
		h.raw(`<h1>Something went wrong</h1><p class="muted">Please try again in a moment.</p>`)
	})
}
