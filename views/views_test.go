package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	seotools "github.com/bhk-seo/seotools"
	"github.com/bhk-seo/seotools/posts"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestPostEscapesFieldsAndSanitizesContent(t *testing.T) {
	post := posts.Post{
		Slug:    "ten-seo-tips",
		Title:   `Tips <script>alert(1)</script>`,
		Date:    "October 26, 2024",
		Author:  "Jane Doe",
		Image:   "https://placehold.co/1200x600.png",
		Tags:    []string{"SEO"},
		Content: `<p>Hello</p><script>alert(2)</script>`,
	}
	out := render(t, Post(seotools.PageMeta{Title: post.Title}, post, nil, `{"@type":"BlogPosting"}`))

	if strings.Contains(out, "<script>alert") {
		t.Errorf("unescaped script in output:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Errorf("title not escaped:\n%s", out)
	}
	if !strings.Contains(out, "<p>Hello</p>") {
		t.Errorf("sanitized content missing:\n%s", out)
	}
	if !strings.Contains(out, `<script type="application/ld+json">{"@type":"BlogPosting"}</script>`) {
		t.Errorf("JSON-LD block missing:\n%s", out)
	}
	if !strings.Contains(out, `href="/blog/?tag=SEO"`) {
		t.Errorf("tag link missing:\n%s", out)
	}
}

func TestBlogMarksActiveTag(t *testing.T) {
	all := []posts.Post{{Slug: "a", Title: "A", Tags: []string{"SEO"}}}
	out := render(t, Blog(seotools.PageMeta{Title: "Blog"}, all, "SEO", []string{"AI", "SEO"}))

	if !strings.Contains(out, `<a class="tag active" href="/blog/?tag=SEO">SEO</a>`) {
		t.Errorf("active tag not marked:\n%s", out)
	}
	if !strings.Contains(out, `<a class="tag" href="/blog/">All</a>`) {
		t.Errorf("All link should be inactive:\n%s", out)
	}
	if !strings.Contains(out, `href="/blog/a/"`) {
		t.Errorf("post link missing:\n%s", out)
	}
}

func TestBlogEmpty(t *testing.T) {
	out := render(t, Blog(seotools.PageMeta{}, nil, "", nil))
	if !strings.Contains(out, "No posts yet.") {
		t.Errorf("empty state missing:\n%s", out)
	}
}

func TestDashboardRendersEveryToolForm(t *testing.T) {
	out := render(t, Dashboard(seotools.PageMeta{Title: "Dashboard"}, "owner@example.com", seotools.Tools, "tok"))

	for _, tool := range seotools.Tools {
		if !strings.Contains(out, `data-endpoint="`+tool.Endpoint+`"`) {
			t.Errorf("no form for %s", tool.Endpoint)
		}
		if !strings.Contains(out, `id="`+tool.Anchor()+`"`) {
			t.Errorf("no section with id %q", tool.Anchor())
		}
	}
	if !strings.Contains(out, `data-bool="suggestTitle"`) {
		t.Errorf("checkbox field not declared:\n%s", out)
	}
	if !strings.Contains(out, "Signed in as owner@example.com") {
		t.Errorf("signed-in email missing")
	}
	if !strings.Contains(out, `data-endpoint="/api/access-requests"`) {
		t.Errorf("access request form missing")
	}
}

func TestLoginShowsError(t *testing.T) {
	out := render(t, Login(seotools.PageMeta{}, true, "csrf-token"))
	if !strings.Contains(out, "Please enter a valid email address.") {
		t.Errorf("error message missing")
	}
	if !strings.Contains(out, `name="_csrf" value="csrf-token"`) {
		t.Errorf("csrf field missing")
	}
}

func TestFuncsIsComplete(t *testing.T) {
	f := Funcs()
	if f.Home == nil || f.Blog == nil || f.Post == nil || f.Dashboard == nil ||
		f.Login == nil || f.NotFound == nil || f.ServerError == nil {
		t.Fatalf("Funcs left a view nil: %+v", f)
	}
}
