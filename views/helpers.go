package views

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// PathEscape wraps url.PathEscape for use in templ expressions.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag active"
	}
	return "tag"
}

// TagURL links to the blog filtered by tag; an empty tag links to all posts.
func TagURL(tag string) string {
	if tag == "" {
		return "/blog/"
	}
	return "/blog/?tag=" + url.QueryEscape(tag)
}

// html accumulates the first write error so components can write markup
// without checking every call.
type html struct {
	w   io.Writer
	err error
}

// raw writes s unescaped.
func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// rawf writes formatted markup. Arguments are escaped.
func (h *html) rawf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = templ.EscapeString(fmt.Sprint(a))
	}
	h.raw(fmt.Sprintf(format, escaped...))
}

func (h *html) fields(fs []field) {
	for _, f := range fs {
		if f.Type == "checkbox" {
			h.rawf(`<label><input type="checkbox" name="%s"> %s</label>`, f.Name, f.Label)
			continue
		}
		required := ""
		if f.Required {
			required = " required"
		}
		h.rawf(`<input type="%s" name="%s" placeholder="%s" aria-label="%s"`, f.Type, f.Name, f.Placeholder, f.Label)
		h.raw(required + ">")
	}
}

func checkboxNames(fs []field) string {
	var names []string
	for _, f := range fs {
		if f.Type == "checkbox" {
			names = append(names, f.Name)
		}
	}
	return strings.Join(names, ",")
}
