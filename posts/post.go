// Package posts holds the blog post model and the JSON file store behind the
// public blog.
package posts

import (
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Post is a published article. Content is HTML restricted to the tags
// allowed by Sanitize.
type Post struct {
	Slug       string   `json:"slug" jsonschema_description:"URL-safe identifier, unique within the store."`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Date       string   `json:"date" jsonschema_description:"Display date, e.g. October 26, 2024."`
	Author     string   `json:"author"`
	Image      string   `json:"image" jsonschema:"format=uri"`
	DataAiHint string   `json:"dataAiHint"`
	Tags       []string `json:"tags"`
	Content    string   `json:"content"`
}

// DateLayout is the display format of Post.Date.
const DateLayout = "January 2, 2006"

var dateLayouts = []string{
	DateLayout,
	"Jan 2, 2006",
	"2006-01-02",
	time.RFC3339,
}

// DisplayDate formats t the way post dates are stored.
func DisplayDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a stored post date. It accepts the display format and a
// few machine formats found in hand-written submissions.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

var contentPolicy = bluemonday.NewPolicy().
	AllowElements("p", "h2", "h3", "ul", "ol", "li", "strong")

// Sanitize reduces html to paragraphs, h2/h3 headings, lists and strong
// emphasis, with every attribute removed. Text inside other tags is kept;
// script and style bodies are dropped.
func Sanitize(html string) string {
	return strings.TrimSpace(contentPolicy.Sanitize(html))
}

// HasTag reports whether p carries tag, ignoring case.
func (p Post) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, t := range p.Tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

// FilterByTag returns the posts carrying tag. An empty tag returns all posts.
func FilterByTag(all []Post, tag string) []Post {
	if strings.TrimSpace(tag) == "" {
		return all
	}
	var out []Post
	for _, p := range all {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// Related finds posts that share at least one tag with current.
func Related(current Post, all []Post, limit int) []Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Post
	for _, p := range all {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[strings.ToLower(strings.TrimSpace(t))]; ok {
				related = append(related, p)
				break
			}
		}
		if limit > 0 && len(related) >= limit {
			break
		}
	}
	return related
}

// Tags returns the distinct tags across all posts in first-seen order.
func Tags(all []Post) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range all {
		for _, t := range p.Tags {
			key := strings.ToLower(strings.TrimSpace(t))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, strings.TrimSpace(t))
		}
	}
	return tags
}
