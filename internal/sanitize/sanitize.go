// Package sanitize cleans raw posting text and assigns categories. Malformed
// input is always recovered locally by stripping and normalizing; nothing in
// this package returns an error.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	nonSlugRegex   = regexp.MustCompile(`[^a-z0-9]+`)
	edgeDashRegex  = regexp.MustCompile(`^-+|-+$`)
	maxDescription = 20000
)

// CleanText converts an HTML or HTML-encoded string to plain text. It first
// unescapes HTML entities (handles double-encoded board content; no-op on
// already-real HTML), strips all tags, then collapses whitespace.
func CleanText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	return strings.Join(strings.Fields(plain), " ")
}

// CleanDescription cleans a posting description and caps its length so a
// single oversized posting cannot bloat the row.
func CleanDescription(content string) string {
	return Truncate(CleanText(content), maxDescription)
}

// Truncate cuts s to at most max bytes on a rune boundary.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	for len(string(runes)) > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

// Slugify lowercases s and replaces every non-alphanumeric run with a single
// dash, trimming dashes at the edges.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = nonSlugRegex.ReplaceAllString(slug, "-")
	return edgeDashRegex.ReplaceAllString(slug, "")
}
