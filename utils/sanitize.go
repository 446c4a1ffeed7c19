package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy  = bluemonday.UGCPolicy()
	textPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks while keeping
// user-generated markup (post bodies). The result is safe HTML and must be
// rendered unescaped, e.g. via Post.HTMLContent.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizeText strips all HTML and returns plain text; used for names,
// titles and tag names. bluemonday entity-encodes its output, so decode it
// back: these fields are escaped exactly once, by html/template at render
// time. "O'Brien" and "AT&T" round-trip unchanged.
func SanitizeText(input string) string {
	return html.UnescapeString(textPolicy.Sanitize(input))
}
