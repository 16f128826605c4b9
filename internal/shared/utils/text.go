package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every tag; safe for concurrent use once built
var strict = bluemonday.StrictPolicy()

// PlainText reduces descriptor-supplied text (titles, tab names) to plain text
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	// StrictPolicy escapes entities; titles are rendered as text, not markup
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
