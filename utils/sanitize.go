package utils

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer     = bluemonday.UGCPolicy()
	textSanitizer = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizeText strips every tag and returns plain text.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(textSanitizer.Sanitize(input)))
}

// SanitizeURL keeps absolute http(s) URLs and site-relative paths; anything else becomes empty.
func SanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return ""
		}
		return u.String()
	case "":
		if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
			return u.String()
		}
	}
	return ""
}
