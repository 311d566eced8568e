package domain

import (
	"regexp"
	"strings"
)

var (
	slugStripRe  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// GenerateSlug converts an event title to a URL-safe slug: lower-cased,
// trimmed, every character outside [a-z0-9], whitespace and hyphen stripped,
// whitespace runs collapsed to a single hyphen, hyphen runs collapsed, and
// leading/trailing hyphens removed. Pure and deterministic. A title made
// entirely of special characters yields the empty string; callers must supply
// a fallback before persisting.
func GenerateSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
