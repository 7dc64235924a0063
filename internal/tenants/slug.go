package tenants

import (
	"regexp"
	"strings"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a workspace name: lower-cased,
// non-alphanumeric runs collapsed to single hyphens, edges trimmed.
// "Dr. Pat's Clinic" -> "dr-pat-s-clinic". Empty input falls back to
// "workspace" so collision suffixing still has a base to work with.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "workspace"
	}
	return s
}
