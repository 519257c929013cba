package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
var dashRuns = regexp.MustCompile(`-{2,}`)

// slugify lowercases the name, turns whitespace into dashes, strips anything
// outside [a-z0-9-], and caps the base at 140 characters.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 140 {
		s = strings.Trim(s[:140], "-")
	}
	if s == "" {
		s = "product"
	}
	return s
}

// newSlug appends a six-digit time-derived suffix so concurrent creates with
// the same name still land on distinct slugs.
func newSlug(name string) string {
	suffix := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("%s-%06d", slugify(name), suffix)
}
