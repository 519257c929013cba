package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Classic Two-Piece Suit": "classic-two-piece-suit",
		"  padded   name  ":      "padded-name",
		"Émigré Jacket!!":        "migr-jacket",
		"UPPER lower":            "upper-lower",
		"---":                    "product",
		"":                       "product",
	}

	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "input %q", in)
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := strings.Repeat("abcde ", 50)
	s := slugify(long)
	assert.LessOrEqual(t, len(s), 140)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestNewSlugSuffix(t *testing.T) {
	s := newSlug("Linen Blazer")
	idx := strings.LastIndex(s, "-")
	assert.True(t, strings.HasPrefix(s, "linen-blazer-"))
	assert.Len(t, s[idx+1:], 6, "six-digit suffix, got %q", s)
}
