package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "DevCon", "devcon"},
		{"punctuation and double space", "Hello, World!  2025", "hello-world-2025"},
		{"leading and trailing space", "  Go Meetup  ", "go-meetup"},
		{"existing hyphens collapse", "a--b---c", "a-b-c"},
		{"leading trailing hyphens stripped", "-trim me-", "trim-me"},
		{"mixed case", "GopherCon EU", "gophercon-eu"},
		{"digits kept", "Hack 24/7", "hack-247"},
		{"all special characters", "!!! ???", ""},
		{"empty", "", ""},
		{"tabs and newlines", "one\ttwo\nthree", "one-two-three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GenerateSlug(tt.title))
		})
	}
}

func TestGenerateSlug_Properties(t *testing.T) {
	titles := []string{
		"DevCon 2025!", "  Cloud & AI Summit  ", "a_b_c", "Ürban Go",
		"--edge--case--", "99 Problems", "C++ for Gophers", "Hello, World!  2025",
	}
	for _, title := range titles {
		slug := GenerateSlug(title)
		require.Equal(t, strings.ToLower(slug), slug, "slug must be lower-case for %q", title)
		for _, r := range slug {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			require.True(t, ok, "unexpected character %q in slug for title %q", r, title)
		}
		require.False(t, strings.HasPrefix(slug, "-"), "leading hyphen for %q", title)
		require.False(t, strings.HasSuffix(slug, "-"), "trailing hyphen for %q", title)
		require.NotContains(t, slug, "--", "doubled hyphen for %q", title)
	}
}

func TestGenerateSlug_Deterministic(t *testing.T) {
	require.Equal(t, GenerateSlug("Same Title"), GenerateSlug("Same Title"))
}
