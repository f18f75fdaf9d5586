package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaglineNormalizer_Normalize(t *testing.T) {
	tn := NewTaglineNormalizer(nil)

	tests := []struct {
		name string
		raw  string
		tag  string
		url  string
		want string
	}{
		{"url-like input", "forgetbill.com", "Forgetbill", "https://forgetbill.com", "Product by Forgetbill."},
		{"scheme input", "https://acme.com is great", "Acme", "https://acme.com", "Product by Acme."},
		{"empty input", "", "Acme", "https://acme.com", "Product by Acme."},
		{"empty input no host", "   ", "Acme", "", "Acme."},
		{
			"name prefix and fillers",
			"PostHog is the all-in-one platform for product analytics. Try it free.",
			"PostHog", "https://posthog.com",
			"All-in-one platform for product analytics.",
		},
		{
			"redundant lead",
			"We help teams ship faster with automated testing and reviews",
			"Acme", "https://acme.com",
			"Teams ship faster with automated testing and reviews.",
		},
		{
			"trailing ellipsis",
			"The easiest way to manage invoices and get paid…",
			"Billy", "https://billy.io",
			"Easiest way to manage invoices and get paid.",
		},
		{
			"dangling word",
			"Analytics for product teams of all",
			"Acme", "https://acme.com",
			"Analytics for product teams of.",
		},
		{"too short", "Too short", "Acme", "https://acme.com", "Product by Acme."},
		{"name prefix with separator", "Acme: Invoicing for freelancers", "Acme", "https://acme.com", "Invoicing for freelancers."},
		{"name prefix needs word boundary", "Acmeware runs your back office", "Acme", "https://acme.com", "Acmeware runs your back office."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tn.Normalize(tt.raw, tt.tag, tt.url))
		})
	}
}

func TestTaglineNormalizer_Shortens(t *testing.T) {
	tn := NewTaglineNormalizer(nil)
	raw := "Build beautiful internal tools with drag and drop components and connect them to any database or API"
	got := tn.Normalize(raw, "Retool", "https://retool.com")

	assert.LessOrEqual(t, RuneLen(got), 70)
	assert.True(t, strings.HasSuffix(got, "."))
	assert.True(t, strings.HasPrefix(got, "Build beautiful internal tools"))
	assert.NotContains(t, got, "  ")
}

func TestTaglineNormalizer_Properties(t *testing.T) {
	tn := NewTaglineNormalizer(nil)
	inputs := []string{
		"PostHog is the all-in-one platform for product analytics. Try it free.",
		"We help teams ship faster with automated testing and reviews",
		"The easiest way to manage invoices and get paid…",
		"Analytics for product teams of all",
		"Build beautiful internal tools with drag and drop components and connect them to any database or API",
		"Supercalifragilisticexpialidociousextraordinarilylongsinglewordthatneverendsatallokay",
		"for the a",
		"forgetbill.com",
		"Ship!!!",
		"Great product, loved by teams,",
		"x",
		"Acme – Acme is the connected workspace for your team",
		"Acme: Acme - acme rockets for everyone",
	}
	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			got := tn.Normalize(raw, "Acme", "https://acme.com")
			assert.NotEmpty(t, got)
			assert.LessOrEqual(t, RuneLen(got), 70)
			assert.True(t, strings.HasSuffix(got, "."), "got %q", got)

			again := tn.Normalize(got, "Acme", "https://acme.com")
			assert.Equal(t, got, again, "normalizing its own output must be stable")
		})
	}
}

func TestTaglineNormalizer_RepeatedName(t *testing.T) {
	tn := NewTaglineNormalizer(nil)
	got := tn.Normalize("Notion – Notion is the connected workspace for your team", "Notion", "https://notion.so")

	assert.False(t, strings.HasPrefix(got, "Notion"), "got %q", got)
	assert.Contains(t, got, "onnected workspace for your team")
	assert.Equal(t, got, tn.Normalize(got, "Notion", "https://notion.so"))
}

func TestDefaultTagline(t *testing.T) {
	assert.Equal(t, "Product by Forgetbill.", DefaultTagline("Forgetbill", "https://forgetbill.com"))
	assert.Equal(t, "Acme.", DefaultTagline("Acme", "::bad"))
	assert.Equal(t, "Product.", DefaultTagline("", ""))

	long := DefaultTagline("", "https://"+strings.Repeat("a", 80)+".com")
	assert.Equal(t, 70, RuneLen(long))
	assert.True(t, strings.HasSuffix(long, "."))
}

func TestVocabulary_LooksLikeURL(t *testing.T) {
	v := DefaultVocabulary()
	assert.True(t, v.LooksLikeURL("https://acme.com"))
	assert.True(t, v.LooksLikeURL("www.acme"))
	assert.True(t, v.LooksLikeURL("acme.io"))
	assert.True(t, v.LooksLikeURL("acme.io/pricing and more"))
	assert.False(t, v.LooksLikeURL("Acme builds things"))
	assert.False(t, v.LooksLikeURL("acme.company rocks"))
}
