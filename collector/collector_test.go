package collector

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/brandseed/models"
)

type fakeProber struct {
	hits  map[string]bool
	calls []string
}

func (f *fakeProber) Probe(_ context.Context, url string) bool {
	f.calls = append(f.calls, url)
	return f.hits[url]
}

const acmeHTML = `<!doctype html>
<html><head>
<title>Acme - Home</title>
<meta name="description" content="Acme builds rockets for everyone.">
<meta property="og:title" content="Acme Rockets">
<meta property="og:description" content="The longer og description of Acme rockets for everyone on earth.">
<meta property="og:image" content="/og/card.png">
<meta property="og:image" content="https://cdn.acme.com/shots/screenshot-1.png">
<link rel="icon" href="/favicon.svg">
<link rel="apple-touch-icon" href="/apple-touch-icon.png">
<link rel="icon" sizes="192x192" href="/icon-192.png">
<link rel="stylesheet" href="/style.css">
</head><body><p>Hello</p></body></html>`

func TestCollector_Collect(t *testing.T) {
	prober := &fakeProber{hits: map[string]bool{
		"https://acme.com/logo.svg":      true,
		"https://acme.com/logo.png":      true,
		"https://acme.com/acme-logo.png": true,
	}}
	c := New(prober)

	page, err := c.Collect(context.Background(), acmeHTML, "https://acme.com/")
	require.NoError(t, err)

	assert.Equal(t, "Acme - Home", page.Title)
	assert.Equal(t, "Acme - Home", page.NameSource())
	assert.Equal(t, "Acme builds rockets for everyone.", page.TaglineSource())
	assert.Equal(t, "Acme Rockets", page.OGTitle)
	assert.Equal(t, page.OGDescription, page.LongDescription)

	assert.Equal(t, []models.LogoCandidate{
		{URL: "https://acme.com/favicon.svg", Priority: 10},
		{URL: "https://acme.com/apple-touch-icon.png", Priority: 10},
		{URL: "https://acme.com/icon-192.png", Priority: 7},
		{URL: "https://acme.com/og/card.png", Priority: 4},
		{URL: "https://acme.com/favicon.svg", Priority: 7},
		{URL: "https://acme.com/icon-192.png", Priority: 3},
		{URL: "https://acme.com/logo.svg", Priority: 9},
		{URL: "https://acme.com/acme-logo.png", Priority: 7},
	}, page.Candidates)

	assert.Equal(t, []string{
		"https://acme.com/apple-touch-icon.png",
		"https://acme.com/logo.svg",
		"https://acme.com/acme-logo.svg",
		"https://acme.com/acme-logo.webp",
		"https://acme.com/acme-logo.png",
	}, prober.calls, "probing stops at the first hit in each group")

	assert.Equal(t, []string{
		"https://acme.com/og/card.png",
		"https://cdn.acme.com/shots/screenshot-1.png",
	}, page.Screenshots("https://acme.com/favicon.svg"))
}

func TestCollector_NoProber(t *testing.T) {
	page, err := New(nil).Collect(context.Background(), `<html><head><meta property="og:title" content="Only OG"></head></html>`, "https://x.io")
	require.NoError(t, err)
	assert.Empty(t, page.Candidates)
	assert.Equal(t, "Only OG", page.NameSource())
	assert.Equal(t, "", page.TaglineSource())
}

func TestCollectCandidates_Tiers(t *testing.T) {
	const (
		svg  = "https://acme.com/brand/mark.svg"
		webp = "https://acme.com/brand/mark.webp"
		png  = "https://acme.com/brand/mark.png"
	)
	tests := []struct {
		name  string
		links []linkTag
		og    []string
		want  []models.LogoCandidate
	}{
		{
			name:  "icon svg",
			links: []linkTag{{rel: "icon", href: svg}},
			want:  []models.LogoCandidate{{URL: svg, Priority: 10}, {URL: svg, Priority: 7}},
		},
		{
			name:  "icon webp",
			links: []linkTag{{rel: "icon", href: webp}},
			want:  []models.LogoCandidate{{URL: webp, Priority: 9}, {URL: webp, Priority: 7}},
		},
		{
			name:  "icon png",
			links: []linkTag{{rel: "shortcut icon", href: png}},
			want:  []models.LogoCandidate{{URL: png, Priority: 3}},
		},
		{
			name:  "apple touch icon svg",
			links: []linkTag{{rel: "apple-touch-icon", href: svg}},
			want:  []models.LogoCandidate{{URL: svg, Priority: 10}, {URL: svg, Priority: 11}},
		},
		{
			name:  "apple touch icon webp",
			links: []linkTag{{rel: "apple-touch-icon", href: webp}},
			want:  []models.LogoCandidate{{URL: webp, Priority: 9}, {URL: webp, Priority: 11}},
		},
		{
			name:  "apple touch icon png",
			links: []linkTag{{rel: "apple-touch-icon", href: png}},
			want:  []models.LogoCandidate{{URL: png, Priority: 10}},
		},
		{
			name:  "sized icon",
			links: []linkTag{{rel: "icon", href: png, sizes: "512x512"}},
			want:  []models.LogoCandidate{{URL: png, Priority: 8}, {URL: png, Priority: 3}},
		},
		{
			name: "og image vector",
			og:   []string{"https://acme.com/og/brand.svg"},
			want: []models.LogoCandidate{{URL: "https://acme.com/og/brand.svg", Priority: 8}},
		},
		{
			name: "og image raster",
			og:   []string{"https://acme.com/og/card.png"},
			want: []models.LogoCandidate{{URL: "https://acme.com/og/card.png", Priority: 4}},
		},
		{
			name: "og image skip word",
			og:   []string{"https://acme.com/og/hero.svg"},
		},
		{
			name:  "unrelated rel",
			links: []linkTag{{rel: "stylesheet", href: "https://acme.com/site.css"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectCandidates(tt.links, tt.og))
		})
	}
}

func TestCollector_ConventionalPaths(t *testing.T) {
	base, err := url.Parse("https://acme.com/pricing")
	require.NoError(t, err)

	tests := []struct {
		name string
		hits []string
		want []models.LogoCandidate
	}{
		{
			name: "apple touch icon",
			hits: []string{"https://acme.com/apple-touch-icon.png", "https://acme.com/logo.svg"},
			want: []models.LogoCandidate{{URL: "https://acme.com/apple-touch-icon.png", Priority: 11}},
		},
		{
			name: "vector logo",
			hits: []string{"https://acme.com/logo.webp"},
			want: []models.LogoCandidate{{URL: "https://acme.com/logo.webp", Priority: 9}},
		},
		{
			name: "vector favicon",
			hits: []string{"https://acme.com/favicon.svg"},
			want: []models.LogoCandidate{{URL: "https://acme.com/favicon.svg", Priority: 9}},
		},
		{
			name: "raster logo",
			hits: []string{"https://acme.com/logo.png"},
			want: []models.LogoCandidate{{URL: "https://acme.com/logo.png", Priority: 6}},
		},
		{
			name: "named svg",
			hits: []string{"https://acme.com/acme-logo.svg"},
			want: []models.LogoCandidate{{URL: "https://acme.com/acme-logo.svg", Priority: 9}},
		},
		{
			name: "named webp",
			hits: []string{"https://acme.com/acme-logo.webp"},
			want: []models.LogoCandidate{{URL: "https://acme.com/acme-logo.webp", Priority: 9}},
		},
		{
			name: "named png",
			hits: []string{"https://acme.com/acme-logo.png"},
			want: []models.LogoCandidate{{URL: "https://acme.com/acme-logo.png", Priority: 7}},
		},
		{
			name: "both groups",
			hits: []string{"https://acme.com/logo.png", "https://acme.com/acme-logo.svg"},
			want: []models.LogoCandidate{
				{URL: "https://acme.com/logo.png", Priority: 6},
				{URL: "https://acme.com/acme-logo.svg", Priority: 9},
			},
		},
		{
			name: "nothing found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make(map[string]bool, len(tt.hits))
			for _, h := range tt.hits {
				hits[h] = true
			}
			got := New(&fakeProber{hits: hits}).probeCandidates(context.Background(), base)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizedPriority(t *testing.T) {
	assert.Equal(t, 8, sizedPriority("512x512", "/a.png"))
	assert.Equal(t, 9, sizedPriority("256x256", "/a.svg"))
	assert.Equal(t, 7, sizedPriority("180x180", "/a.png"))
	assert.Equal(t, 6, sizedPriority("any", "/a.webp"))
	assert.Equal(t, 5, sizedPriority("32x32", "/a.png"))
}

func TestPage_ScreenshotsLimit(t *testing.T) {
	p := &Page{OGImages: []string{"a", "logo", "b", "a", "c", "d", "e"}}
	assert.Equal(t, []string{"a", "b", "c", "d"}, p.Screenshots("logo"))
	assert.NotNil(t, (&Page{}).Screenshots(""))
}

func TestMarkdownLead(t *testing.T) {
	md := "# Heading\n\n![hero](/x.png)\n\nAcme makes **rockets** with [love](https://acme.com).\n\n- list item\n\nSecond paragraph."
	assert.Equal(t, "Acme makes rockets with love. Second paragraph.", markdownLead(md))
}

func TestCutWords(t *testing.T) {
	s := strings.Repeat("word ", 300)
	got := cutWords(s, 800)
	assert.LessOrEqual(t, len([]rune(got)), 800)
	assert.True(t, strings.HasSuffix(got, "word"))
	assert.Equal(t, "short", cutWords("short", 800))
}
