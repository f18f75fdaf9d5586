// Package collector scans a product page for brand text and logo candidates.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dyatlov/go-opengraph/opengraph"

	"github.com/use-agent/brandseed/logo"
	"github.com/use-agent/brandseed/models"
	"github.com/use-agent/brandseed/normalize"
)

// Prober reports whether an asset exists. Failures count as "no".
type Prober interface {
	Probe(ctx context.Context, url string) bool
}

// Page is everything the collector found on one document.
type Page struct {
	URL           string
	Title         string
	OGTitle       string
	Description   string
	OGDescription string
	OGImages      []string

	// LongDescription is the derived description, at most 800 characters.
	LongDescription string

	// Candidates are in discovery order.
	Candidates []models.LogoCandidate
}

// NameSource is the raw text the name is derived from.
func (p *Page) NameSource() string {
	if p.Title != "" {
		return p.Title
	}
	return p.OGTitle
}

// TaglineSource is the raw text the tagline is derived from.
func (p *Page) TaglineSource() string {
	if p.Description != "" {
		return p.Description
	}
	return p.OGDescription
}

// Screenshots returns og:image URLs other than logoURL, deduplicated, in
// order of appearance, at most four.
func (p *Page) Screenshots(logoURL string) []string {
	out := []string{}
	seen := map[string]bool{logoURL: true}
	for _, u := range p.OGImages {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == models.MaxScreenshots {
			break
		}
	}
	return out
}

var (
	linkSel  = cascadia.MustCompile("link[rel][href]")
	metaSel  = cascadia.MustCompile("meta[name][content]")
	titleSel = cascadia.MustCompile("title")
)

var (
	conventionalPaths = []string{
		"/apple-touch-icon.png",
		"/logo.svg",
		"/logo.webp",
		"/favicon.svg",
		"/favicon.webp",
		"/logo.png",
	}
	domainLogoExts = []string{".svg", ".webp", ".png"}

	ogImageSkipWords = []string{
		"screenshot", "preview", "image", "photo", "capture",
		"thumbnail", "banner", "hero", "header",
	}
)

// Collector extracts Pages from HTML.
type Collector struct {
	prober   Prober
	markdown *converter.Converter
}

// New creates a Collector. prober may be nil, which disables path probing.
func New(prober Prober) *Collector {
	return &Collector{prober: prober, markdown: newMarkdownConverter()}
}

type linkTag struct {
	rel   string
	href  string
	sizes string
}

// Collect parses rawHTML served from pageURL (the post-redirect URL).
// Only a document that cannot be parsed at all is an error; missing assets
// never are.
func (c *Collector) Collect(ctx context.Context, rawHTML, pageURL string) (*Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("collector: parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("collector: parse html: %w", err)
	}

	page := &Page{URL: pageURL}
	page.Title = normalize.CollapseWhitespace(doc.FindMatcher(titleSel).First().Text())
	doc.FindMatcher(metaSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if name, _ := s.Attr("name"); strings.EqualFold(strings.TrimSpace(name), "description") {
			content, _ := s.Attr("content")
			page.Description = normalize.CollapseWhitespace(content)
			return false
		}
		return true
	})

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(rawHTML)); err != nil {
		slog.Debug("opengraph parse failed", "url", pageURL, "error", err)
	} else {
		page.OGTitle = normalize.CollapseWhitespace(og.Title)
		page.OGDescription = normalize.CollapseWhitespace(og.Description)
		for _, img := range og.Images {
			if img == nil {
				continue
			}
			if u, ok := resolve(base, img.URL); ok {
				page.OGImages = append(page.OGImages, u)
			}
		}
	}

	var links []linkTag
	doc.FindMatcher(linkSel).Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		href, _ := s.Attr("href")
		u, ok := resolve(base, href)
		if !ok {
			return
		}
		sizes, _ := s.Attr("sizes")
		links = append(links, linkTag{
			rel:   strings.ToLower(strings.Join(strings.Fields(rel), " ")),
			href:  u,
			sizes: strings.ToLower(strings.TrimSpace(sizes)),
		})
	})

	page.Candidates = collectCandidates(links, page.OGImages)
	page.Candidates = append(page.Candidates, c.probeCandidates(ctx, base)...)
	page.LongDescription = c.describe(page, rawHTML)
	return page, nil
}

// collectCandidates applies the markup passes, in tier order.
func collectCandidates(links []linkTag, ogImages []string) []models.LogoCandidate {
	var out []models.LogoCandidate
	add := func(u string, p int) {
		out = append(out, models.LogoCandidate{URL: u, Priority: p})
	}
	logoish := func(rel string) bool {
		return strings.Contains(rel, "logo") || strings.Contains(rel, "icon")
	}

	for _, l := range links {
		if logoish(l.rel) && logo.IsSVG(l.href) {
			add(l.href, 10)
		}
	}
	for _, l := range links {
		if logoish(l.rel) && logo.Ext(l.href) == ".webp" {
			add(l.href, 9)
		}
	}
	for _, l := range links {
		if strings.Contains(l.rel, "apple-touch-icon") {
			p := 10
			if logo.IsVector(l.href) {
				p = 11
			}
			add(l.href, p)
		}
	}
	for _, l := range links {
		if l.sizes != "" && logoish(l.rel) {
			add(l.href, sizedPriority(l.sizes, l.href))
		}
	}
	for _, u := range ogImages {
		if containsAny(strings.ToLower(u), ogImageSkipWords) {
			continue
		}
		p := 4
		if logo.IsVector(u) {
			p = 8
		}
		add(u, p)
	}
	for _, l := range links {
		if l.rel == "icon" || l.rel == "shortcut icon" {
			p := 3
			if logo.IsVector(l.href) {
				p = 7
			}
			add(l.href, p)
		}
	}
	return out
}

func sizedPriority(sizes, u string) int {
	p := 5
	switch {
	case strings.Contains(sizes, "512"), strings.Contains(sizes, "256"):
		p += 3
	case strings.Contains(sizes, "192"), strings.Contains(sizes, "180"):
		p += 2
	}
	if logo.IsVector(u) {
		p++
	}
	return p
}

// probe is one guessed asset location. ok is false when the asset is absent.
type probe func(ctx context.Context) (models.LogoCandidate, bool)

func (c *Collector) probeAt(u string, priority int) probe {
	return func(ctx context.Context) (models.LogoCandidate, bool) {
		if !c.prober.Probe(ctx, u) {
			return models.LogoCandidate{}, false
		}
		return models.LogoCandidate{URL: u, Priority: priority}, true
	}
}

// firstHit runs probes in order and stops at the first success.
func firstHit(ctx context.Context, probes []probe) (models.LogoCandidate, bool) {
	for _, p := range probes {
		if ctx.Err() != nil {
			return models.LogoCandidate{}, false
		}
		if cand, ok := p(ctx); ok {
			return cand, true
		}
	}
	return models.LogoCandidate{}, false
}

func (c *Collector) probeCandidates(ctx context.Context, base *url.URL) []models.LogoCandidate {
	if c.prober == nil || base.Host == "" {
		return nil
	}
	origin := base.Scheme + "://" + base.Host

	var out []models.LogoCandidate
	conventional := make([]probe, 0, len(conventionalPaths))
	for _, p := range conventionalPaths {
		priority := 6
		switch {
		case p == "/apple-touch-icon.png":
			priority = 11
		case logo.IsVector(p):
			priority = 9
		}
		conventional = append(conventional, c.probeAt(origin+p, priority))
	}
	if cand, ok := firstHit(ctx, conventional); ok {
		out = append(out, cand)
	}

	if label, ok := normalize.HostLabel(base.String()); ok {
		named := make([]probe, 0, len(domainLogoExts))
		for _, ext := range domainLogoExts {
			priority := 7
			if ext != ".png" {
				priority = 9
			}
			named = append(named, c.probeAt(origin+"/"+label+"-logo"+ext, priority))
		}
		if cand, ok := firstHit(ctx, named); ok {
			out = append(out, cand)
		}
	}
	return out
}

// resolve makes href absolute against base. Only http(s) results are kept.
func resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	u, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
