// Package logo classifies SVG logo candidates and selects the best logo.
package logo

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/use-agent/brandseed/metrics"
)

// BytesFetcher downloads an asset.
type BytesFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

var (
	textTags = map[string]bool{"text": true, "tspan": true}

	// The tokenizer lowercases tag names, so clipPath arrives as clippath.
	graphicTags = map[string]bool{
		"path": true, "circle": true, "rect": true, "ellipse": true,
		"polygon": true, "polyline": true, "g": true, "use": true,
		"image": true, "mask": true, "clippath": true, "pattern": true,
	}
)

// TagCounts is the number of text-rendering and graphic elements in an SVG.
type TagCounts struct {
	Text    int
	Graphic int
}

// CountTags tokenizes an SVG document and counts its element kinds.
// Comments are skipped by the tokenizer.
func CountTags(r io.Reader) TagCounts {
	var c TagCounts
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return c
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case textTags[tag]:
				c.Text++
			case graphicTags[tag]:
				c.Graphic++
			}
		}
	}
}

// TextBased reports whether the counts describe text drawn as an SVG
// rather than a vector mark. With no tags of either kind the answer is no.
func (c TagCounts) TextBased() bool {
	if c.Text > 0 && c.Graphic == 0 {
		return true
	}
	return c.Text > 2*c.Graphic
}

// IsTextSVG is CountTags(data).TextBased().
func IsTextSVG(data []byte) bool {
	return CountTags(bytes.NewReader(data)).TextBased()
}

// Classifier fetches SVG candidates and reports whether they are text-based.
type Classifier struct {
	fetcher BytesFetcher
	metrics *metrics.Metrics
}

// NewClassifier creates a Classifier. m may be nil.
func NewClassifier(fetcher BytesFetcher, m *metrics.Metrics) *Classifier {
	return &Classifier{fetcher: fetcher, metrics: m}
}

// IsTextBased fails open: an asset that cannot be fetched is not text-based.
func (c *Classifier) IsTextBased(ctx context.Context, svgURL string) bool {
	data, err := c.fetcher.FetchBytes(ctx, svgURL)
	if err != nil {
		slog.Debug("svg fetch failed", "url", svgURL, "error", err)
		return false
	}
	verdict := IsTextSVG(data)
	c.metrics.RecordSVGVerdict(verdict)
	return verdict
}

// Ext returns the lowercased extension of the URL's path, e.g. ".svg".
// Query strings and fragments are ignored.
func Ext(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.ToLower(path.Ext(p))
}

// IsSVG reports whether rawURL points at an .svg file.
func IsSVG(rawURL string) bool { return Ext(rawURL) == ".svg" }

// IsVector reports whether rawURL is an .svg or .webp asset, the formats
// that earn a priority bonus.
func IsVector(rawURL string) bool {
	ext := Ext(rawURL)
	return ext == ".svg" || ext == ".webp"
}
