// Package extractor is the single-URL entry point: fetch a page, collect
// candidates, normalize its text and pick a logo.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/use-agent/brandseed/collector"
	"github.com/use-agent/brandseed/engine"
	"github.com/use-agent/brandseed/logo"
	"github.com/use-agent/brandseed/metrics"
	"github.com/use-agent/brandseed/models"
	"github.com/use-agent/brandseed/normalize"
)

// Options configures an Extractor. Zero values fall back to defaults.
type Options struct {
	Vocabulary    *normalize.Vocabulary
	ClassifyLimit int
	Metrics       *metrics.Metrics
}

// Extractor derives ExtractionResults from live pages.
type Extractor struct {
	fetcher   engine.Fetcher
	collector *collector.Collector
	names     *normalize.NameNormalizer
	taglines  *normalize.TaglineNormalizer
	ranker    *logo.Ranker
	metrics   *metrics.Metrics
}

// New creates an Extractor that does all network access through fetcher.
func New(fetcher engine.Fetcher, opts Options) *Extractor {
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = normalize.DefaultVocabulary()
	}
	return &Extractor{
		fetcher:   fetcher,
		collector: collector.New(fetcher),
		names:     normalize.NewNameNormalizer(vocab),
		taglines:  normalize.NewTaglineNormalizer(vocab),
		ranker:    logo.NewRanker(logo.NewClassifier(fetcher, opts.Metrics), opts.ClassifyLimit),
		metrics:   opts.Metrics,
	}
}

// Extract fetches rawURL and returns its brand identity. maxWords <= 0
// means normalize.DefaultMaxWords. Errors are *models.ExtractError.
func (e *Extractor) Extract(ctx context.Context, rawURL string, maxWords int) (*models.ExtractionResult, error) {
	start := time.Now()
	result, err := e.extract(ctx, rawURL, maxWords)
	outcome := "success"
	if err != nil {
		outcome = models.AsExtractError(err).Kind()
	}
	e.metrics.RecordExtraction(outcome, time.Since(start))
	return result, err
}

func (e *Extractor) extract(ctx context.Context, rawURL string, maxWords int) (*models.ExtractionResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, models.NewExtractError(models.ErrCodeInvalidInput, "url must be an absolute http(s) URL", err)
	}

	fetched, err := e.fetcher.FetchPage(ctx, rawURL)
	if err != nil {
		return nil, classifyFetchError(err)
	}
	if !fetched.OK {
		return nil, statusError(fetched.StatusCode)
	}

	pageURL := fetched.FinalURL
	if pageURL == "" {
		pageURL = rawURL
	}
	page, err := e.collector.Collect(ctx, fetched.HTML, pageURL)
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeUpstream, "page could not be parsed", err)
	}

	name := e.names.Normalize(page.NameSource(), rawURL, maxWords)
	tagline := e.taglines.Normalize(page.TaglineSource(), name, rawURL)

	ranked := e.ranker.Rank(ctx, page.Candidates)
	var logoURL string
	if len(ranked) > 0 {
		logoURL = ranked[0].URL
	}

	slog.Debug("extracted brand",
		"url", rawURL,
		"name", name,
		"candidates", len(ranked),
		"logo", logoURL,
	)

	return &models.ExtractionResult{
		SourceURL:      rawURL,
		Name:           name,
		Tagline:        tagline,
		Description:    page.LongDescription,
		LogoURL:        logoURL,
		ScreenshotURLs: page.Screenshots(logoURL),
		Candidates:     ranked,
	}, nil
}

// classifyFetchError maps a transport failure to the forbidden / timeout /
// unreachable taxonomy.
func classifyFetchError(err error) *models.ExtractError {
	var netErr net.Error
	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return models.NewExtractError(models.ErrCodeTimeout, "page fetch timed out", err)
	case errors.As(err, &dnsErr), errors.As(err, &opErr):
		return models.NewExtractError(models.ErrCodeUnreachable, "site is unreachable", err)
	default:
		return models.NewExtractError(models.ErrCodeUpstream, "page fetch failed", err)
	}
}

func statusError(status int) *models.ExtractError {
	switch status {
	case http.StatusForbidden:
		return models.NewExtractError(models.ErrCodeForbidden, "site refused the request (HTTP 403)", nil)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return models.NewExtractError(models.ErrCodeTimeout, fmt.Sprintf("site timed out (HTTP %d)", status), nil)
	default:
		return models.NewExtractError(models.ErrCodeUpstream, fmt.Sprintf("site returned HTTP %d", status), nil)
	}
}
