// Package seeder creates directory records from product URLs and keeps
// existing records fresh.
package seeder

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/use-agent/brandseed/logo"
	"github.com/use-agent/brandseed/metrics"
	"github.com/use-agent/brandseed/models"
	"github.com/use-agent/brandseed/normalize"
	"github.com/use-agent/brandseed/quality"
	"github.com/use-agent/brandseed/storage"
)

// Extractor derives brand data from a URL.
type Extractor interface {
	Extract(ctx context.Context, url string, maxWords int) (*models.ExtractionResult, error)
}

// ProductStore is the persistence collaborator.
type ProductStore interface {
	// FindByURL returns nil, nil when no product has url.
	FindByURL(ctx context.Context, url string) (*models.Product, error)
	CreateProduct(ctx context.Context, res *models.ExtractionResult, ownerID string, categoryIDs []string) (string, error)
	AttachImages(ctx context.Context, productID string, urls []string) error
	ResolveCategories(ctx context.Context, slugs []string) ([]string, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateBrand(ctx context.Context, productID string, res *models.ExtractionResult) error
}

// ObjectStore keeps image copies and returns their public URL.
type ObjectStore interface {
	Store(ctx context.Context, data []byte, key string) (string, error)
}

// AssetFetcher downloads images for mirroring.
type AssetFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Seeder.
type Options struct {
	// OwnerID owns every created product. Required.
	OwnerID string

	// Objects and Assets enable image mirroring; when either is nil the
	// remote URLs are stored as-is.
	Objects ObjectStore
	Assets  AssetFetcher

	Validator *quality.Validator
	Metrics   *metrics.Metrics
}

// Seeder is the batch orchestrator.
type Seeder struct {
	extractor Extractor
	store     ProductStore
	objects   ObjectStore
	assets    AssetFetcher
	validator *quality.Validator
	ownerID   string
	metrics   *metrics.Metrics
}

// New creates a Seeder. A missing owner id is a configuration error.
func New(extractor Extractor, store ProductStore, opts Options) (*Seeder, error) {
	if strings.TrimSpace(opts.OwnerID) == "" {
		return nil, errors.New("seeder: owner id is required")
	}
	if opts.Validator == nil {
		opts.Validator = quality.NewValidator(nil, quality.DefaultLogoRules())
	}
	return &Seeder{
		extractor: extractor,
		store:     store,
		objects:   opts.Objects,
		assets:    opts.Assets,
		validator: opts.Validator,
		ownerID:   opts.OwnerID,
		metrics:   opts.Metrics,
	}, nil
}

// SeedMany seeds urls one at a time, in order. A failure is recorded in
// that URL's result and never stops the batch.
func (s *Seeder) SeedMany(ctx context.Context, urls, categorySlugs []string, maxWords int) []models.BatchItemResult {
	results := make([]models.BatchItemResult, 0, len(urls))
	created := 0
	for _, u := range urls {
		r := s.SeedOne(ctx, u, categorySlugs, maxWords)
		if r.Success {
			created++
		}
		results = append(results, r)
	}
	slog.Info("seed batch completed",
		"total", len(urls),
		"created", created,
		"failed", len(urls)-created,
	)
	return results
}

// SeedOne creates one product from rawURL.
func (s *Seeder) SeedOne(ctx context.Context, rawURL string, categorySlugs []string, maxWords int) models.BatchItemResult {
	rawURL = strings.TrimSpace(rawURL)
	r, err := s.seed(ctx, rawURL, categorySlugs, maxWords)
	s.metrics.RecordSeedItem(err == nil)
	if err != nil {
		ee := models.AsExtractError(err)
		slog.Warn("seed failed", "url", rawURL, "code", ee.Code, "error", err)
		r.URL = rawURL
		r.Success = false
		r.Error = ee.Message
		r.ErrorCode = ee.Code
		return r
	}
	slog.Info("seeded product", "url", rawURL, "product_id", r.ProductID, "name", r.Name)
	return r
}

func (s *Seeder) seed(ctx context.Context, rawURL string, categorySlugs []string, maxWords int) (models.BatchItemResult, error) {
	if !strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		return models.BatchItemResult{}, models.NewExtractError(models.ErrCodeInvalidURL, "url must use https://", nil)
	}

	existing, err := s.store.FindByURL(ctx, rawURL)
	if err != nil {
		return models.BatchItemResult{}, models.NewExtractError(models.ErrCodeInternal, "lookup failed", err)
	}
	if existing != nil {
		return models.BatchItemResult{}, models.NewExtractError(models.ErrCodeDuplicate, "product already exists", nil)
	}

	categoryIDs, err := s.store.ResolveCategories(ctx, categorySlugs)
	if err != nil {
		return models.BatchItemResult{}, models.NewExtractError(models.ErrCodeInternal, "category lookup failed", err)
	}

	res, err := s.extractor.Extract(ctx, rawURL, maxWords)
	if err != nil {
		return models.BatchItemResult{}, err
	}

	record := *res
	if record.LogoURL != "" {
		record.LogoURL = s.mirror(ctx, "logos", rawURL, record.LogoURL)
	}
	screenshots := make([]string, 0, len(record.ScreenshotURLs))
	for _, u := range record.ScreenshotURLs {
		screenshots = append(screenshots, s.mirror(ctx, "screenshots", rawURL, u))
	}
	record.ScreenshotURLs = screenshots

	id, err := s.store.CreateProduct(ctx, &record, s.ownerID, categoryIDs)
	if err != nil {
		return models.BatchItemResult{}, err
	}
	out := models.BatchItemResult{URL: rawURL, Success: true, ProductID: id, Name: record.Name}

	if err := s.store.AttachImages(ctx, id, screenshots); err != nil {
		return out, models.NewExtractError(models.ErrCodeInternal, "product created but screenshots were not saved", err)
	}
	return out, nil
}

// mirror copies assetURL into object storage. Any failure keeps the
// original remote URL.
func (s *Seeder) mirror(ctx context.Context, prefix, productURL, assetURL string) string {
	if s.objects == nil || s.assets == nil {
		return assetURL
	}
	data, err := s.assets.FetchBytes(ctx, assetURL)
	if err != nil {
		slog.Warn("asset download failed, keeping remote url", "url", assetURL, "error", err)
		return assetURL
	}
	label, _ := normalize.HostLabel(productURL)
	stored, err := s.objects.Store(ctx, data, storage.Key(prefix, label, assetURL, logo.Ext(assetURL)))
	if err != nil {
		slog.Warn("asset upload failed, keeping remote url", "url", assetURL, "error", err)
		return assetURL
	}
	return stored
}
