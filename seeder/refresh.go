package seeder

import (
	"context"
	"log/slog"
	"strings"

	"github.com/use-agent/brandseed/models"
)

// RefreshOptions selects which products a refresh run touches.
type RefreshOptions struct {
	// URL limits the run to one product. Empty means all products.
	URL string
	// Force re-extracts even records that pass every quality check.
	Force    bool
	MaxWords int
}

// Refresh re-extracts stale products in place. Only a failure to load the
// product set is returned as an error; per-product failures are recorded in
// the results.
func (s *Seeder) Refresh(ctx context.Context, opts RefreshOptions) ([]models.RefreshItemResult, error) {
	var products []models.Product
	if u := strings.TrimSpace(opts.URL); u != "" {
		p, err := s.store.FindByURL(ctx, u)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, models.NewExtractError(models.ErrCodeNotFound, "no product with url "+u, nil)
		}
		products = []models.Product{*p}
	} else {
		all, err := s.store.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		products = all
	}

	results := make([]models.RefreshItemResult, 0, len(products))
	refreshed := 0
	for _, p := range products {
		if ctx.Err() != nil {
			break
		}
		r := s.refreshOne(ctx, p, opts)
		if r.Refreshed {
			refreshed++
		}
		results = append(results, r)
	}
	slog.Info("refresh completed", "checked", len(results), "refreshed", refreshed, "force", opts.Force)
	return results, nil
}

func (s *Seeder) refreshOne(ctx context.Context, p models.Product, opts RefreshOptions) models.RefreshItemResult {
	r := models.RefreshItemResult{ProductID: p.ID, URL: p.URL}
	r.Reasons = s.StaleReasons(p)
	if opts.Force {
		r.Reasons = append(r.Reasons, "forced")
	}
	if len(r.Reasons) == 0 {
		return r
	}

	res, err := s.extractor.Extract(ctx, p.URL, opts.MaxWords)
	if err != nil {
		r.Error = models.AsExtractError(err).Error()
		slog.Warn("refresh extraction failed", "url", p.URL, "error", err)
		return r
	}
	if res.LogoURL != "" {
		res.LogoURL = s.mirror(ctx, "logos", p.URL, res.LogoURL)
	}
	if err := s.store.UpdateBrand(ctx, p.ID, res); err != nil {
		r.Error = err.Error()
		return r
	}
	r.Refreshed = true
	return r
}

// StaleReasons lists why a stored product fails the quality checks; empty
// means the record is fine.
func (s *Seeder) StaleReasons(p models.Product) []string {
	var reasons []string
	reasons = append(reasons, s.validator.ValidateName(p.Name).Errors...)
	reasons = append(reasons, s.validator.ValidateTagline(p.Tagline, p.Name).Errors...)
	if s.validator.IsLowQualityLogo(p.LogoURL) {
		reasons = append(reasons, "logo looks low quality")
	}
	return reasons
}
