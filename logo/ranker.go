package logo

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/use-agent/brandseed/models"
)

// DefaultClassifyLimit bounds how many SVG candidates are fetched per page.
const DefaultClassifyLimit = 5

// TextClassifier decides whether an SVG URL is text drawn as graphics.
type TextClassifier interface {
	IsTextBased(ctx context.Context, svgURL string) bool
}

// Ranker orders logo candidates and picks one.
type Ranker struct {
	classifier TextClassifier
	limit      int
}

// NewRanker creates a Ranker that classifies at most limit SVG candidates
// (DefaultClassifyLimit when limit <= 0).
func NewRanker(classifier TextClassifier, limit int) *Ranker {
	if limit <= 0 {
		limit = DefaultClassifyLimit
	}
	return &Ranker{classifier: classifier, limit: limit}
}

// Rank sorts candidates by priority, classifies the top SVGs concurrently
// and moves text-based ones behind every other candidate. Sorting is stable
// throughout, so equal candidates keep discovery order.
func (r *Ranker) Rank(ctx context.Context, candidates []models.LogoCandidate) []models.ClassifiedCandidate {
	ranked := make([]models.ClassifiedCandidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = models.ClassifiedCandidate{LogoCandidate: c}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	var svgIdx []int
	for i, c := range ranked {
		if len(svgIdx) == r.limit {
			break
		}
		if IsSVG(c.URL) {
			svgIdx = append(svgIdx, i)
		}
	}

	if len(svgIdx) > 0 && r.classifier != nil {
		verdicts := make([]bool, len(svgIdx))
		g, gctx := errgroup.WithContext(ctx)
		for n, idx := range svgIdx {
			g.Go(func() error {
				verdicts[n] = r.classifier.IsTextBased(gctx, ranked[idx].URL)
				return nil
			})
		}
		_ = g.Wait()
		for n, idx := range svgIdx {
			ranked[idx].IsTextBased = verdicts[n]
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return !ranked[i].IsTextBased && ranked[j].IsTextBased
	})
	return ranked
}

// Select returns the best logo URL, or "" when there are no candidates.
func (r *Ranker) Select(ctx context.Context, candidates []models.LogoCandidate) string {
	ranked := r.Rank(ctx, candidates)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].URL
}
