package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/brandseed/cache"
	"github.com/use-agent/brandseed/models"
)

// BrandExtractor derives the brand identity of one product URL.
type BrandExtractor interface {
	Extract(ctx context.Context, url string, maxWords int) (*models.ExtractionResult, error)
}

// Extract returns a handler for POST /api/v1/extract.
//
// A request with max_age > 0 may be served from cc; fresh results are
// stored back under the same key.
func Extract(ex BrandExtractor, cc *cache.Cache, defaultMaxWords int) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		req.Defaults(defaultMaxWords)

		maxAge := time.Duration(req.MaxAge) * time.Millisecond
		key := cache.Key(req.URL, req.MaxWords)
		if cc != nil && maxAge > 0 {
			if cached, hit := cc.Get(key, maxAge); hit {
				c.JSON(http.StatusOK, models.ExtractResponse{
					Success:     true,
					Result:      cached,
					CacheStatus: "hit",
					TotalMs:     time.Since(start).Milliseconds(),
				})
				return
			}
		}

		res, err := ex.Extract(c.Request.Context(), req.URL, req.MaxWords)
		if err != nil {
			respondError(c, err)
			return
		}

		resp := models.ExtractResponse{
			Success: true,
			Result:  res,
			TotalMs: time.Since(start).Milliseconds(),
		}
		if cc != nil && maxAge > 0 {
			cc.Set(key, res)
			resp.CacheStatus = "miss"
		}
		c.JSON(http.StatusOK, resp)
	}
}
