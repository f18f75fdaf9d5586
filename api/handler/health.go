package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/brandseed/cache"
	"github.com/use-agent/brandseed/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when the response cache is at capacity.
func Health(cc *cache.Cache, cacheMax int, seeding bool, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := 0
		if cc != nil {
			entries = cc.Len()
		}

		status := "healthy"
		if cacheMax > 0 && entries >= cacheMax {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			Version:      Version,
			Seeding:      seeding,
			CacheEntries: entries,
		})
	}
}
