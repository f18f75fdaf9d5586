package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/brandseed/api/handler"
	"github.com/use-agent/brandseed/api/middleware"
	"github.com/use-agent/brandseed/cache"
	"github.com/use-agent/brandseed/config"
	"github.com/use-agent/brandseed/metrics"
	"github.com/use-agent/brandseed/quality"
)

// Deps are the collaborators the router exposes over HTTP.
// Seeder may be nil, in which case the seed endpoints answer 503.
type Deps struct {
	Extractor handler.BrandExtractor
	Seeder    handler.ItemSeeder
	Validator *quality.Validator
	Cache     *cache.Cache
	Metrics   *metrics.Metrics
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and metrics are outside auth so monitoring probes always work.
func NewRouter(deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if cfg.Seed.StorageDir != "" {
		r.Static("/assets", cfg.Seed.StorageDir)
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(deps.Cache, cfg.Cache.MaxEntries, deps.Seeder != nil, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/extract", handler.Extract(deps.Extractor, deps.Cache, cfg.Extract.DefaultMaxWords))
	protected.POST("/validate", handler.Validate(deps.Validator))

	jobs := handler.NewSeedJobs()
	protected.POST("/seed", handler.PostSeed(deps.Seeder, jobs, cfg.Extract.DefaultMaxWords, cfg.Seed.WebhookSecret))
	protected.GET("/seed/:id", handler.GetSeed(jobs))

	return r
}
