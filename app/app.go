// Package app assembles the extraction and seeding stack from configuration.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/use-agent/brandseed/config"
	"github.com/use-agent/brandseed/engine"
	"github.com/use-agent/brandseed/extractor"
	"github.com/use-agent/brandseed/metrics"
	"github.com/use-agent/brandseed/normalize"
	"github.com/use-agent/brandseed/quality"
	"github.com/use-agent/brandseed/seeder"
	"github.com/use-agent/brandseed/storage"
	"github.com/use-agent/brandseed/store/sqlite"
)

// ErrSeedingDisabled is returned by RequireSeeder when no owner is configured.
var ErrSeedingDisabled = errors.New("seeding is not configured: set BRANDSEED_OWNER_ID")

// App holds the long-lived components shared by the commands.
type App struct {
	Engine    *engine.HTTPEngine
	Extractor *extractor.Extractor
	Validator *quality.Validator
	Metrics   *metrics.Metrics

	// Repo and Seeder are nil when seeding is not configured.
	Repo   *sqlite.Repository
	Seeder *seeder.Seeder

	memory *engine.ProbeMemory
}

// New wires every component from cfg. The database is opened only when an
// owner id is configured.
func New(cfg *config.Config, m *metrics.Metrics) (*App, error) {
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	vocab := normalize.DefaultVocabulary()
	memory := engine.NewProbeMemory(cfg.Fetch.ProbeMemoryTTL)

	eng := engine.NewHTTPEngine(engine.Options{
		PageTimeout:   cfg.Fetch.PageTimeout,
		AssetTimeout:  cfg.Fetch.AssetTimeout,
		MaxPageBytes:  cfg.Fetch.MaxPageBytes,
		MaxAssetBytes: cfg.Fetch.MaxAssetBytes,
		Memory:        memory,
		Metrics:       m,
	})

	a := &App{
		Engine: eng,
		Extractor: extractor.New(eng, extractor.Options{
			Vocabulary:    vocab,
			ClassifyLimit: cfg.Extract.ClassifyLimit,
			Metrics:       m,
		}),
		Validator: quality.NewValidator(vocab, rules),
		Metrics:   m,
		memory:    memory,
	}

	if cfg.Seed.OwnerID == "" {
		slog.Info("seeding disabled: no owner id configured")
		return a, nil
	}

	repo, err := sqlite.New(cfg.Seed.DatabasePath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database %s: %w", cfg.Seed.DatabasePath, err)
	}
	a.Repo = repo

	opts := seeder.Options{
		OwnerID:   cfg.Seed.OwnerID,
		Validator: a.Validator,
		Metrics:   m,
	}
	if cfg.Seed.StorageDir != "" {
		local, err := storage.NewLocal(cfg.Seed.StorageDir, cfg.Seed.StorageBaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open storage %s: %w", cfg.Seed.StorageDir, err)
		}
		opts.Objects = local
		opts.Assets = eng
	}

	sd, err := seeder.New(a.Extractor, repo, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Seeder = sd
	return a, nil
}

// RequireSeeder returns the seeder or ErrSeedingDisabled.
func (a *App) RequireSeeder() (*seeder.Seeder, error) {
	if a.Seeder == nil {
		return nil, ErrSeedingDisabled
	}
	return a.Seeder, nil
}

// Close releases the database and background goroutines.
func (a *App) Close() {
	if a.memory != nil {
		a.memory.Stop()
	}
	if a.Repo != nil {
		if err := a.Repo.Close(); err != nil {
			slog.Warn("close database", "error", err)
		}
	}
}

// InitLogger configures slog based on the LogConfig.
func InitLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
