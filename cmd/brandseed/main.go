package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/brandseed/api"
	"github.com/use-agent/brandseed/app"
	"github.com/use-agent/brandseed/cache"
	"github.com/use-agent/brandseed/config"
	"github.com/use-agent/brandseed/metrics"
	"github.com/use-agent/brandseed/scheduler"
	"github.com/use-agent/brandseed/seeder"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	app.InitLogger(cfg.Log)
	slog.Info("brandseed starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"seeding", cfg.Seed.OwnerID != "",
	)

	// ── 3. Assemble extraction and seeding stack ────────────────────
	m := metrics.New()
	a, err := app.New(cfg, m)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// ── 4. Scheduled refresh sweeps ─────────────────────────────────
	if cfg.Seed.RefreshSchedule != "" {
		sd, err := a.RequireSeeder()
		if err != nil {
			slog.Error("refresh schedule needs seeding", "error", err)
			os.Exit(1)
		}
		sched, err := scheduler.New(cfg.Seed.RefreshSchedule, refreshJob(sd, cfg.Extract.DefaultMaxWords))
		if err != nil {
			slog.Error("failed to schedule refresh", "error", err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		slog.Info("refresh sweeps scheduled", "schedule", cfg.Seed.RefreshSchedule)
	}

	// ── 5. Setup router ─────────────────────────────────────────────
	deps := api.Deps{
		Extractor: a.Extractor,
		Validator: a.Validator,
		Cache:     cache.New(cfg.Cache.MaxEntries),
		Metrics:   m,
	}
	if a.Seeder != nil {
		deps.Seeder = a.Seeder
	}
	router := api.NewRouter(deps, cfg, time.Now())

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("brandseed stopped")
}

// refreshJob returns the scheduled sweep: a non-forced refresh of every record.
func refreshJob(sd *seeder.Seeder, maxWords int) func(ctx context.Context) {
	return func(ctx context.Context) {
		start := time.Now()
		results, err := sd.Refresh(ctx, seeder.RefreshOptions{MaxWords: maxWords})
		if err != nil {
			slog.Error("refresh sweep failed", "error", err)
			return
		}
		refreshed, failed := 0, 0
		for _, r := range results {
			if r.Refreshed {
				refreshed++
			}
			if r.Error != "" {
				failed++
			}
		}
		slog.Info("refresh sweep finished",
			"products", len(results),
			"refreshed", refreshed,
			"failed", failed,
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	}
}
