// Command brandseed-refresh re-extracts stored products whose name, tagline
// or logo no longer pass the quality checks.
//
// Usage:
//
//	brandseed-refresh [-url https://acme.com] [-force] [-max-words 2]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/use-agent/brandseed/app"
	"github.com/use-agent/brandseed/config"
	"github.com/use-agent/brandseed/seeder"
)

func main() {
	cfg := config.Load()

	url := flag.String("url", "", "refresh only the product with this URL")
	force := flag.Bool("force", false, "re-extract even products that pass every check")
	maxWords := flag.Int("max-words", cfg.Extract.DefaultMaxWords, "maximum words in a product name")
	flag.Parse()

	app.InitLogger(cfg.Log)

	a, err := app.New(cfg, nil)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	sd, err := a.RequireSeeder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := sd.Refresh(ctx, seeder.RefreshOptions{
		URL:      *url,
		Force:    *force,
		MaxWords: *maxWords,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	refreshed := 0
	for _, r := range results {
		_ = enc.Encode(r)
		if r.Refreshed {
			refreshed++
		}
	}
	slog.Info("refresh finished", "products", len(results), "refreshed", refreshed)
}
