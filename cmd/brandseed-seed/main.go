// Command brandseed-seed extracts and stores products for a list of URLs.
//
// Usage:
//
//	brandseed-seed [-categories ai,devtools] [-max-words 2] [-file urls.txt] [url ...]
//
// URLs are read from the arguments, then from -file (one per line, "#"
// comments allowed). Results are printed as JSON, one per line.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/use-agent/brandseed/app"
	"github.com/use-agent/brandseed/config"
)

func main() {
	cfg := config.Load()

	categories := flag.String("categories", "", "comma-separated category slugs linked to every product")
	maxWords := flag.Int("max-words", cfg.Extract.DefaultMaxWords, "maximum words in a product name")
	file := flag.String("file", "", "file with one URL per line")
	flag.Parse()

	app.InitLogger(cfg.Log)

	urls := flag.Args()
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", *file, err)
			os.Exit(2)
		}
		more, err := readURLs(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", *file, err)
			os.Exit(2)
		}
		urls = append(urls, more...)
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "no URLs given")
		flag.Usage()
		os.Exit(2)
	}

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

	results := sd.SeedMany(ctx, urls, splitList(*categories), *maxWords)

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, r := range results {
		_ = enc.Encode(r)
		if !r.Success {
			failed++
		}
	}
	if failed == len(results) {
		os.Exit(1)
	}
}

// readURLs returns the non-blank, non-comment lines of r.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
