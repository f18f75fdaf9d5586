package engine

import (
	"context"
)

// Fetcher is the network collaborator the extraction engine depends on.
// Implementations apply their own per-call timeouts.
type Fetcher interface {
	// FetchPage retrieves the HTML document at url, following redirects.
	// A non-2xx response is not an error: it is reported via FetchResult.OK
	// and FetchResult.StatusCode. Transport failures are returned as errors.
	FetchPage(ctx context.Context, url string) (*FetchResult, error)

	// Probe reports whether an asset exists at url. It never fails; any
	// error simply means "no".
	Probe(ctx context.Context, url string) bool

	// FetchBytes downloads an asset. Non-2xx responses are errors.
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// FetchResult is the output of a page fetch.
type FetchResult struct {
	HTML        string
	StatusCode  int
	FinalURL    string
	ContentType string
	OK          bool
}
