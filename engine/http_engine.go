package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"

	"github.com/use-agent/brandseed/metrics"
)

const (
	browserUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	acceptHTML    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	acceptAsset   = "image/avif,image/webp,image/svg+xml,image/*,*/*;q=0.8"
	maxRedirects  = 10
	defaultPageMB = 10 << 20
	defaultAsset  = 5 << 20
)

// Options configures an HTTPEngine. Zero values fall back to defaults.
type Options struct {
	PageTimeout   time.Duration // default: 30s
	AssetTimeout  time.Duration // default: 10s
	MaxPageBytes  int64         // default: 10 MB
	MaxAssetBytes int64         // default: 5 MB
	Memory        *ProbeMemory  // optional probe memoization
	Metrics       *metrics.Metrics
}

// HTTPEngine fetches pages and assets over plain net/http with a
// Chrome-like TLS fingerprint and browser request headers.
type HTTPEngine struct {
	client *http.Client
	opts   Options
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine creates an HTTPEngine with a Chrome-like TLS fingerprint.
func NewHTTPEngine(opts Options) *HTTPEngine {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 30 * time.Second
	}
	if opts.AssetTimeout <= 0 {
		opts.AssetTimeout = 10 * time.Second
	}
	if opts.MaxPageBytes <= 0 {
		opts.MaxPageBytes = defaultPageMB
	}
	if opts.MaxAssetBytes <= 0 {
		opts.MaxAssetBytes = defaultAsset
	}

	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2:   false,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}
	return &HTTPEngine{
		opts: opts,
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// FetchPage implements Fetcher.
func (e *HTTPEngine) FetchPage(ctx context.Context, url string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.PageTimeout)
	defer cancel()

	req, err := e.newRequest(ctx, http.MethodGet, url, acceptHTML)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http_engine: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.opts.MaxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("http_engine: read body: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		OK:          resp.StatusCode >= 200 && resp.StatusCode < 300,
	}, nil
}

// Probe implements Fetcher. A HEAD request is tried first; servers that
// refuse HEAD get a GET whose body is discarded. A 2xx that serves HTML is
// treated as a soft 404. Only answers backed by an HTTP status are
// remembered; timeouts and transport errors are retried next time.
func (e *HTTPEngine) Probe(ctx context.Context, url string) bool {
	if e.opts.Memory != nil {
		if ok, found := e.opts.Memory.Get(url); found {
			return ok
		}
	}

	ok, definitive := e.probe(ctx, url)
	e.opts.Metrics.RecordProbe(ok)
	if definitive && e.opts.Memory != nil {
		e.opts.Memory.Set(url, ok)
	}
	return ok
}

// probe reports whether url serves an asset, and whether a status was
// received at all.
func (e *HTTPEngine) probe(ctx context.Context, url string) (ok, definitive bool) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.AssetTimeout)
	defer cancel()

	status, ct, err := e.status(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, ct, err = e.status(ctx, http.MethodGet, url)
	}
	if err != nil {
		slog.Debug("probe failed", "url", url, "error", err)
		return false, false
	}
	return status >= 200 && status < 300 && !isHTMLContentType(ct), true
}

func (e *HTTPEngine) status(ctx context.Context, method, url string) (int, string, error) {
	req, err := e.newRequest(ctx, method, url, acceptAsset)
	if err != nil {
		return 0, "", err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, resp.Header.Get("Content-Type"), nil
}

// FetchBytes implements Fetcher.
func (e *HTTPEngine) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.AssetTimeout)
	defer cancel()

	req, err := e.newRequest(ctx, http.MethodGet, url, acceptAsset)
	if err != nil {
		return nil, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http_engine: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http_engine: HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.opts.MaxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("http_engine: read body: %w", err)
	}
	return data, nil
}

func (e *HTTPEngine) newRequest(ctx context.Context, method, url, accept string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http_engine: build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity") // no compression for simplicity
	req.Header.Set("Cache-Control", "no-cache")
	return req, nil
}

// isHTMLContentType returns true if the content-type header looks like HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
