package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<title>Acme</title>"))
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/blocked", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := NewHTTPEngine(Options{})

	res, err := e.FetchPage(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, srv.URL+"/", res.FinalURL)
	assert.Equal(t, "<title>Acme</title>", res.HTML)

	res, err = e.FetchPage(context.Background(), srv.URL+"/blocked")
	require.NoError(t, err, "non-2xx is reported, not returned")
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestFetchPage_Limits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	e := NewHTTPEngine(Options{MaxPageBytes: 4})
	res, err := e.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "0123", res.HTML)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	e = NewHTTPEngine(Options{PageTimeout: 50 * time.Millisecond})
	_, err = e.FetchPage(context.Background(), slow.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProbe(t *testing.T) {
	var heads atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/logo.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
	})
	mux.HandleFunc("/soft404.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>not found</html>"))
	})
	mux.HandleFunc("/nohead.png", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			heads.Add(1)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "image/png")
	})
	mux.HandleFunc("/missing.png", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := NewHTTPEngine(Options{})
	ctx := context.Background()

	assert.True(t, e.Probe(ctx, srv.URL+"/logo.svg"))
	assert.False(t, e.Probe(ctx, srv.URL+"/soft404.png"))
	assert.True(t, e.Probe(ctx, srv.URL+"/nohead.png"))
	assert.Equal(t, int32(1), heads.Load())
	assert.False(t, e.Probe(ctx, srv.URL+"/missing.png"))
	assert.False(t, e.Probe(ctx, "http://127.0.0.1:1/unreachable.png"))
}

func TestProbe_Memory(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
	}))
	defer srv.Close()

	mem := NewProbeMemory(time.Hour)
	defer mem.Stop()
	e := NewHTTPEngine(Options{Memory: mem})

	assert.True(t, e.Probe(context.Background(), srv.URL+"/a.png"))
	assert.True(t, e.Probe(context.Background(), srv.URL+"/a.png"))
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPEngine_TimeoutNotRemembered(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if hits.Add(1) == 1 {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
			return
		}
		w.Header().Set("Content-Type", "image/png")
	}))
	defer srv.Close()

	mem := NewProbeMemory(time.Hour)
	defer mem.Stop()
	e := NewHTTPEngine(Options{AssetTimeout: 100 * time.Millisecond, Memory: mem})

	assert.False(t, e.Probe(context.Background(), srv.URL+"/slow.png"), "first request times out")
	_, found := mem.Get(srv.URL + "/slow.png")
	assert.False(t, found, "a timeout is not a verdict")
	assert.True(t, e.Probe(context.Background(), srv.URL+"/slow.png"))
	assert.Equal(t, int32(2), hits.Load())

	hits.Store(0)
	assert.False(t, e.Probe(context.Background(), srv.URL+"/missing.png"))
	assert.False(t, e.Probe(context.Background(), srv.URL+"/missing.png"))
	assert.Equal(t, int32(1), hits.Load(), "a 404 is remembered")
}

func TestFetchBytes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/gone.png", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := NewHTTPEngine(Options{})
	data, err := e.FetchBytes(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	_, err = e.FetchBytes(context.Background(), srv.URL+"/gone.png")
	assert.ErrorContains(t, err, "HTTP 410")
}

func TestProbeMemory_Expiry(t *testing.T) {
	mem := NewProbeMemory(10 * time.Millisecond)
	defer mem.Stop()

	mem.Set("u", true)
	ok, found := mem.Get("u")
	assert.True(t, found)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, found = mem.Get("u")
	assert.False(t, found)
}
