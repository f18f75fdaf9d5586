package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func TestExtractBrand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/extract", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-API-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["url"] == "https://down.example" {
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"UPSTREAM_UNREACHABLE","kind":"network","message":"dns"}}`))
			return
		}
		assert.EqualValues(t, 3, body["max_words"])
		_, _ = w.Write([]byte(`{"success":true,"result":{"source_url":"https://acme.com","name":"Acme","tagline":"Invoices made simple.","logo_url":"https://acme.com/logo.svg","screenshot_urls":[]}}`))
	}))
	defer srv.Close()

	h := handleExtractBrand(srv.URL, "key")

	res, err := h(context.Background(), callRequest("extract_brand", map[string]any{"url": "https://acme.com", "max_words": 3}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Name: Acme")
	assert.Contains(t, text, "Logo: https://acme.com/logo.svg")

	res, err = h(context.Background(), callRequest("extract_brand", map[string]any{"url": "https://down.example"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "UPSTREAM_UNREACHABLE")

	res, err = h(context.Background(), callRequest("extract_brand", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSeedURLs_Polls(t *testing.T) {
	pollInterval = 10 * time.Millisecond
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/seed":
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"id":"seed-1","status":"processing","total":2}`))
		case r.URL.Path == "/api/v1/seed/seed-1":
			if polls.Add(1) < 2 {
				_, _ = w.Write([]byte(`{"id":"seed-1","status":"processing","completed":1,"total":2}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"seed-1","status":"partial","completed":2,"total":2,"results":[
				{"url":"https://a.com","success":true,"product_id":"p1","name":"A"},
				{"url":"https://a.com","success":false,"error":"product already exists","error_code":"DUPLICATE_RECORD"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	h := handleSeedURLs(srv.URL, "key")
	res, err := h(context.Background(), callRequest("seed_urls", map[string]any{
		"urls": []any{"https://a.com", "https://a.com"},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	lines := strings.Split(strings.TrimSpace(resultText(t, res)), "\n")
	assert.Contains(t, lines[0], "partial (2/2 processed)")
	assert.Contains(t, lines[len(lines)-1], "DUPLICATE_RECORD")
	assert.GreaterOrEqual(t, polls.Load(), int32(2))
}

func TestValidateBrand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":{"valid":false,"errors":["name ends with a domain extension"]},"tagline":{"valid":true,"errors":[]},"low_quality_logo":true}`))
	}))
	defer srv.Close()

	res, err := handleValidateBrand(srv.URL, "key")(context.Background(), callRequest("validate_brand", map[string]any{"name": "Acme.io"}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "Name: invalid (name ends with a domain extension)")
	assert.Contains(t, text, "Tagline: ok")
	assert.Contains(t, text, "Logo: low quality")
}
