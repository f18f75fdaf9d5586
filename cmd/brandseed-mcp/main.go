package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// pollInterval is how often seed job status is checked.
var pollInterval = 2 * time.Second

type errorDetail struct {
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// extractResponse mirrors the Brandseed extract API response.
type extractResponse struct {
	Success bool `json:"success"`
	Result  *struct {
		SourceURL      string   `json:"source_url"`
		Name           string   `json:"name"`
		Tagline        string   `json:"tagline"`
		Description    string   `json:"description"`
		LogoURL        string   `json:"logo_url"`
		ScreenshotURLs []string `json:"screenshot_urls"`
	} `json:"result"`
	Error *errorDetail `json:"error"`
}

// seedResponse mirrors the Brandseed seed API response.
type seedResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Total  int          `json:"total"`
	Error  *errorDetail `json:"error"`
}

// seedStatusResponse mirrors the Brandseed seed status API response.
type seedStatusResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Results   []struct {
		URL       string `json:"url"`
		Success   bool   `json:"success"`
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		Error     string `json:"error"`
		ErrorCode string `json:"error_code"`
	} `json:"results"`
}

// validateResponse mirrors the Brandseed validate API response.
type validateResponse struct {
	Name struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	} `json:"name"`
	Tagline struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	} `json:"tagline"`
	LowQualityLogo bool         `json:"low_quality_logo"`
	Error          *errorDetail `json:"error"`
}

func main() {
	apiURL := os.Getenv("BRANDSEED_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("BRANDSEED_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "BRANDSEED_API_KEY is required")
		os.Exit(1)
	}

	if err := server.ServeStdio(newServer(apiURL, apiKey)); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(apiURL, apiKey string) *server.MCPServer {
	s := server.NewMCPServer(
		"brandseed",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	extractTool := mcp.NewTool("extract_brand",
		mcp.WithDescription("Extract a product's brand identity from its website: normalized name, one-sentence tagline, description, best logo and screenshots."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The product's homepage URL"),
		),
		mcp.WithNumber("max_words",
			mcp.Description("Maximum words in the product name (default: 2)"),
		),
	)
	s.AddTool(extractTool, handleExtractBrand(apiURL, apiKey))

	seedTool := mcp.NewTool("seed_urls",
		mcp.WithDescription("Seed product records for a list of URLs. URLs are processed in order; each one succeeds or fails on its own."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("HTTPS product URLs to seed"),
		),
		mcp.WithArray("categories",
			mcp.Description("Category slugs linked to every created product"),
		),
		mcp.WithNumber("max_words",
			mcp.Description("Maximum words in each product name (default: 2)"),
		),
	)
	s.AddTool(seedTool, handleSeedURLs(apiURL, apiKey))

	validateTool := mcp.NewTool("validate_brand",
		mcp.WithDescription("Check a product name, tagline and logo URL against the directory's quality rules."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Product name"),
		),
		mcp.WithString("tagline",
			mcp.Description("One-sentence tagline"),
		),
		mcp.WithString("logo_url",
			mcp.Description("Logo image URL"),
		),
	)
	s.AddTool(validateTool, handleValidateBrand(apiURL, apiKey))

	return s
}

// apiPost sends a POST request to the Brandseed API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, apiKey, endpoint string) ([]byte, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("create poll request: %w", err)
			}
			req.Header.Set("X-API-Key", apiKey)

			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read poll response: %w", err)
			}

			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}

func formatError(fallback string, e *errorDetail) string {
	if e == nil {
		return fallback
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func handleExtractBrand(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]interface{}{"url": url}
		if n := request.GetInt("max_words", 0); n > 0 {
			payload["max_words"] = n
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/extract", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extract request failed: %v", err)), nil
		}

		var resp extractResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Success || resp.Result == nil {
			return mcp.NewToolResultError(formatError("extraction failed", resp.Error)), nil
		}

		r := resp.Result
		var sb strings.Builder
		fmt.Fprintf(&sb, "Name: %s\nTagline: %s\nSource: %s\n", r.Name, r.Tagline, r.SourceURL)
		if r.LogoURL != "" {
			fmt.Fprintf(&sb, "Logo: %s\n", r.LogoURL)
		}
		for _, s := range r.ScreenshotURLs {
			fmt.Fprintf(&sb, "Screenshot: %s\n", s)
		}
		if r.Description != "" {
			fmt.Fprintf(&sb, "\n%s\n", r.Description)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleSeedURLs(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		payload := map[string]interface{}{"urls": urls}
		if cats := request.GetStringSlice("categories", nil); len(cats) > 0 {
			payload["categories"] = cats
		}
		if n := request.GetInt("max_words", 0); n > 0 {
			payload["max_words"] = n
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/seed", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("seed request failed: %v", err)), nil
		}

		var seedResp seedResponse
		if err := json.Unmarshal(respBody, &seedResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse seed response: %v", err)), nil
		}
		if seedResp.ID == "" {
			return mcp.NewToolResultError(formatError("seed job creation failed", seedResp.Error)), nil
		}

		resultBody, err := pollJobCompletion(ctx, client, apiURL, apiKey, "/api/v1/seed/"+seedResp.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling seed job failed: %v", err)), nil
		}

		var status seedStatusResponse
		if err := json.Unmarshal(resultBody, &status); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse seed status: %v", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Seed %s: %s (%d/%d processed)\n\n", status.ID, status.Status, status.Completed, status.Total)
		for i, r := range status.Results {
			if r.Success {
				fmt.Fprintf(&sb, "[%d] %s: created %q (%s)\n", i+1, r.URL, r.Name, r.ProductID)
			} else {
				fmt.Fprintf(&sb, "[%d] %s: FAILED [%s] %s\n", i+1, r.URL, r.ErrorCode, r.Error)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleValidateBrand(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name is required"), nil
		}

		payload := map[string]string{
			"name":     name,
			"tagline":  request.GetString("tagline", ""),
			"logo_url": request.GetString("logo_url", ""),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/validate", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validate request failed: %v", err)), nil
		}

		var resp validateResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if resp.Error != nil {
			return mcp.NewToolResultError(formatError("validation failed", resp.Error)), nil
		}

		var sb strings.Builder
		writeVerdict(&sb, "Name", resp.Name.Valid, resp.Name.Errors)
		writeVerdict(&sb, "Tagline", resp.Tagline.Valid, resp.Tagline.Errors)
		if resp.LowQualityLogo {
			sb.WriteString("Logo: low quality\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func writeVerdict(sb *strings.Builder, label string, valid bool, errs []string) {
	if valid {
		fmt.Fprintf(sb, "%s: ok\n", label)
		return
	}
	fmt.Fprintf(sb, "%s: invalid (%s)\n", label, strings.Join(errs, "; "))
}
