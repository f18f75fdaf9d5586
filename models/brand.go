package models

import "time"

// Length limits on extracted brand fields.
const (
	MaxNameLength        = 40
	MaxTaglineLength     = 70
	MaxDescriptionLength = 800
	MaxScreenshots       = 4
)

// LogoCandidate is a provisional logo URL discovered from one source location.
// Priority ranges 0..11; higher means more confident.
type LogoCandidate struct {
	URL      string `json:"url"`
	Priority int    `json:"priority"`
}

// ClassifiedCandidate is a LogoCandidate after SVG content classification.
// Non-SVG and unclassified candidates keep IsTextBased=false.
type ClassifiedCandidate struct {
	LogoCandidate
	IsTextBased bool `json:"is_text_based"`
}

// ExtractionResult is the brand identity derived from one product URL.
// LogoURL and Description are empty when nothing usable was found.
type ExtractionResult struct {
	SourceURL      string                `json:"source_url"`
	Name           string                `json:"name"`
	Tagline        string                `json:"tagline"`
	Description    string                `json:"description,omitempty"`
	LogoURL        string                `json:"logo_url,omitempty"`
	ScreenshotURLs []string              `json:"screenshot_urls"`
	Candidates     []ClassifiedCandidate `json:"candidates,omitempty"`
}

// ValidationResult is the outcome of re-checking a name or tagline.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// BatchItemResult records what happened to one URL in a seeding batch.
// It is created once and never mutated afterwards.
type BatchItemResult struct {
	URL       string `json:"url"`
	Success   bool   `json:"success"`
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// RefreshItemResult records what the maintenance refresh did to one product.
type RefreshItemResult struct {
	ProductID string   `json:"product_id"`
	URL       string   `json:"url"`
	Refreshed bool     `json:"refreshed"`
	Reasons   []string `json:"reasons,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Product is a persisted directory record.
type Product struct {
	ID          string
	URL         string
	Name        string
	Tagline     string
	Description string
	LogoURL     string
	OwnerID     string
	CategoryIDs []string
	ImageURLs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
