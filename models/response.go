package models

// ExtractResponse is the response for POST /api/v1/extract.
type ExtractResponse struct {
	Success bool              `json:"success"`
	Result  *ExtractionResult `json:"result,omitempty"`

	// CacheStatus is "hit" or "miss"; empty when caching was not requested.
	CacheStatus string `json:"cache_status,omitempty"`

	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ValidateResponse is the response for POST /api/v1/validate.
type ValidateResponse struct {
	Name           ValidationResult `json:"name"`
	Tagline        ValidationResult `json:"tagline"`
	LowQualityLogo bool             `json:"low_quality_logo"`
}

// ErrorResponse wraps an error for endpoints without a richer envelope.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // "healthy" or "degraded"
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	// Seeding reports whether the seed endpoints are configured.
	Seeding bool `json:"seeding"`

	CacheEntries int `json:"cache_entries"`
}
