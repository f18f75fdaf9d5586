package models

// ExtractRequest is the payload for POST /api/v1/extract.
type ExtractRequest struct {
	// URL is the product page to extract. Required.
	URL string `json:"url" binding:"required,url"`

	// MaxWords bounds the normalized product name. Default: 2.
	MaxWords int `json:"max_words,omitempty" binding:"omitempty,min=1,max=6"`

	// MaxAge is the oldest cached result in milliseconds the caller accepts.
	// 0 (default) always extracts fresh.
	MaxAge int64 `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ExtractRequest) Defaults(maxWords int) {
	if r.MaxWords == 0 {
		r.MaxWords = maxWords
	}
}

// SeedRequest is the payload for POST /api/v1/seed.
type SeedRequest struct {
	// URLs are the product pages to seed, processed in order. Required.
	URLs []string `json:"urls" binding:"required,min=1,max=100"`

	// Categories are category slugs linked to every created product.
	Categories []string `json:"categories,omitempty"`

	MaxWords int `json:"max_words,omitempty" binding:"omitempty,min=1,max=6"`

	// WebhookURL receives a seed.completed event when the job finishes.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`
}

// Defaults applies default values to unset fields.
func (r *SeedRequest) Defaults(maxWords int) {
	if r.MaxWords == 0 {
		r.MaxWords = maxWords
	}
}

// ValidateRequest is the payload for POST /api/v1/validate.
type ValidateRequest struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	LogoURL string `json:"logo_url,omitempty"`
}
