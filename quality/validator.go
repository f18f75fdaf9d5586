// Package quality re-checks persisted brand records so maintenance tooling
// can tell which ones need re-extraction. Nothing here has side effects.
package quality

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/use-agent/brandseed/logo"
	"github.com/use-agent/brandseed/models"
	"github.com/use-agent/brandseed/normalize"
)

const (
	minNameRunes    = 2
	maxNameWords    = 3
	minTaglineRunes = 10
)

var (
	danglingRe      = regexp.MustCompile(`\s\w{1,3}$`)
	logoSegmentRe   = regexp.MustCompile(`(?i)logo|icon|brand|favicon|mark|symbol`)
	screenshotishRe = regexp.MustCompile(`(?i)screenshot|preview|photo|capture|thumbnail|banner|hero|og-image|social`)
)

// Validator checks names, taglines and logo URLs.
type Validator struct {
	vocab *normalize.Vocabulary
	rules LogoRules
}

// NewValidator creates a Validator. A nil vocab means the default one.
func NewValidator(vocab *normalize.Vocabulary, rules LogoRules) *Validator {
	if vocab == nil {
		vocab = normalize.DefaultVocabulary()
	}
	return &Validator{vocab: vocab, rules: rules}
}

// ValidateName checks a stored brand name.
func (v *Validator) ValidateName(name string) models.ValidationResult {
	var errs []string
	n := normalize.RuneLen(name)
	if n < minNameRunes {
		errs = append(errs, "name is shorter than 2 characters")
	}
	if n > models.MaxNameLength {
		errs = append(errs, "name is longer than 40 characters")
	}
	if v.vocab.EndsWithDomainExtension(name) {
		errs = append(errs, "name ends with a domain extension")
	}
	if v.vocab.EndsWithGeneric(name) {
		errs = append(errs, "name ends with a generic word")
	}
	if len(strings.Fields(name)) > maxNameWords {
		errs = append(errs, "name has more than 3 words")
	}
	return result(errs)
}

// ValidateTagline checks a stored tagline against its product name.
func (v *Validator) ValidateTagline(tagline, name string) models.ValidationResult {
	var errs []string
	n := normalize.RuneLen(tagline)
	if n < minTaglineRunes {
		errs = append(errs, "tagline is shorter than 10 characters")
	}
	if n > models.MaxTaglineLength {
		errs = append(errs, "tagline is longer than 70 characters")
	}
	if v.vocab.LooksLikeURL(tagline) {
		errs = append(errs, "tagline looks like a URL")
	}
	if name = strings.TrimSpace(name); name != "" && normalize.HasWordPrefixFold(strings.TrimSpace(tagline), name) {
		errs = append(errs, "tagline repeats the product name")
	}
	if looksTruncated(tagline) {
		errs = append(errs, "tagline looks truncated")
	}
	if !strings.HasSuffix(tagline, ".") {
		errs = append(errs, "tagline does not end with a period")
	}
	return result(errs)
}

func looksTruncated(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "...") || strings.HasSuffix(s, "…") {
		return true
	}
	return danglingRe.MatchString(strings.TrimSuffix(s, "."))
}

func result(errs []string) models.ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	return models.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// IsLowQualityLogo reports whether a stored logo URL looks like a favicon,
// a screenshot or another unsuitable asset.
func (v *Validator) IsLowQualityLogo(logoURL string) bool {
	logoURL = strings.TrimSpace(logoURL)
	if logoURL == "" {
		return true
	}
	u, err := url.Parse(logoURL)
	if err != nil {
		return true
	}
	lower := strings.ToLower(logoURL)
	p := strings.ToLower(u.Path)
	ext := logo.Ext(logoURL)
	vector := ext == ".svg" || ext == ".webp"
	raster := ext == ".png" || ext == ".jpg" || ext == ".jpeg"
	logoish := logoSegmentRe.MatchString(p)

	switch {
	case v.rules.denied(logoURL):
		return true
	case ext == ".ico", strings.Contains(lower, "16x16"), strings.Contains(lower, "32x32"):
		return true
	case strings.Contains(p, "favicon") && !vector:
		return true
	case screenshotishRe.MatchString(p) && !logoish:
		return true
	case v.rules.objectStorage(u) && strings.Contains(p, "/uploads/"):
		return true
	case strings.Contains(p, "seeded-products") && (ext == ".jpg" || ext == ".jpeg"):
		return true
	case raster && !logoish && !v.rules.allowed(u):
		return true
	}
	return false
}
