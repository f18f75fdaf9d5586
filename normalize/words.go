package normalize

import (
	"regexp"
	"strings"
)

// Vocabulary is the static word data the normalizers and the quality
// validator share. A Vocabulary is immutable after construction; the
// exported constructor copies its inputs.
type Vocabulary struct {
	trailingGeneric []string
	siteSuffixes    []string
	nameFillers     wordSet
	genericStarts   []string
	taglineFillers  wordSet
	tlds            []string
	bareTLDs        []string

	siteSuffixRe      *regexp.Regexp
	trailingGenericRe *regexp.Regexp
	domainExtRe       *regexp.Regexp
	dottedTLDRe       *regexp.Regexp
	leadingDomainRe   *regexp.Regexp
}

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

func (s wordSet) has(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// VocabularyTables is the raw input for NewVocabulary. Multi-word entries
// (e.g. "sign up") match any run of whitespace between their words.
type VocabularyTables struct {
	TrailingGeneric []string
	SiteSuffixes    []string
	NameFillers     []string
	GenericStarts   []string
	TaglineFillers  []string
	TLDs            []string
	BareTLDs        []string
}

// DefaultTables returns the built-in word tables.
func DefaultTables() VocabularyTables {
	return VocabularyTables{
		TrailingGeneric: []string{
			"we", "the", "our", "your", "my", "their", "its",
			"about", "contact", "blog", "news", "support", "help", "login",
			"sign up", "sign in", "sign out", "pricing", "features", "faq",
			"terms", "privacy", "docs", "documentation", "api", "sdk", "tools",
			"resources", "careers", "jobs", "team", "company", "product",
			"solutions", "services", "platform", "software", "application", "app",
		},
		SiteSuffixes: []string{
			"home page", "homepage", "home", "official site", "official website", "official",
			"welcome", "site", "website", "app", "dashboard",
		},
		NameFillers:   []string{"the", "a", "an", "our", "your", "my", "their"},
		GenericStarts: []string{"free", "online", "best", "top", "new", "simple", "easy", "fast", "powerful", "modern", "the", "a", "an"},
		TaglineFillers: []string{
			"is", "are", "was", "were", "for", "the", "a", "an", "this", "that",
			"in", "on", "at", "by", "with", "to", "of",
		},
		TLDs: []string{
			"com", "io", "ai", "co", "net", "org", "dev", "app", "so", "xyz", "tech",
			"me", "sh", "gg", "tv", "cc", "ly", "to", "us", "uk", "de", "fr", "ca",
			"cloud", "site", "online", "studio", "run", "page", "fm", "im", "is", "vc",
		},
		// Bare-word forms are limited to tokens that are never ordinary words.
		BareTLDs: []string{"com", "io", "net", "org", "xyz"},
	}
}

// DefaultVocabulary returns a Vocabulary built from DefaultTables.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(DefaultTables())
}

// NewVocabulary builds an immutable Vocabulary from t.
func NewVocabulary(t VocabularyTables) *Vocabulary {
	v := &Vocabulary{
		trailingGeneric: clone(t.TrailingGeneric),
		siteSuffixes:    clone(t.SiteSuffixes),
		nameFillers:     newWordSet(t.NameFillers),
		genericStarts:   lowerAll(t.GenericStarts),
		taglineFillers:  newWordSet(t.TaglineFillers),
		tlds:            clone(t.TLDs),
		bareTLDs:        clone(t.BareTLDs),
	}
	v.siteSuffixRe = regexp.MustCompile(`(?i)\s*[-|–—:]\s*(?:` + alternation(v.siteSuffixes) + `)\s*$`)
	v.trailingGenericRe = regexp.MustCompile(`(?i)\s+(?:` + alternation(v.trailingGeneric) + `)\s*$`)
	domainExt := `\.(?:` + alternation(v.tlds) + `)`
	if len(v.bareTLDs) > 0 {
		domainExt = `(?:` + domainExt + `|\s+(?:` + alternation(v.bareTLDs) + `))`
	}
	v.domainExtRe = regexp.MustCompile(`(?i)` + domainExt + `\s*$`)
	v.dottedTLDRe = regexp.MustCompile(`(?i)\.(?:` + alternation(v.tlds) + `)\b`)
	v.leadingDomainRe = regexp.MustCompile(`(?i)^[\p{L}\p{N}-]+(?:\.[\p{L}\p{N}-]+)*\.(?:` + alternation(v.tlds) + `)(?:[/:?#]\S*)?[.,;:!?]?(?:\s|$)`)
	return v
}

// StripSiteSuffix removes one trailing " - Home"-style suffix.
func (v *Vocabulary) StripSiteSuffix(s string) string {
	return v.siteSuffixRe.ReplaceAllString(s, "")
}

// EndsWithGeneric reports whether s ends with a generic trailing word
// preceded by whitespace.
func (v *Vocabulary) EndsWithGeneric(s string) bool {
	return v.trailingGenericRe.MatchString(s)
}

// StripTrailingGeneric removes one generic trailing word.
func (v *Vocabulary) StripTrailingGeneric(s string) string {
	return v.trailingGenericRe.ReplaceAllString(s, "")
}

// EndsWithDomainExtension reports whether s ends with ".com"-style or
// bare-word domain extension.
func (v *Vocabulary) EndsWithDomainExtension(s string) bool {
	return v.domainExtRe.MatchString(s)
}

// StripDomainExtension removes one trailing domain extension.
func (v *Vocabulary) StripDomainExtension(s string) string {
	return v.domainExtRe.ReplaceAllString(s, "")
}

// StripDottedTLDs removes every ".tld" token anywhere in s.
func (v *Vocabulary) StripDottedTLDs(s string) string {
	return v.dottedTLDRe.ReplaceAllString(s, "")
}

var schemeRe = regexp.MustCompile(`(?i)^(?:https?://|www\.)`)

// LooksLikeURL reports whether s starts with a URL scheme, "www." or a
// bare domain such as "example.com".
func (v *Vocabulary) LooksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	return schemeRe.MatchString(s) || v.leadingDomainRe.MatchString(s)
}

// IsNameFiller reports whether word is a leading filler dropped from names.
func (v *Vocabulary) IsNameFiller(word string) bool { return v.nameFillers.has(word) }

// IsTaglineFiller reports whether word is a filler a tagline must not start with.
func (v *Vocabulary) IsTaglineFiller(word string) bool { return v.taglineFillers.has(word) }

// IsGeneric reports whether phrase equals, or starts with, a generic word.
func (v *Vocabulary) IsGeneric(phrase string) bool {
	p := strings.ToLower(strings.TrimSpace(phrase))
	for _, g := range v.genericStarts {
		if p == g || strings.HasPrefix(p, g+" ") {
			return true
		}
	}
	return false
}

// alternation renders words as a regexp alternation group body.
func alternation(words []string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		fields := strings.Fields(w)
		for i, f := range fields {
			fields[i] = regexp.QuoteMeta(f)
		}
		parts = append(parts, strings.Join(fields, `\s+`))
	}
	return strings.Join(parts, "|")
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func lowerAll(s []string) []string {
	out := make([]string, len(s))
	for i, w := range s {
		out[i] = strings.ToLower(w)
	}
	return out
}
