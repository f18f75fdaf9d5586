// Package normalize turns noisy page titles and descriptions into short
// brand names and one-sentence taglines.
//
// Both normalizers are ordered lists of pure string steps over an immutable
// Vocabulary, so every stage can be exercised on its own.
package normalize

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxWords is the word budget for names when callers pass zero.
	DefaultMaxWords = 2
	maxNameRunes    = 40
	minNameRunes    = 2
)

// Step is one named string transformation in a normalizer pipeline.
type Step struct {
	Name  string
	Apply func(string) string
}

func runSteps(steps []Step, s string) string {
	for _, st := range steps {
		s = st.Apply(s)
	}
	return s
}

var (
	separatorRe   = regexp.MustCompile(`[-|–—]`)
	nonAlnumRe    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// NameNormalizer derives a brand name from a page title.
type NameNormalizer struct {
	vocab *Vocabulary
}

// NewNameNormalizer returns a NameNormalizer over vocab, or over the
// default vocabulary when vocab is nil.
func NewNameNormalizer(vocab *Vocabulary) *NameNormalizer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &NameNormalizer{vocab: vocab}
}

// Steps returns the title-cleaning pipeline that produces the candidate
// name, ending with the maxWords cut.
func (n *NameNormalizer) Steps(maxWords int) []Step {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	v := n.vocab
	return []Step{
		{Name: "strip_site_suffix", Apply: v.StripSiteSuffix},
		{Name: "strip_trailing_generic", Apply: v.StripTrailingGeneric},
		{Name: "first_segment", Apply: firstSegment},
		{Name: "strip_domain_extension", Apply: func(s string) string {
			return v.StripDomainExtension(strings.TrimSpace(s))
		}},
		{Name: "strip_symbols", Apply: func(s string) string {
			return strings.TrimSpace(whitespaceRun.ReplaceAllString(nonAlnumRe.ReplaceAllString(s, ""), " "))
		}},
		{Name: "drop_leading_fillers", Apply: func(s string) string {
			words := strings.Fields(s)
			for len(words) > 0 && v.IsNameFiller(words[0]) {
				words = words[1:]
			}
			return strings.Join(words, " ")
		}},
		{Name: "take_words", Apply: func(s string) string {
			words := strings.Fields(s)
			if len(words) > maxWords {
				words = words[:maxWords]
			}
			return strings.Join(words, " ")
		}},
	}
}

func firstSegment(s string) string {
	if loc := separatorRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[:loc[0]])
	}
	return s
}

// Normalize returns a brand name of at most 40 characters for title.
// Domain evidence from sourceURL replaces generic or degenerate candidates.
func (n *NameNormalizer) Normalize(title, sourceURL string, maxWords int) string {
	domainBrand := DomainBrand(sourceURL)
	candidate := runSteps(n.Steps(maxWords), title)
	generic := candidate != "" && n.vocab.IsGeneric(candidate)

	if generic && domainBrand != "" {
		return n.bound(domainBrand)
	}
	if candidate == "" || RuneLen(candidate) < minNameRunes || generic {
		if domainBrand != "" {
			return n.bound(domainBrand)
		}
		if label := CapitalizedLabel(sourceURL); label != "" {
			return n.bound(label)
		}
		return n.bound(CollapseWhitespace(title))
	}
	return n.bound(candidate)
}

// bound truncates to the name limit and removes any ".tld" token a raw
// fallback may carry.
func (n *NameNormalizer) bound(s string) string {
	s = n.vocab.StripDottedTLDs(s)
	s = strings.TrimSpace(TruncateRunes(s, maxNameRunes))
	return strings.TrimSpace(n.vocab.StripDottedTLDs(s))
}
