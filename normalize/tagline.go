package normalize

import (
	"regexp"
	"strings"
)

const (
	maxTaglineRunes = 70
	minTaglineRunes = 10
	taglineCut      = 67
	taglineMinCut   = 50
)

var (
	leadingSeparatorRe = regexp.MustCompile(`^[\s\-:—–|,]+`)
	redundantLeadRe    = regexp.MustCompile(`(?i)^(?:we|our|this|the|a|an)\s+(?:make|are|is|provides?|offers?|helps?|enables?|allows?|lets?|gives?)\s+`)
	sentenceEndRe      = regexp.MustCompile(`[.!?]\s+`)
	trailingCommaRe    = regexp.MustCompile(`(?:,|…|\.\.\.)\s*$`)
	danglingWordRe     = regexp.MustCompile(`\s+\w{1,3}$`)
	ellipsisRunRe      = regexp.MustCompile(`(?:…|\.{2,})+\s*$`)
)

// TaglineNormalizer reduces a description to one concise sentence.
type TaglineNormalizer struct {
	vocab *Vocabulary
}

// NewTaglineNormalizer returns a TaglineNormalizer over vocab, or over the
// default vocabulary when vocab is nil.
func NewTaglineNormalizer(vocab *Vocabulary) *TaglineNormalizer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &TaglineNormalizer{vocab: vocab}
}

// Steps returns the cleaning pipeline applied to a non-empty description.
func (t *TaglineNormalizer) Steps(name string) []Step {
	return []Step{
		{Name: "strip_name_prefix", Apply: func(s string) string {
			name = strings.TrimSpace(name)
			for HasWordPrefixFold(s, name) {
				s = leadingSeparatorRe.ReplaceAllString(s[len(name):], "")
			}
			return s
		}},
		{Name: "strip_redundant_lead", Apply: func(s string) string {
			return redundantLeadRe.ReplaceAllString(s, "")
		}},
		{Name: "skip_fillers", Apply: t.skipFillers},
		{Name: "capitalize", Apply: capitalizeFirst},
		{Name: "first_sentence", Apply: func(s string) string {
			if loc := sentenceEndRe.FindStringIndex(s); loc != nil {
				return s[:loc[0]]
			}
			return s
		}},
		{Name: "strip_truncation", Apply: func(s string) string {
			s = trailingCommaRe.ReplaceAllString(s, "")
			s = danglingWordRe.ReplaceAllString(s, "")
			return strings.TrimSpace(ellipsisRunRe.ReplaceAllString(s, ""))
		}},
		{Name: "shorten", Apply: shortenTagline},
		{Name: "restrip_truncation", Apply: func(s string) string {
			return strings.TrimSpace(trailingCommaRe.ReplaceAllString(s, ""))
		}},
	}
}

func (t *TaglineNormalizer) skipFillers(s string) string {
	words := strings.Fields(s)
	if len(words) <= 1 || !t.vocab.IsTaglineFiller(words[0]) {
		return s
	}
	for i, w := range words {
		if !t.vocab.IsTaglineFiller(w) {
			return strings.Join(words[i:], " ")
		}
	}
	if len(words) > 2 {
		return strings.Join(words[1:], " ")
	}
	return s
}

func shortenTagline(s string) string {
	if RuneLen(s) <= maxTaglineRunes {
		return s
	}
	runes := []rune(s)
	cut := taglineCut
	for i := taglineCut; i > taglineMinCut; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimSpace(string(runes[:cut]))
}

// Normalize returns a tagline that is non-empty, at most 70 characters and
// ends with a period. Unusable input yields DefaultTagline.
func (t *TaglineNormalizer) Normalize(raw, name, sourceURL string) string {
	text := CollapseWhitespace(raw)
	if text == "" || t.vocab.LooksLikeURL(text) {
		return DefaultTagline(name, sourceURL)
	}

	text = runSteps(t.Steps(name), text)

	if t.reject(text) {
		return DefaultTagline(name, sourceURL)
	}
	return finishSentence(text)
}

func (t *TaglineNormalizer) reject(s string) bool {
	if t.vocab.LooksLikeURL(s) || RuneLen(s) < minTaglineRunes {
		return true
	}
	return t.vocab.IsTaglineFiller(firstWord(s)) && len(strings.Fields(s)) < 4
}

// DefaultTagline is the fallback tagline: "Product by {Label}." built from
// the URL's host, or "{name}." when the URL has no usable host.
func DefaultTagline(name, sourceURL string) string {
	if label := CapitalizedLabel(sourceURL); label != "" {
		return finishSentence("Product by " + label)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Product"
	}
	return finishSentence(name)
}

// finishSentence forces a single trailing period within the length limit.
func finishSentence(s string) string {
	s = strings.TrimRight(s, " \t!?,;:")
	if !strings.HasSuffix(s, ".") {
		if RuneLen(s) < maxTaglineRunes {
			s += "."
		} else {
			runes := []rune(TruncateRunes(s, maxTaglineRunes))
			runes[len(runes)-1] = '.'
			s = string(runes)
		}
	}
	return TruncateRunes(s, maxTaglineRunes)
}
