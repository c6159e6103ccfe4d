package seo

import (
	"strings"
	"unicode"

	"github.com/bstardust/photo-seo-enricher/internal/places"
)

// maxPhraseLen caps the location phrase during construction; the 155-char
// description limit is enforced again at template-fit time.
const maxPhraseLen = 80

// Word-overlap thresholds for redundancy between two location terms.
const (
	overlapThreshold           = 0.8
	singleWordOverlapThreshold = 1.0
)

// tokenize lowercases a term and splits it on whitespace and punctuation.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// wordOverlap reports the fraction of the shorter term's words that appear
// verbatim in the longer term.
func wordOverlap(shorter, longer []string) float64 {
	if len(shorter) == 0 {
		return 0
	}
	longSet := make(map[string]bool, len(longer))
	for _, w := range longer {
		longSet[w] = true
	}
	hits := 0
	for _, w := range shorter {
		if longSet[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(shorter))
}

// termsRedundant reports whether two location terms say the same thing: one
// is a case-insensitive substring of the other, or enough of the shorter
// term's words appear in the longer one.
func termsRedundant(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == "" || lb == "" {
		return false
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return true
	}
	ta, tb := tokenize(a), tokenize(b)
	shorter, longer := ta, tb
	if len(tb) < len(ta) {
		shorter, longer = tb, ta
	}
	threshold := overlapThreshold
	if len(shorter) == 1 {
		threshold = singleWordOverlapThreshold
	}
	return wordOverlap(shorter, longer) >= threshold
}

// PhraseFromChain builds a location phrase from a root-first ancestry chain,
// keeping up to the three most specific levels and collapsing adjacent
// redundant terms. "Downtown Dallas, Dallas, Texas" becomes
// "Downtown Dallas, Texas".
func PhraseFromChain(chain []string) string {
	// Most specific first.
	terms := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i] != "" {
			terms = append(terms, chain[i])
		}
	}
	if len(terms) > 3 {
		terms = terms[:3]
	}

	// Drop the more general of any adjacent redundant pair. Terms run
	// most-specific-first, so the later term is the more general one.
	collapsed := make([]string, 0, len(terms))
	for _, t := range terms {
		if len(collapsed) > 0 && termsRedundant(collapsed[len(collapsed)-1], t) {
			continue
		}
		collapsed = append(collapsed, t)
	}

	phrase := strings.Join(collapsed, ", ")
	for len(phrase) > maxPhraseLen && len(collapsed) > 1 {
		collapsed = collapsed[:len(collapsed)-1]
		phrase = strings.Join(collapsed, ", ")
	}
	if len(phrase) > maxPhraseLen {
		phrase = truncateToWord(phrase, maxPhraseLen)
	}
	return phrase
}

// PhraseFromFlat builds a phrase from flat metadata fields when no taxonomy
// node is assigned, trying the most specific combination first and falling
// back level by level.
func PhraseFromFlat(f places.FlatLocation) string {
	combo := PhraseFromChain([]string{f.Country, f.State, f.City, f.Location})
	if combo != "" && len(combo) <= maxPhraseLen {
		return combo
	}
	switch {
	case f.State != "":
		return f.State
	case f.City != "":
		return f.City
	case f.Location != "":
		if len(f.Location) <= maxPhraseLen {
			return f.Location
		}
		return truncateToWord(f.Location, maxPhraseLen)
	}
	return ""
}

// truncateToWord cuts s to at most max bytes on a word boundary.
func truncateToWord(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,")
}
