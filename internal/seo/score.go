package seo

import (
	"sort"
	"strings"

	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// Tag length bounds after normalization.
const (
	minTagLen = 3
	maxTagLen = 24
)

// Contextual bonuses for where a tag shows up in the post.
const (
	titleExactBonus     = 25
	titlePartialBonus   = 12
	bodyExactBonus      = 15
	bodyPartialBonus    = 8
	excerptExactBonus   = 12
	excerptPartialBonus = 6
	weatherBonus        = 5
)

// ScoreInput carries everything the filter/score pass reads for one post.
type ScoreInput struct {
	Tags []string

	// Phrase is the location phrase built in the phrase step.
	Phrase string

	// AncestryNames is the post's place chain root-first; PlaceNames is
	// every known taxonomy node name. Tags matching either are dropped
	// as location-redundant.
	AncestryNames []string
	PlaceNames    []string

	Title          string
	Content        string
	Excerpt        string
	WeatherSummary string
}

// FilterAndScore runs the tag list through the drop rules and scores the
// survivors, returning them sorted by descending score. Ties keep the
// original tag order.
func FilterAndScore(v *Vocabulary, in ScoreInput) []models.ScoredTag {
	kept := make([]string, 0, len(in.Tags))

	for i, tag := range in.Tags {
		if subsumedByLongerTag(tag, i, in.Tags) {
			continue
		}
		if matchesAnyPlaceName(tag, in.AncestryNames) || matchesAnyPlaceName(tag, in.PlaceNames) {
			continue
		}
		if v.blacklisted(tag) {
			continue
		}
		if redundantWithPhrase(tag, in.Phrase) && !v.inTier(tag, v.Premium) {
			continue
		}
		n := len([]rune(strings.TrimSpace(tag)))
		if n < minTagLen || n > maxTagLen {
			continue
		}
		kept = append(kept, tag)
	}

	scored := make([]models.ScoredTag, 0, len(kept))
	for _, tag := range kept {
		score := v.tierBonus(tag)
		score += contextBonus(tag, in.Title, titleExactBonus, titlePartialBonus)
		score += contextBonus(tag, in.Content, bodyExactBonus, bodyPartialBonus)
		score += contextBonus(tag, in.Excerpt, excerptExactBonus, excerptPartialBonus)
		if in.WeatherSummary != "" && tokensContain(tokenize(in.WeatherSummary), tokenize(tag)) {
			score += weatherBonus
		}
		if v.inTier(tag, v.Canonical) {
			score += canonicalBonus
		}
		if score == 0 {
			if !v.inTier(tag, v.MinimumViable) {
				continue
			}
			score = 1
		}
		scored = append(scored, models.ScoredTag{Text: tag, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// subsumedByLongerTag reports whether tag appears, on word boundaries,
// inside another longer tag of the same list.
func subsumedByLongerTag(tag string, idx int, all []string) bool {
	tt := tokenize(tag)
	for j, other := range all {
		if j == idx || len(other) <= len(tag) {
			continue
		}
		if tokensContain(tokenize(other), tt) {
			return true
		}
	}
	return false
}

// matchesAnyPlaceName checks a tag against taxonomy node names, exact or
// word-boundary containment in either direction.
func matchesAnyPlaceName(tag string, names []string) bool {
	tt := tokenize(tag)
	if len(tt) == 0 {
		return false
	}
	for _, name := range names {
		nt := tokenize(name)
		if len(nt) == 0 {
			continue
		}
		if tokensContain(tt, nt) || tokensContain(nt, tt) {
			return true
		}
	}
	return false
}

// redundantWithPhrase checks a tag against the location phrase as a whole
// and against each comma component.
func redundantWithPhrase(tag, phrase string) bool {
	if phrase == "" {
		return false
	}
	tt := tokenize(tag)
	if len(tt) == 0 {
		return false
	}
	if tokensContain(tokenize(phrase), tt) {
		return true
	}
	for _, part := range strings.Split(phrase, ",") {
		pt := tokenize(part)
		if len(pt) > 0 && tokensContain(tt, pt) {
			return true
		}
	}
	return false
}

// contextBonus scores a tag against a text field: full bonus when the whole
// tag appears on word boundaries, the partial bonus when any of its words do.
func contextBonus(tag, text string, exact, partial int) int {
	if text == "" {
		return 0
	}
	textTokens := tokenize(text)
	tagTokens := tokenize(tag)
	if tokensContain(textTokens, tagTokens) {
		return exact
	}
	set := make(map[string]bool, len(textTokens))
	for _, w := range textTokens {
		set[w] = true
	}
	for _, w := range tagTokens {
		if set[w] {
			return partial
		}
	}
	return 0
}

// tokensContain reports whether needle occurs as a contiguous run in
// haystack.
func tokensContain(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, w := range needle {
			if haystack[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// blacklisted checks the exact lowercase list and then the substring
// patterns against the raw lowercased tag, so patterns like "f/" can see
// punctuation.
func (v *Vocabulary) blacklisted(tag string) bool {
	lower := strings.ToLower(strings.TrimSpace(tag))
	for _, t := range v.BlacklistExact {
		if lower == t {
			return true
		}
	}
	for _, p := range v.BlacklistPatterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// tierBonus returns the bonus of the first vocabulary tier the tag matches.
func (v *Vocabulary) tierBonus(tag string) int {
	switch {
	case v.inTier(tag, v.Premium):
		return premiumBonus
	case v.inTier(tag, v.High):
		return highBonus
	case v.inTier(tag, v.Standard):
		return standardBonus
	}
	return 0
}

// inTier reports whether the tag matches a list entry, on word boundaries
// or through singular/plural and synonym variation.
func (v *Vocabulary) inTier(tag string, tier []string) bool {
	tt := tokenize(tag)
	for _, entry := range tier {
		for _, variant := range v.variants(entry) {
			vt := tokenize(variant)
			if tokensContain(tt, vt) {
				return true
			}
		}
	}
	return false
}

// variants expands a term with its plural/singular forms and synonyms
// (including the synonyms' plural forms).
func (v *Vocabulary) variants(term string) []string {
	term = strings.ToLower(term)
	out := inflections(term)
	for _, syn := range v.Synonyms[term] {
		out = append(out, inflections(syn)...)
	}
	return out
}

// inflections returns a word with its simple English plural and singular
// forms.
func inflections(w string) []string {
	out := []string{w}
	switch {
	case strings.HasSuffix(w, "ies"):
		out = append(out, strings.TrimSuffix(w, "ies")+"y")
	case strings.HasSuffix(w, "es"):
		out = append(out, strings.TrimSuffix(w, "es"))
		out = append(out, strings.TrimSuffix(w, "s"))
	case strings.HasSuffix(w, "s"):
		out = append(out, strings.TrimSuffix(w, "s"))
	}
	switch {
	case strings.HasSuffix(w, "y"):
		out = append(out, strings.TrimSuffix(w, "y")+"ies")
	case strings.HasSuffix(w, "s"), strings.HasSuffix(w, "x"),
		strings.HasSuffix(w, "ch"), strings.HasSuffix(w, "sh"):
		out = append(out, w+"es")
	default:
		out = append(out, w+"s")
	}
	return out
}
