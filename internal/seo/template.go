package seo

import (
	"strings"

	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// maxDescriptionLen is the hard description budget; candidates over it are
// penalized and the final fallback truncates under it.
const maxDescriptionLen = 155

// truncateWordCap bounds the word-boundary truncation fallback.
const truncateWordCap = 23

// variantCounts are the top-N tag counts tried per template.
var variantCounts = []int{1, 2, 3, 4, 5, 7}

// Candidate selection weights.
const (
	overLengthPenalty  = -10
	sweetSpotBonus     = 5
	goodLengthBonus    = 3
	okLengthBonus      = 1
	perTagBonus        = 12
	phraseBonus        = 6
	stateBonus         = 3
	cityStateBonus     = 2
	comboBonus         = 8
	manyTagsBonus      = 5
	boilerplatePenalty = -2
)

type candidate struct {
	text        string
	tagCount    int
	hasLocation bool
}

// buildCandidates renders every template/variant combination. Location is
// only appended when the result stays within the length budget; an overlong
// phrase is retried with its first comma component before being dropped.
func buildCandidates(tags []models.ScoredTag, phrase string) []candidate {
	var out []candidate
	seen := make(map[string]bool)

	add := func(text string, n int, loc bool) {
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		out = append(out, candidate{text: text, tagCount: n, hasLocation: loc})
	}

	shortPhrase := phrase
	if i := strings.IndexByte(phrase, ','); i > 0 {
		shortPhrase = strings.TrimSpace(phrase[:i])
	}

	for _, n := range variantCounts {
		if n > len(tags) {
			n = len(tags)
		}
		if n == 0 {
			break
		}
		joined := joinTags(tags[:n])

		if phrase != "" {
			for _, tmpl := range []string{
				"%s photography from %s.",
				"Photography featuring %s from %s.",
			} {
				text := sprintf2(tmpl, joined, phrase)
				if len(text) > maxDescriptionLen && shortPhrase != phrase {
					text = sprintf2(tmpl, joined, shortPhrase)
				}
				if len(text) <= maxDescriptionLen {
					add(text, n, true)
				}
			}
		}
		add(sprintf1("%s photography.", joined), n, false)
		add(sprintf1("Photography featuring %s.", joined), n, false)
	}

	if len(tags) == 0 && phrase != "" {
		add("Photography from "+phrase+".", 0, true)
	}

	return out
}

func sprintf1(tmpl, a string) string {
	return strings.Replace(tmpl, "%s", a, 1)
}

func sprintf2(tmpl, a, b string) string {
	return sprintf1(sprintf1(tmpl, a), b)
}

// joinTags renders "a", "a and b", "a, b and c".
func joinTags(tags []models.ScoredTag) string {
	words := make([]string, len(tags))
	for i, t := range tags {
		words[i] = strings.TrimSpace(t.Text)
	}
	var joined string
	switch len(words) {
	case 0:
		return ""
	case 1:
		joined = words[0]
	default:
		head := strings.Join(words[:len(words)-1], ", ")
		joined = head + " and " + words[len(words)-1]
	}
	return strings.ToUpper(joined[:1]) + joined[1:]
}

// selectBest scores the candidates and returns the winner. Ties keep the
// earliest candidate.
func selectBest(cands []candidate, tags []models.ScoredTag, phrase, state, city string) string {
	best := ""
	bestScore := 0
	for _, c := range cands {
		s := scoreCandidate(c, tags, phrase, state, city)
		if best == "" || s > bestScore {
			best = c.text
			bestScore = s
		}
	}
	return best
}

func scoreCandidate(c candidate, tags []models.ScoredTag, phrase, state, city string) int {
	score := 0
	n := len(c.text)

	if n > maxDescriptionLen {
		score += overLengthPenalty
	} else if n >= 120 {
		score += sweetSpotBonus
	} else if n >= 90 {
		score += goodLengthBonus
	} else if n >= 60 {
		score += okLengthBonus
	}

	lower := strings.ToLower(c.text)
	textTokens := tokenize(c.text)
	present := 0
	for _, t := range tags {
		if tokensContain(textTokens, tokenize(t.Text)) {
			present++
		}
	}
	score += present * perTagBonus

	if phrase != "" && strings.Contains(c.text, phrase) {
		score += phraseBonus
	}
	if state != "" && tokensContain(textTokens, tokenize(state)) {
		score += stateBonus
		if city != "" && tokensContain(textTokens, tokenize(city)) {
			score += cityStateBonus
		}
	}
	if present > 0 && c.hasLocation {
		score += comboBonus
	}
	if present >= 3 {
		score += manyTagsBonus
	}
	if strings.HasPrefix(lower, "photography featuring") || strings.HasPrefix(lower, "photography from") {
		score += boilerplatePenalty
	}

	return score
}

// truncateWords cuts text to at most truncateWordCap words and appends an
// ellipsis, shrinking further if still over the length budget.
func truncateWords(text string) string {
	words := strings.Fields(text)
	if len(words) > truncateWordCap {
		words = words[:truncateWordCap]
	}
	out := strings.Join(words, " ") + "..."
	for len(out) > maxDescriptionLen && len(words) > 1 {
		words = words[:len(words)-1]
		out = strings.Join(words, " ") + "..."
	}
	return out
}
