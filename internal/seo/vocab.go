package seo

import (
	"strings"

	"github.com/bstardust/photo-seo-enricher/internal/config"
)

// Tiered bonus values for curated photography vocabulary.
const (
	premiumBonus   = 15
	highBonus      = 12
	standardBonus  = 8
	canonicalBonus = 3
)

// Vocabulary bundles the curated term lists and the operator extensions
// merged in from configuration.
type Vocabulary struct {
	Premium  []string
	High     []string
	Standard []string

	// Canonical is the short list of always-relevant photography terms
	// that earn a flat bonus.
	Canonical []string

	// MinimumViable terms are floored to a score of 1 instead of being
	// discarded when nothing else scored them.
	MinimumViable []string

	// BlacklistExact matches whole normalized tags; BlacklistPatterns
	// match as substrings.
	BlacklistExact    []string
	BlacklistPatterns []string

	// Synonyms maps a term to its interchangeable variants, both
	// directions materialized.
	Synonyms map[string][]string
}

// NewVocabulary builds the default vocabulary with operator extensions
// merged in.
func NewVocabulary(cfg config.SEOConfig) *Vocabulary {
	v := &Vocabulary{
		Premium: []string{
			"sunset", "sunrise", "aurora", "milky way", "landscape",
			"seascape", "wildlife", "waterfall", "lighthouse", "skyline",
			"golden hour", "long exposure", "reflection", "astrophotography",
		},
		High: []string{
			"mountain", "beach", "forest", "architecture", "cityscape",
			"panorama", "night sky", "snow", "autumn", "storm", "fog",
			"wildflowers", "canyon", "glacier",
		},
		Standard: []string{
			"clouds", "river", "lake", "ocean", "bridge", "street",
			"flowers", "trees", "park", "harbor", "island", "desert",
			"coast", "valley", "meadow", "pier",
		},
		Canonical: []string{
			"landscape", "seascape", "portrait", "macro", "panorama",
			"wildlife", "street",
		},
		MinimumViable: []string{
			"nature", "outdoors", "travel", "scenic", "view",
			"countryside", "hiking", "adventure",
		},
		BlacklistExact: []string{
			// Generic photography jargon and gear.
			"photo", "photos", "pic", "pics", "picture", "pictures",
			"camera", "lens", "dslr", "mirrorless", "raw", "jpeg",
			"bokeh", "hdr",
			// Brand names.
			"canon", "nikon", "sony", "fuji", "fujifilm", "leica",
			"olympus", "pentax", "apple", "iphone",
			// Technical exposure terms.
			"iso", "aperture", "shutter", "exposure", "focal length",
			// Generic time words.
			"morning", "afternoon", "evening", "night", "today", "daily",
			"am", "pm",
			// Social-media noise.
			"instagood", "photooftheday", "picoftheday", "nofilter",
			"follow", "followme", "like", "likes", "instadaily",
		},
		BlacklistPatterns: []string{
			"f/", "ƒ/", "1/", "http", "www.", ".com", "#",
		},
		Synonyms: map[string][]string{},
	}

	for _, group := range [][]string{
		{"ship", "boat", "vessel"},
		{"mountain", "peak", "summit"},
		{"sea", "ocean"},
		{"forest", "woods", "woodland"},
		{"sunset", "dusk"},
		{"sunrise", "dawn"},
		{"harbor", "harbour", "port"},
		{"fall", "autumn"},
	} {
		addSynonymGroup(v.Synonyms, group)
	}

	// Operator extensions.
	v.Premium = append(v.Premium, cfg.ExtraBonus...)
	for _, term := range cfg.ExtraBlacklist {
		v.BlacklistExact = append(v.BlacklistExact, strings.ToLower(term))
	}
	v.BlacklistPatterns = append(v.BlacklistPatterns, cfg.ExtraPatterns...)
	for term, variants := range cfg.ExtraSynonyms {
		addSynonymGroup(v.Synonyms, append([]string{term}, variants...))
	}

	return v
}

// addSynonymGroup materializes every direction of a variant group.
func addSynonymGroup(m map[string][]string, group []string) {
	for _, a := range group {
		a = strings.ToLower(a)
		for _, b := range group {
			b = strings.ToLower(b)
			if a == b {
				continue
			}
			m[a] = append(m[a], b)
		}
	}
}
