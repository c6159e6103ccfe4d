package seo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/places"
	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

func newEngine(t *testing.T) (*Engine, *store.Store, *places.Manager) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	m := places.New(s)
	return NewEngine(s, m, NewVocabulary(config.SEOConfig{})), s, m
}

func createPost(t *testing.T, s *store.Store, title string, tags []string) int64 {
	t.Helper()
	id, err := s.CreatePost(&models.Post{Type: "post", Title: title}, tags)
	require.NoError(t, err)
	return id
}

func assignPlaceChain(t *testing.T, s *store.Store, m *places.Manager, postID int64, country, state, city, location string) {
	t.Helper()
	require.NoError(t, s.SetMeta(postID, models.MetaCountry, country))
	if state != "" {
		require.NoError(t, s.SetMeta(postID, models.MetaState, state))
	}
	if city != "" {
		require.NoError(t, s.SetMeta(postID, models.MetaCity, city))
	}
	if location != "" {
		require.NoError(t, s.SetMeta(postID, models.MetaLocation, location))
	}
	_, ok, err := m.ResolveAndAssign(postID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPhraseCollapsesRedundantLevels(t *testing.T) {
	phrase := PhraseFromChain([]string{"Texas", "Dallas", "Downtown Dallas"})
	assert.Equal(t, "Downtown Dallas, Texas", phrase)
}

func TestPhraseKeepsDistinctLevels(t *testing.T) {
	phrase := PhraseFromChain([]string{"United States", "Washington", "Seattle", "Elliott Bay"})
	assert.Equal(t, "Elliott Bay, Seattle, Washington", phrase)
}

func TestPhraseFromFlatFallback(t *testing.T) {
	assert.Equal(t, "Pike Place, Seattle, Washington", PhraseFromFlat(places.FlatLocation{
		Country: "United States", State: "Washington", City: "Seattle", Location: "Pike Place",
	}))
	assert.Equal(t, "Washington", PhraseFromFlat(places.FlatLocation{State: "Washington"}))
	assert.Equal(t, "Seattle", PhraseFromFlat(places.FlatLocation{City: "Seattle"}))
	assert.Equal(t, "", PhraseFromFlat(places.FlatLocation{}))
}

func TestTagFilteringDropsLocationAndJargon(t *testing.T) {
	e, s, m := newEngine(t)

	id := createPost(t, s, "", []string{"Texas", "Elliott Bay (Seattle)", "sunset", "f/2.8"})
	assignPlaceChain(t, s, m, id, "United States", "Washington", "Seattle", "Elliott Bay")

	// A Texas node exists elsewhere in the taxonomy, so the tag is
	// recognized as a place name even though it is not in this post's
	// ancestry.
	root, err := s.FindOrCreateChild(0, "United States")
	require.NoError(t, err)
	_, err = s.FindOrCreateChild(root, "Texas")
	require.NoError(t, err)

	scored, err := e.ScoredTags(id)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, "sunset", scored[0].Text)
	assert.GreaterOrEqual(t, scored[0].Score, premiumBonus)
}

func TestTierVariantMatching(t *testing.T) {
	v := NewVocabulary(config.SEOConfig{})
	assert.Equal(t, premiumBonus, v.tierBonus("sunsets"))
	assert.Equal(t, premiumBonus, v.tierBonus("dusk"))
	assert.Equal(t, highBonus, v.tierBonus("mountain peak"))
	assert.Equal(t, 0, v.tierBonus("paperwork"))
}

func TestOperatorExtensionsMerge(t *testing.T) {
	v := NewVocabulary(config.SEOConfig{
		ExtraBonus:     []string{"firefall"},
		ExtraBlacklist: []string{"Dropme"},
		ExtraPatterns:  []string{"spam"},
	})
	assert.Equal(t, premiumBonus, v.tierBonus("firefall"))
	assert.True(t, v.blacklisted("dropme"))
	assert.True(t, v.blacklisted("best spam ever"))
}

func TestSubstringTagsCollapse(t *testing.T) {
	scored := FilterAndScore(NewVocabulary(config.SEOConfig{}), ScoreInput{
		Tags: []string{"sunset", "sunset reflection"},
	})
	require.Len(t, scored, 1)
	assert.Equal(t, "sunset reflection", scored[0].Text)
}

func TestTagLengthBounds(t *testing.T) {
	scored := FilterAndScore(NewVocabulary(config.SEOConfig{}), ScoreInput{
		Tags: []string{"ab", "sunset", strings.Repeat("x", 25)},
	})
	require.Len(t, scored, 1)
	assert.Equal(t, "sunset", scored[0].Text)
}

func TestMinimumViableFloor(t *testing.T) {
	scored := FilterAndScore(NewVocabulary(config.SEOConfig{}), ScoreInput{
		Tags: []string{"hiking", "paperwork"},
	})
	require.Len(t, scored, 1)
	assert.Equal(t, "hiking", scored[0].Text)
	assert.Equal(t, 1, scored[0].Score)
}

func TestGenerateDescriptionUsesTagsAndLocation(t *testing.T) {
	e, s, m := newEngine(t)

	id := createPost(t, s, "Evening on the bay", []string{"sunset", "long exposure"})
	assignPlaceChain(t, s, m, id, "United States", "Washington", "Seattle", "Elliott Bay")

	desc, err := e.GenerateDescription(id, false)
	require.NoError(t, err)
	require.NotEmpty(t, desc)
	assert.LessOrEqual(t, len(desc), 155)
	assert.Contains(t, strings.ToLower(desc), "sunset")
	assert.Contains(t, desc, "Seattle")

	stored, ok, err := s.GetMeta(id, models.MetaSEODescription)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, desc, stored)
}

func TestGenerateDescriptionIdempotentSkip(t *testing.T) {
	e, s, _ := newEngine(t)

	id := createPost(t, s, "Harbor", []string{"sunset"})
	require.NoError(t, s.SetMeta(id, models.MetaSEODescription, "existing description"))

	desc, err := e.GenerateDescription(id, false)
	require.NoError(t, err)
	assert.Equal(t, "existing description", desc)

	desc, err = e.GenerateDescription(id, true)
	require.NoError(t, err)
	assert.NotEqual(t, "existing description", desc)
}

func TestGenerateDescriptionTitleFallback(t *testing.T) {
	e, s, _ := newEngine(t)

	id := createPost(t, s, "A quiet morning walk", nil)
	desc, err := e.GenerateDescription(id, false)
	require.NoError(t, err)
	assert.Equal(t, "Photography: A quiet morning walk.", desc)
}

func TestGenerateDescriptionNoUsableInput(t *testing.T) {
	e, s, _ := newEngine(t)

	id := createPost(t, s, "", nil)
	desc, err := e.GenerateDescription(id, false)
	require.NoError(t, err)
	assert.Empty(t, desc)

	exists, err := s.MetaExists(id, models.MetaSEODescription)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenerateDescriptionLengthContract(t *testing.T) {
	e, s, _ := newEngine(t)

	longTitle := strings.Repeat("wandering through the endless valley ", 8)
	id := createPost(t, s, longTitle, nil)

	desc, err := e.GenerateDescription(id, false)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(desc), 155)
	assert.True(t, strings.HasSuffix(desc, "..."))
	assert.LessOrEqual(t, len(strings.Fields(desc)), 23)
}

func TestTruncateWordsCap(t *testing.T) {
	text := strings.Repeat("word ", 40)
	out := truncateWords(strings.TrimSpace(text))
	assert.LessOrEqual(t, len(strings.Fields(out)), 23)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len(out), 155)
}
