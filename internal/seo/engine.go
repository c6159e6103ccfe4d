// Package seo synthesizes search descriptions for posts from their scored
// tags, resolved location and enrichment metadata.
package seo

import (
	"strings"

	"github.com/bstardust/photo-seo-enricher/internal/logger"
	"github.com/bstardust/photo-seo-enricher/internal/places"
	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// Engine generates SEO descriptions for posts.
type Engine struct {
	store  *store.Store
	places *places.Manager
	vocab  *Vocabulary
}

// NewEngine creates an Engine over the given store and place manager.
func NewEngine(s *store.Store, p *places.Manager, v *Vocabulary) *Engine {
	return &Engine{store: s, places: p, vocab: v}
}

// GenerateDescription builds and stores a description for the post. It
// skips posts that already have one unless force is set, and returns the
// stored description. An empty return with nil error means no usable input
// existed. Panics during generation are logged and swallowed so a single
// bad post never takes down a batch.
func (e *Engine) GenerateDescription(postID int64, force bool) (desc string, err error) {
	if !force {
		existing, ok, gerr := e.store.GetMeta(postID, models.MetaSEODescription)
		if gerr != nil {
			return "", gerr
		}
		if ok && existing != "" {
			return existing, nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("seo generation panicked for post %d: %v", postID, r)
			desc, err = "", nil
		}
	}()

	post, err := e.store.GetPost(postID)
	if err != nil {
		return "", err
	}
	tags, err := e.store.PostTags(postID)
	if err != nil {
		return "", err
	}

	chain, err := e.places.AncestryNames(postID)
	if err != nil {
		return "", err
	}
	phrase := PhraseFromChain(chain)
	if phrase == "" {
		flat, ferr := e.flatLocation(postID)
		if ferr != nil {
			return "", ferr
		}
		phrase = PhraseFromFlat(flat)
	}

	placeNames, err := e.store.AllPlaceNames()
	if err != nil {
		return "", err
	}
	weather, _, err := e.store.GetMeta(postID, models.MetaWeatherSummary)
	if err != nil {
		return "", err
	}
	state, _, err := e.store.GetMeta(postID, models.MetaState)
	if err != nil {
		return "", err
	}
	city, _, err := e.store.GetMeta(postID, models.MetaCity)
	if err != nil {
		return "", err
	}

	scored := FilterAndScore(e.vocab, ScoreInput{
		Tags:           tags,
		Phrase:         phrase,
		AncestryNames:  chain,
		PlaceNames:     placeNames,
		Title:          post.Title,
		Content:        post.Content,
		Excerpt:        post.Excerpt,
		WeatherSummary: weather,
	})

	best := selectBest(buildCandidates(scored, phrase), scored, phrase, state, city)
	if best == "" {
		title := strings.TrimSpace(post.Title)
		if title == "" {
			return "", nil
		}
		best = "Photography: " + title + "."
	}
	if len(best) > maxDescriptionLen {
		best = truncateWords(best)
	}

	if err := e.store.SetMeta(postID, models.MetaSEODescription, best); err != nil {
		return "", err
	}
	logger.Debug("generated description for post %d: %q", postID, best)
	return best, nil
}

// ScoredTags exposes the filter/score pass for diagnostics without writing
// anything.
func (e *Engine) ScoredTags(postID int64) ([]models.ScoredTag, error) {
	post, err := e.store.GetPost(postID)
	if err != nil {
		return nil, err
	}
	tags, err := e.store.PostTags(postID)
	if err != nil {
		return nil, err
	}
	chain, err := e.places.AncestryNames(postID)
	if err != nil {
		return nil, err
	}
	phrase := PhraseFromChain(chain)
	placeNames, err := e.store.AllPlaceNames()
	if err != nil {
		return nil, err
	}
	weather, _, err := e.store.GetMeta(postID, models.MetaWeatherSummary)
	if err != nil {
		return nil, err
	}
	return FilterAndScore(e.vocab, ScoreInput{
		Tags:           tags,
		Phrase:         phrase,
		AncestryNames:  chain,
		PlaceNames:     placeNames,
		Title:          post.Title,
		Content:        post.Content,
		Excerpt:        post.Excerpt,
		WeatherSummary: weather,
	}), nil
}

func (e *Engine) flatLocation(postID int64) (places.FlatLocation, error) {
	var f places.FlatLocation
	var err error
	if f.Country, _, err = e.store.GetMeta(postID, models.MetaCountry); err != nil {
		return f, err
	}
	if f.State, _, err = e.store.GetMeta(postID, models.MetaState); err != nil {
		return f, err
	}
	if f.City, _, err = e.store.GetMeta(postID, models.MetaCity); err != nil {
		return f, err
	}
	if f.Location, _, err = e.store.GetMeta(postID, models.MetaLocation); err != nil {
		return f, err
	}
	return f, nil
}
