package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bstardust/photo-seo-enricher/pkg/common"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMetaSetIfAbsent(t *testing.T) {
	s := newTestStore(t)

	set, err := s.SetMetaIfAbsent(1, models.MetaCamera, "Sony a7RII")
	assert.NoError(t, err)
	assert.True(t, set)

	// Second write does not overwrite.
	set, err = s.SetMetaIfAbsent(1, models.MetaCamera, "Canon R5")
	assert.NoError(t, err)
	assert.False(t, set)

	v, ok, err := s.GetMeta(1, models.MetaCamera)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sony a7RII", v)

	// An explicit clear re-opens the key.
	assert.NoError(t, s.ClearMeta(1, []string{models.MetaCamera}))
	set, err = s.SetMetaIfAbsent(1, models.MetaCamera, "Canon R5")
	assert.NoError(t, err)
	assert.True(t, set)
}

func TestMetaLifecycle(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.SetMeta(7, models.MetaCity, "Seattle"))
	assert.NoError(t, s.SetMeta(7, models.MetaCity, "Dallas"))
	v, ok, _ := s.GetMeta(7, models.MetaCity)
	assert.True(t, ok)
	assert.Equal(t, "Dallas", v)

	exists, _ := s.MetaExists(7, models.MetaCity)
	assert.True(t, exists)

	assert.NoError(t, s.DeleteMeta(7, models.MetaCity))
	_, ok, _ = s.GetMeta(7, models.MetaCity)
	assert.False(t, ok)
}

func TestCorrectionUniqueness(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.InsertCorrection(TableCamera, "ILCE-7RM2", "Sony a7RII")
	assert.NoError(t, err)
	assert.Equal(t, "Sony a7RII", entry.Pretty)

	_, err = s.InsertCorrection(TableCamera, "ILCE-7RM2", "Sony a7R II")
	var dup *common.DuplicateKeyError
	assert.ErrorAs(t, err, &dup)

	pretty, ok, err := s.LookupCorrection(TableCamera, "ILCE-7RM2")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sony a7RII", pretty)

	_, ok, err = s.LookupCorrection(TableCamera, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCorrectionsListOrdered(t *testing.T) {
	s := newTestStore(t)

	s.InsertCorrection(TableLens, "FE 55mm F1.8 ZA", "Sony Zeiss 55mm ƒ/1.8")
	s.InsertCorrection(TableLens, "E 35mm F1.8 OSS", "Sony 35mm ƒ/1.8")

	list, err := s.ListCorrections(TableLens)
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "E 35mm F1.8 OSS", list[0].RawName)
}

func TestFindOrCreateChildIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	us, err := s.FindOrCreateChild(0, "United States")
	assert.NoError(t, err)
	us2, err := s.FindOrCreateChild(0, "United States")
	assert.NoError(t, err)
	assert.Equal(t, us, us2)

	wa, _ := s.FindOrCreateChild(us, "Washington")
	seattle, _ := s.FindOrCreateChild(wa, "Seattle")

	chain, err := s.Ancestors(seattle)
	assert.NoError(t, err)
	assert.Len(t, chain, 3)
	assert.Equal(t, "United States", chain[0].Name)
	assert.Equal(t, "Seattle", chain[2].Name)
}

func TestAssignPlaceReplacesPrior(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.FindOrCreateChild(0, "France")
	b, _ := s.FindOrCreateChild(0, "Italy")

	assert.NoError(t, s.AssignPlace(3, a))
	assert.NoError(t, s.AssignPlace(3, b))

	nodeID, ok, err := s.AssignedPlace(3)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, b, nodeID)
}

func TestWeatherAttemptRoundTrip(t *testing.T) {
	s := newTestStore(t)

	a, err := s.WeatherAttempt(9)
	assert.NoError(t, err)
	assert.Zero(t, a.LastFailure)

	a.LastAttempt = 1000
	a.LastFailure = 1000
	assert.NoError(t, s.SaveWeatherAttempt(a))

	got, err := s.WeatherAttempt(9)
	assert.NoError(t, err)
	assert.Equal(t, int64(1000), got.LastFailure)
}

func TestPosts(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePost(&models.Post{
		Type: "post", Title: "Elliott Bay at dusk", PhotoPath: "photos/bay.jpg",
	}, []string{"sunset", "waterfront"})
	assert.NoError(t, err)

	p, err := s.GetPost(id)
	assert.NoError(t, err)
	assert.Equal(t, "Elliott Bay at dusk", p.Title)

	tags, err := s.PostTags(id)
	assert.NoError(t, err)
	assert.Equal(t, []string{"sunset", "waterfront"}, tags)

	found, err := s.FindPostByPhoto("photos/bay.jpg")
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, id, found.ID)

	_, err = s.GetPost(999)
	var nf *common.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
