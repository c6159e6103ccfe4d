package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bstardust/photo-seo-enricher/internal/corrections"
	"github.com/bstardust/photo-seo-enricher/internal/exifreader"
	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

func newExtractor(t *testing.T) (*Extractor, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	tables := corrections.NewTables(s)
	if _, err := tables.Cameras.Upsert(0, "ILCE-7RM2", "Sony a7RII"); err != nil {
		t.Fatalf("seed camera correction: %v", err)
	}
	if _, err := tables.Locations.Upsert(0, "Las Vegas Valley", "Las Vegas"); err != nil {
		t.Fatalf("seed location correction: %v", err)
	}
	return New(s, tables), s
}

func sceneTags() exifreader.RawTags {
	return exifreader.RawTags{
		exifreader.TagModel:            "ILCE-7RM2",
		exifreader.TagAperture:         "6/1",
		exifreader.TagShutterSpeed:     "4/1",
		exifreader.TagGPSLatitude:      []float64{38, 53, 23},
		exifreader.TagGPSLatitudeRef:   "N",
		exifreader.TagGPSLongitude:     []float64{77, 2, 0},
		exifreader.TagGPSLongitudeRef:  "W",
		exifreader.TagDateTimeOriginal: "2023:06:15 14:30:00",
	}
}

func meta(t *testing.T, s *store.Store, key string) string {
	t.Helper()
	v, _, err := s.GetMeta(1, key)
	assert.NoError(t, err)
	return v
}

func TestExtractScene(t *testing.T) {
	e, s := newExtractor(t)

	assert.NoError(t, e.Extract(1, Input{Tags: sceneTags()}))

	assert.Equal(t, "Sony a7RII", meta(t, s, models.MetaCamera))
	assert.Equal(t, "ƒ/8.0", meta(t, s, models.MetaFStop))
	assert.Equal(t, "1/16s", meta(t, s, models.MetaShutter))
	assert.Equal(t, "38.8897,-77.0333", meta(t, s, models.MetaGPS))
	assert.Equal(t, "2023-06-15", meta(t, s, models.MetaDate))
	assert.Equal(t, "Afternoon", meta(t, s, models.MetaTimeOfDay))
	assert.Equal(t, "1686839400", meta(t, s, models.MetaUnixTime))
	assert.Equal(t, "Thursday", meta(t, s, models.MetaWeekday))
	assert.NotEmpty(t, meta(t, s, models.MetaGeoHash))
	assert.NotEmpty(t, meta(t, s, models.MetaGPCode))
}

func TestExtractIsIdempotent(t *testing.T) {
	e, s := newExtractor(t)

	assert.NoError(t, e.Extract(1, Input{Tags: sceneTags()}))
	before, err := s.AllMeta(1)
	assert.NoError(t, err)

	// A second pass without a clear changes nothing, even if the source
	// tags now disagree.
	tags := sceneTags()
	tags[exifreader.TagModel] = "Canon EOS R5"
	assert.NoError(t, e.Extract(1, Input{Tags: tags}))

	after, err := s.AllMeta(1)
	assert.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExtractSkipsMissingSources(t *testing.T) {
	e, s := newExtractor(t)

	assert.NoError(t, e.Extract(1, Input{Tags: exifreader.RawTags{}}))
	all, err := s.AllMeta(1)
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestNullIslandIsNoGPS(t *testing.T) {
	e, s := newExtractor(t)

	tags := sceneTags()
	tags[exifreader.TagGPSLatitude] = []float64{0, 0, 0}
	tags[exifreader.TagGPSLongitude] = []float64{0, 0, 0}
	assert.NoError(t, e.Extract(1, Input{Tags: tags}))

	_, ok, _ := s.GetMeta(1, models.MetaGPS)
	assert.False(t, ok)
	_, ok, _ = s.GetMeta(1, models.MetaGeoHash)
	assert.False(t, ok)
}

func TestDimensionsAndAltitude(t *testing.T) {
	e, s := newExtractor(t)

	tags := exifreader.RawTags{exifreader.TagGPSAltitude: "12345/100"}
	assert.NoError(t, e.Extract(1, Input{Tags: tags, Width: 6000, Height: 4000}))

	assert.Equal(t, "6000x4000", meta(t, s, models.MetaDimensions))
	assert.Equal(t, "24", meta(t, s, models.MetaMegapixels))
	assert.Equal(t, "3:2", meta(t, s, models.MetaAspectRatio))
	assert.Equal(t, "123.45", meta(t, s, models.MetaGPSAlt))
}

func TestAltitudeZeroDenominatorSkipped(t *testing.T) {
	e, s := newExtractor(t)

	tags := exifreader.RawTags{exifreader.TagGPSAltitude: "500/0"}
	assert.NoError(t, e.Extract(1, Input{Tags: tags}))

	_, ok, _ := s.GetMeta(1, models.MetaGPSAlt)
	assert.False(t, ok)
}

func TestIPhoneLensOverride(t *testing.T) {
	e, s := newExtractor(t)

	// Correct the raw model to the generic name; the lens description then
	// pins the specific device.
	_, err := corrections.Cameras(s).Upsert(0, "iPhone", "Apple iPhone")
	assert.NoError(t, err)

	tags := exifreader.RawTags{
		exifreader.TagModel:     "iPhone",
		exifreader.TagLensModel: "iPhone 15 Pro Max back triple camera 6.765mm f/1.78",
	}
	assert.NoError(t, e.Extract(1, Input{Tags: tags}))
	assert.Equal(t, "Apple iPhone 15 Pro Max", meta(t, s, models.MetaCamera))
}

func TestDefaultLensForFixedLensCamera(t *testing.T) {
	e, s := newExtractor(t)

	_, err := corrections.Cameras(s).Upsert(0, "X100V", "Fujifilm X100V")
	assert.NoError(t, err)

	tags := exifreader.RawTags{exifreader.TagModel: "X100V"}
	assert.NoError(t, e.Extract(1, Input{Tags: tags}))
	assert.Equal(t, "23mm ƒ/2", meta(t, s, models.MetaLens))
}

func TestIPTCLocationCorrection(t *testing.T) {
	e, s := newExtractor(t)

	iptc := map[string]string{
		exifreader.TagCity:        "Las Vegas Valley",
		exifreader.TagState:       "Nevada",
		exifreader.TagCountry:     "United States",
		exifreader.TagSubLocation: "Fremont Street",
	}
	assert.NoError(t, e.Extract(1, Input{IPTC: iptc}))

	assert.Equal(t, "Las Vegas", meta(t, s, models.MetaCity))
	assert.Equal(t, "Nevada", meta(t, s, models.MetaState))
	assert.Equal(t, "Fremont Street", meta(t, s, models.MetaLocation))
}

func TestMalformedDateSkipped(t *testing.T) {
	e, s := newExtractor(t)

	tags := exifreader.RawTags{exifreader.TagDateTimeOriginal: "not a date"}
	assert.NoError(t, e.Extract(1, Input{Tags: tags}))

	_, ok, _ := s.GetMeta(1, models.MetaUnixTime)
	assert.False(t, ok)
}
