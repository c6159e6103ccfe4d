package corrections

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/pkg/common"
)

func newTables(t *testing.T) *Tables {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewTables(s)
}

func TestUpsertAndLookup(t *testing.T) {
	tb := newTables(t)

	entry, err := tb.Cameras.Upsert(0, "NIKON Z 8", "Nikon Z8")
	assert.NoError(t, err)
	assert.NotZero(t, entry.ID)

	pretty, ok, err := tb.Cameras.Lookup("NIKON Z 8")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Nikon Z8", pretty)

	// Update by id changes the pretty name in place.
	updated, err := tb.Cameras.Upsert(entry.ID, "NIKON Z 8", "Nikon Z 8")
	assert.NoError(t, err)
	assert.Equal(t, entry.ID, updated.ID)
	assert.Equal(t, "Nikon Z 8", updated.Pretty)
}

func TestDuplicateInsertFails(t *testing.T) {
	tb := newTables(t)

	_, err := tb.Lenses.Upsert(0, "RF24-70mm F2.8 L IS USM", "Canon RF 24-70mm ƒ/2.8L")
	assert.NoError(t, err)

	_, err = tb.Lenses.Upsert(0, "RF24-70mm F2.8 L IS USM", "something else")
	var dup *common.DuplicateKeyError
	assert.ErrorAs(t, err, &dup)
}

func TestLocationRawNameLength(t *testing.T) {
	tb := newTables(t)

	// 32 characters is accepted, 33 is not.
	ok32 := strings.Repeat("a", 32)
	_, err := tb.Locations.Upsert(0, ok32, "full name")
	assert.NoError(t, err)

	too33 := strings.Repeat("a", 33)
	_, err = tb.Locations.Upsert(0, too33, "full name")
	var v *common.ValidationError
	assert.ErrorAs(t, err, &v)

	// Camera raw names have no such limit.
	_, err = tb.Cameras.Upsert(0, too33, "fine")
	assert.NoError(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	tb := newTables(t)

	assert.NoError(t, tb.Seed())
	assert.NoError(t, tb.Seed())

	pretty, ok, err := tb.Locations.Lookup("Las Vegas Valley")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Las Vegas", pretty)

	list, err := tb.Cameras.List()
	assert.NoError(t, err)
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].RawName, list[i].RawName)
	}
}

func TestDelete(t *testing.T) {
	tb := newTables(t)

	entry, _ := tb.Cameras.Upsert(0, "DMC-GH5", "Panasonic GH5")
	deleted, err := tb.Cameras.Delete(entry.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = tb.Cameras.Delete(entry.ID)
	assert.NoError(t, err)
	assert.False(t, deleted)
}
