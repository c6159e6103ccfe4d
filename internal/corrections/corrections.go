// Package corrections exposes the three user-curated lookup tables that map
// raw EXIF/IPTC strings to display values: camera models, lens descriptions,
// and truncated IPTC locations.
package corrections

import (
	"errors"
	"fmt"

	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/pkg/common"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// MaxLocationRawLen is the IPTC sub-location field limit. Raw names only ever
// come from that truncated field, so anything longer is operator error.
const MaxLocationRawLen = 32

// Table is one correction table with exact-string-key lookup semantics.
type Table struct {
	store     *store.Store
	name      string
	maxRawLen int
}

// Cameras returns the camera-model correction table.
func Cameras(s *store.Store) *Table {
	return &Table{store: s, name: store.TableCamera}
}

// Lenses returns the lens-description correction table.
func Lenses(s *store.Store) *Table {
	return &Table{store: s, name: store.TableLens}
}

// Locations returns the truncated-location correction table.
func Locations(s *store.Store) *Table {
	return &Table{store: s, name: store.TableLocation, maxRawLen: MaxLocationRawLen}
}

// Name returns the backing table name.
func (t *Table) Name() string { return t.name }

// Lookup resolves a raw name; the second return is false when no correction
// exists.
func (t *Table) Lookup(rawName string) (string, bool, error) {
	if rawName == "" {
		return "", false, nil
	}
	return t.store.LookupCorrection(t.name, rawName)
}

func (t *Table) validate(rawName string) error {
	if rawName == "" {
		return common.NewValidationError("raw_name", "must not be empty")
	}
	if t.maxRawLen > 0 && len(rawName) > t.maxRawLen {
		return common.NewValidationError("raw_name",
			fmt.Sprintf("must be at most %d characters", t.maxRawLen))
	}
	return nil
}

// Upsert inserts a new row when id is zero, otherwise updates the existing
// row. Duplicate raw names fail with a duplicate-key error.
func (t *Table) Upsert(id int64, rawName, pretty string) (*models.CorrectionEntry, error) {
	if err := t.validate(rawName); err != nil {
		return nil, err
	}
	if id == 0 {
		return t.store.InsertCorrection(t.name, rawName, pretty)
	}
	return t.store.UpdateCorrection(t.name, id, rawName, pretty)
}

// Delete removes a row by id; reports whether a row was removed.
func (t *Table) Delete(id int64) (bool, error) {
	return t.store.DeleteCorrection(t.name, id)
}

// List returns every row ordered by raw name.
func (t *Table) List() ([]models.CorrectionEntry, error) {
	return t.store.ListCorrections(t.name)
}

// Tables bundles the three correction tables the extractor needs.
type Tables struct {
	Cameras   *Table
	Lenses    *Table
	Locations *Table
}

// NewTables opens all three tables over one store.
func NewTables(s *store.Store) *Tables {
	return &Tables{
		Cameras:   Cameras(s),
		Lenses:    Lenses(s),
		Locations: Locations(s),
	}
}

// Seed inserts the default rows on a fresh database. Rows whose raw name is
// already present are left alone, so seeding is safe to repeat on startup.
func (t *Tables) Seed() error {
	type row struct{ raw, pretty string }
	seed := func(table *Table, rows []row) error {
		for _, r := range rows {
			if _, err := table.Upsert(0, r.raw, r.pretty); err != nil {
				var dup *common.DuplicateKeyError
				if errors.As(err, &dup) {
					continue
				}
				return err
			}
		}
		return nil
	}

	if err := seed(t.Cameras, []row{
		{"ILCE-7RM2", "Sony a7RII"},
		{"ILCE-7M3", "Sony a7III"},
		{"Canon EOS R5", "Canon R5"},
		{"iPhone 15 Pro Max", "Apple iPhone 15 Pro Max"},
		{"iPhone 6s", "Apple iPhone 6s"},
		{"X100V", "Fujifilm X100V"},
	}); err != nil {
		return err
	}
	if err := seed(t.Lenses, []row{
		{"FE 55mm F1.8 ZA", "Sony Zeiss 55mm ƒ/1.8"},
		{"FE 24-70mm F2.8 GM", "Sony 24-70mm ƒ/2.8 GM"},
		{"iPhone 15 Pro Max back triple camera 6.765mm f/1.78", "iPhone 15 Pro Max main camera"},
	}); err != nil {
		return err
	}
	return seed(t.Locations, []row{
		// IPTC truncation artifacts and city normalizations.
		{"Las Vegas Valley", "Las Vegas"},
		{"Golden Gate National Recreation", "Golden Gate National Recreation Area"},
	})
}
