package store

import (
	"database/sql"
	"strings"

	"github.com/bstardust/photo-seo-enricher/pkg/common"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// Correction table names. Only these reach SQL, never caller input.
const (
	TableCamera   = "corrections_camera"
	TableLens     = "corrections_lens"
	TableLocation = "corrections_location"
)

func validCorrectionTable(table string) bool {
	switch table {
	case TableCamera, TableLens, TableLocation:
		return true
	}
	return false
}

// LookupCorrection resolves a raw name to its pretty replacement. Absence is
// not an error: the extractor falls back to the raw value.
func (s *Store) LookupCorrection(table, rawName string) (string, bool, error) {
	if !validCorrectionTable(table) {
		return "", false, common.NewValidationError("table", "unknown correction table "+table)
	}
	var pretty string
	err := s.db.QueryRow(
		`SELECT pretty_name FROM `+table+` WHERE raw_name = ?`, rawName,
	).Scan(&pretty)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return pretty, true, nil
}

// InsertCorrection adds a new row; a duplicate raw name fails with a typed
// duplicate-key error.
func (s *Store) InsertCorrection(table, rawName, pretty string) (*models.CorrectionEntry, error) {
	if !validCorrectionTable(table) {
		return nil, common.NewValidationError("table", "unknown correction table "+table)
	}
	res, err := s.db.Exec(
		`INSERT INTO `+table+` (raw_name, pretty_name) VALUES (?, ?)`, rawName, pretty,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "constraint") {
			return nil, common.NewDuplicateKeyError(table, rawName)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetCorrection(table, id)
}

// UpdateCorrection rewrites an existing row by id.
func (s *Store) UpdateCorrection(table string, id int64, rawName, pretty string) (*models.CorrectionEntry, error) {
	if !validCorrectionTable(table) {
		return nil, common.NewValidationError("table", "unknown correction table "+table)
	}
	res, err := s.db.Exec(
		`UPDATE `+table+` SET raw_name = ?, pretty_name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rawName, pretty, id,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "constraint") {
			return nil, common.NewDuplicateKeyError(table, rawName)
		}
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NewNotFoundError("correction", id)
	}
	return s.GetCorrection(table, id)
}

// GetCorrection fetches one row by id.
func (s *Store) GetCorrection(table string, id int64) (*models.CorrectionEntry, error) {
	if !validCorrectionTable(table) {
		return nil, common.NewValidationError("table", "unknown correction table "+table)
	}
	var e models.CorrectionEntry
	err := s.db.QueryRow(
		`SELECT id, raw_name, pretty_name, created_at, updated_at FROM `+table+` WHERE id = ?`, id,
	).Scan(&e.ID, &e.RawName, &e.Pretty, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, common.NewNotFoundError("correction", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteCorrection removes a row; reports whether anything was deleted.
func (s *Store) DeleteCorrection(table string, id int64) (bool, error) {
	if !validCorrectionTable(table) {
		return false, common.NewValidationError("table", "unknown correction table "+table)
	}
	res, err := s.db.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListCorrections returns all rows ordered by raw name.
func (s *Store) ListCorrections(table string) ([]models.CorrectionEntry, error) {
	if !validCorrectionTable(table) {
		return nil, common.NewValidationError("table", "unknown correction table "+table)
	}
	rows, err := s.db.Query(
		`SELECT id, raw_name, pretty_name, created_at, updated_at FROM ` + table + ` ORDER BY raw_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CorrectionEntry
	for rows.Next() {
		var e models.CorrectionEntry
		if err := rows.Scan(&e.ID, &e.RawName, &e.Pretty, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
