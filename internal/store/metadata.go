package store

import "database/sql"

// GetMeta returns the value for key on a post, with a presence flag.
func (s *Store) GetMeta(postID int64, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM post_meta WHERE post_id = ? AND key = ?`, postID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetMeta writes a key unconditionally, replacing any prior value.
func (s *Store) SetMeta(postID int64, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO post_meta (post_id, key, value) VALUES (?, ?, ?)
         ON CONFLICT (post_id, key) DO UPDATE SET value = excluded.value`,
		postID, key, value,
	)
	return err
}

// SetMetaIfAbsent writes a key only when it has no value yet. The extractor
// uses this for every field so that a second pass without an intervening
// clear never changes anything. Returns whether the write took effect.
func (s *Store) SetMetaIfAbsent(postID int64, key, value string) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO post_meta (post_id, key, value) VALUES (?, ?, ?)`,
		postID, key, value,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteMeta removes a single key.
func (s *Store) DeleteMeta(postID int64, key string) error {
	_, err := s.db.Exec(`DELETE FROM post_meta WHERE post_id = ? AND key = ?`, postID, key)
	return err
}

// MetaExists reports whether key has a value on the post.
func (s *Store) MetaExists(postID int64, key string) (bool, error) {
	_, ok, err := s.GetMeta(postID, key)
	return ok, err
}

// ClearMeta deletes the given keys in bulk; used by the clear-before-regenerate
// policy before a fresh extraction pass.
func (s *Store) ClearMeta(postID int64, keys []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM post_meta WHERE post_id = ? AND key = ?`, postID, key); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// AllMeta returns every key/value on the post.
func (s *Store) AllMeta(postID int64) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM post_meta WHERE post_id = ?`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
