package store

import (
	"database/sql"

	"github.com/bstardust/photo-seo-enricher/pkg/common"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// CreatePost inserts a post and its ordered free-form tags.
func (s *Store) CreatePost(p *models.Post, tags []string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec(
		`INSERT INTO posts (type, title, content, excerpt, photo_path) VALUES (?, ?, ?, ?, ?)`,
		p.Type, p.Title, p.Content, p.Excerpt, p.PhotoPath,
	)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	for i, tag := range tags {
		if _, err := tx.Exec(
			`INSERT INTO post_tags (post_id, position, tag) VALUES (?, ?, ?)`, id, i, tag,
		); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// GetPost fetches one post by id.
func (s *Store) GetPost(id int64) (*models.Post, error) {
	var p models.Post
	err := s.db.QueryRow(
		`SELECT id, type, title, content, excerpt, photo_path, created_at, updated_at
         FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.Type, &p.Title, &p.Content, &p.Excerpt, &p.PhotoPath, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, common.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPostByPhoto returns the post owning a photo path, if one exists. The
// watch command uses this to avoid ingesting the same file twice.
func (s *Store) FindPostByPhoto(photoPath string) (*models.Post, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM posts WHERE photo_path = ?`, photoPath).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.GetPost(id)
}

// PostTags returns the free-form tags for a post in their original order.
func (s *Store) PostTags(postID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT tag FROM post_tags WHERE post_id = ? ORDER BY position`, postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListPostIDs returns every post id, oldest first.
func (s *Store) ListPostIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM posts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TouchPost bumps updated_at; called after a processing pass completes.
func (s *Store) TouchPost(id int64) error {
	_, err := s.db.Exec(`UPDATE posts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
