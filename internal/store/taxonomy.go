package store

import (
	"database/sql"

	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// FindOrCreateChild returns the id of the node with the given name under
// parentID (zero for the root level), creating it when absent. INSERT OR
// IGNORE against the UNIQUE(parent_id, name) constraint keeps concurrent
// creators from producing duplicate nodes.
func (s *Store) FindOrCreateChild(parentID int64, name string) (int64, error) {
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO place_nodes (name, parent_id) VALUES (?, ?)`, name, parentID,
	); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM place_nodes WHERE parent_id = ? AND name = ?`, parentID, name,
	).Scan(&id)
	return id, err
}

// GetNode fetches one node by id.
func (s *Store) GetNode(nodeID int64) (*models.PlaceNode, error) {
	var n models.PlaceNode
	err := s.db.QueryRow(
		`SELECT id, name, parent_id FROM place_nodes WHERE id = ?`, nodeID,
	).Scan(&n.ID, &n.Name, &n.ParentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Ancestors returns the chain from root down to and including nodeID.
func (s *Store) Ancestors(nodeID int64) ([]models.PlaceNode, error) {
	var chain []models.PlaceNode
	id := nodeID
	for id != 0 {
		n, err := s.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n == nil {
			break
		}
		chain = append([]models.PlaceNode{*n}, chain...)
		id = n.ParentID
	}
	return chain, nil
}

// Children lists the direct children of a node (zero for root level).
func (s *Store) Children(nodeID int64) ([]models.PlaceNode, error) {
	rows, err := s.db.Query(
		`SELECT id, name, parent_id FROM place_nodes WHERE parent_id = ? ORDER BY name`, nodeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PlaceNode
	for rows.Next() {
		var n models.PlaceNode
		if err := rows.Scan(&n.ID, &n.Name, &n.ParentID); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// AllPlaceNames returns the distinct names of every node in the taxonomy.
// The SEO engine uses this to recognize tags that are really place names.
func (s *Store) AllPlaceNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT name FROM place_nodes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// AssignPlace tags a post with exactly one node, replacing any prior
// assignment.
func (s *Store) AssignPlace(postID, nodeID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO place_assignments (post_id, node_id) VALUES (?, ?)
         ON CONFLICT (post_id) DO UPDATE SET node_id = excluded.node_id`,
		postID, nodeID,
	)
	return err
}

// AssignedPlace returns the node assigned to a post, if any.
func (s *Store) AssignedPlace(postID int64) (int64, bool, error) {
	var nodeID int64
	err := s.db.QueryRow(
		`SELECT node_id FROM place_assignments WHERE post_id = ?`, postID,
	).Scan(&nodeID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return nodeID, true, nil
}
