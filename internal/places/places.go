// Package places manages the hierarchical location taxonomy
// (country→state→city→location) built from extracted flat fields, and keeps
// flat metadata and tree assignments in sync.
package places

import (
	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// FlatLocation is the four-level flat view of a place chain. Absent levels
// are empty strings.
type FlatLocation struct {
	Country  string
	State    string
	City     string
	Location string
}

// Manager resolves place nodes for posts against the taxonomy store.
type Manager struct {
	store *store.Store
}

// New creates a Manager over the given store.
func New(s *store.Store) *Manager {
	return &Manager{store: s}
}

// ResolveAndAssign walks the post's flat location fields top-down, finding or
// creating one node per non-empty level, and assigns the deepest node to the
// post (replacing any prior assignment). A skipped level does not break the
// chain: a city with no state still hangs off the country. Returns the
// assigned node id and whether anything was assigned.
func (m *Manager) ResolveAndAssign(postID int64) (int64, bool, error) {
	flat, err := m.flatFields(postID)
	if err != nil {
		return 0, false, err
	}

	var parent int64
	assigned := false
	for _, name := range []string{flat.Country, flat.State, flat.City, flat.Location} {
		if name == "" {
			continue
		}
		node, err := m.store.FindOrCreateChild(parent, name)
		if err != nil {
			return 0, false, err
		}
		parent = node
		assigned = true
	}
	if !assigned {
		return 0, false, nil
	}

	if err := m.store.AssignPlace(postID, parent); err != nil {
		return 0, false, err
	}
	if err := m.backfill(postID, parent); err != nil {
		return 0, false, err
	}
	return parent, true, nil
}

// AssignedNode returns the node currently assigned to the post.
func (m *Manager) AssignedNode(postID int64) (int64, bool, error) {
	return m.store.AssignedPlace(postID)
}

// AncestryNames returns the names of the assigned node's chain, root first.
// Empty when the post has no assignment.
func (m *Manager) AncestryNames(postID int64) ([]string, error) {
	nodeID, ok, err := m.store.AssignedPlace(postID)
	if err != nil || !ok {
		return nil, err
	}
	chain, err := m.store.Ancestors(nodeID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(chain))
	for i, n := range chain {
		names[i] = n.Name
	}
	return names, nil
}

// Flatten projects a node's ancestor chain onto the canonical four-level
// schema by depth from the root.
func (m *Manager) Flatten(nodeID int64) (FlatLocation, error) {
	var flat FlatLocation
	chain, err := m.store.Ancestors(nodeID)
	if err != nil {
		return flat, err
	}
	levels := []*string{&flat.Country, &flat.State, &flat.City, &flat.Location}
	for i, n := range chain {
		if i >= len(levels) {
			break
		}
		*levels[i] = n.Name
	}
	return flat, nil
}

// backfill writes tree-derived values into any flat field that is still
// empty. Fields extracted directly from EXIF/IPTC are never overwritten.
func (m *Manager) backfill(postID, nodeID int64) error {
	flat, err := m.Flatten(nodeID)
	if err != nil {
		return err
	}
	pairs := []struct{ key, value string }{
		{models.MetaCountry, flat.Country},
		{models.MetaState, flat.State},
		{models.MetaCity, flat.City},
		{models.MetaLocation, flat.Location},
	}
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		if _, err := m.store.SetMetaIfAbsent(postID, p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) flatFields(postID int64) (FlatLocation, error) {
	var flat FlatLocation
	var err error
	if flat.Country, err = m.metaOrEmpty(postID, models.MetaCountry); err != nil {
		return flat, err
	}
	if flat.State, err = m.metaOrEmpty(postID, models.MetaState); err != nil {
		return flat, err
	}
	if flat.City, err = m.metaOrEmpty(postID, models.MetaCity); err != nil {
		return flat, err
	}
	if flat.Location, err = m.metaOrEmpty(postID, models.MetaLocation); err != nil {
		return flat, err
	}
	return flat, nil
}

func (m *Manager) metaOrEmpty(postID int64, key string) (string, error) {
	v, _, err := m.store.GetMeta(postID, key)
	return v, err
}
