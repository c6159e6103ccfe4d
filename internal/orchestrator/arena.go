package orchestrator

import "sync"

// Arena tracks the posts already handled during one logical batch so
// overlapping triggers for the same post are deduplicated. Each batch gets
// its own Arena; nothing is shared across batches.
type Arena struct {
	mu   sync.Mutex
	seen map[int64]bool
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{seen: make(map[int64]bool)}
}

// Claim marks a post as in-flight. It returns false if the post was already
// claimed during this batch.
func (a *Arena) Claim(postID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.seen[postID] {
		return false
	}
	a.seen[postID] = true
	return true
}

// Size returns the number of posts claimed so far.
func (a *Arena) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.seen)
}
