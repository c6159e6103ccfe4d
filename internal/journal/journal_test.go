// internal/journal/journal_test.go
package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournal(t *testing.T) *Journal {
	return New(filepath.Join(t.TempDir(), "journal.json"))
}

func TestMarkAndLookup(t *testing.T) {
	j := newJournal(t)
	j.MarkProcessed("photos/bay.jpg", 7)

	assert.True(t, j.IsProcessed("photos/bay.jpg"))
	assert.False(t, j.IsProcessed("photos/other.jpg"))

	id, ok := j.PostID("photos/bay.jpg")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	total, processed := j.Stats()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, processed)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	j := New(path)
	j.MarkProcessed("photos/bay.jpg", 7)
	require.NoError(t, j.Save())

	fresh := New(path)
	require.NoError(t, fresh.Load())
	assert.True(t, fresh.IsProcessed("photos/bay.jpg"))
}

func TestFlushBypassesSaveThrottle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	j := New(path)
	j.MarkProcessed("photos/first.jpg", 1)
	require.NoError(t, j.Save())

	// A second Save inside the throttle window is a no-op, so the new
	// entry only reaches disk through Flush.
	j.MarkProcessed("photos/second.jpg", 2)
	require.NoError(t, j.Save())

	onDisk := New(path)
	require.NoError(t, onDisk.Load())
	assert.False(t, onDisk.IsProcessed("photos/second.jpg"))

	require.NoError(t, j.Flush())

	onDisk = New(path)
	require.NoError(t, onDisk.Load())
	assert.True(t, onDisk.IsProcessed("photos/first.jpg"))
	assert.True(t, onDisk.IsProcessed("photos/second.jpg"))
}

func TestClearWritesEmptyJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	j := New(path)
	j.MarkProcessed("photos/bay.jpg", 7)
	require.NoError(t, j.Flush())

	j.Clear()

	fresh := New(path)
	require.NoError(t, fresh.Load())
	assert.False(t, fresh.IsProcessed("photos/bay.jpg"))
	total, _ := fresh.Stats()
	assert.Zero(t, total)
}
