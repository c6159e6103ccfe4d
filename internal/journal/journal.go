// internal/journal/journal.go
package journal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bstardust/photo-seo-enricher/internal/logger"
)

// Journal tracks which photos have been ingested so an interrupted batch
// can resume without re-processing
type Journal struct {
	mu           sync.Mutex
	path         string
	Photos       map[string]Entry `json:"photos"`
	lastSaveTime time.Time
	saveInterval time.Duration
	batchCount   int
	cancelSave   context.CancelFunc
}

// Entry represents a journal entry for a processed photo
type Entry struct {
	Path      string    `json:"path"`
	PostID    int64     `json:"post_id"`
	Processed bool      `json:"processed"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new journal
func New(path string) *Journal {
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".photo-seo-journal.json")
		} else {
			path = ".photo-seo-journal.json"
		}
	}

	logger.Debug("Creating journal with path: %s", path)

	return &Journal{
		path:         path,
		Photos:       make(map[string]Entry),
		saveInterval: 30 * time.Second,
	}
}

// Load loads the journal from disk
func (j *Journal) Load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := os.Stat(j.path); os.IsNotExist(err) {
		logger.Info("No journal file found at %s, starting fresh", j.path)
		return nil
	}

	data, err := os.ReadFile(j.path)
	if err != nil {
		return err
	}

	var loaded Journal
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded.Photos != nil {
		j.Photos = loaded.Photos
	}

	logger.Info("Loaded journal with %d entries from %s", len(j.Photos), j.path)
	return nil
}

// StartPeriodicSave flushes the journal in the background until the context
// is canceled or StopPeriodicSave is called
func (j *Journal) StartPeriodicSave(ctx context.Context) {
	saveCtx, cancel := context.WithCancel(ctx)
	j.cancelSave = cancel

	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := j.Save(); err != nil {
					logger.Error("Failed to perform periodic journal save: %v", err)
				}
			case <-saveCtx.Done():
				logger.Debug("Stopping periodic journal save")
				return
			}
		}
	}()
	logger.Debug("Started periodic journal save")
}

// StopPeriodicSave stops the background flusher
func (j *Journal) StopPeriodicSave() {
	if j.cancelSave != nil {
		j.cancelSave()
		j.cancelSave = nil
	}
}

// Save saves the journal to disk, skipping the write when one happened
// within the last save interval
func (j *Journal) Save() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.save()
}

// Flush writes the journal to disk unconditionally. Shutdown paths use
// this so entries recorded since the last throttled save are not lost
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.write()
}

func (j *Journal) save() error {
	if time.Since(j.lastSaveTime) < j.saveInterval && len(j.Photos) > 0 {
		return nil // Don't save too frequently
	}
	return j.write()
}

func (j *Journal) write() error {
	j.lastSaveTime = time.Now()

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("Failed to create journal directory: %v", err)
		return err
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal journal: %v", err)
		return err
	}

	if err := os.WriteFile(j.path, data, 0644); err != nil {
		logger.Error("Failed to write journal file: %v", err)
		return err
	}

	logger.Debug("Saved journal with %d entries to %s", len(j.Photos), j.path)
	return nil
}

// MarkProcessed records a photo as ingested
func (j *Journal) MarkProcessed(path string, postID int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.Photos[path] = Entry{
		Path:      path,
		PostID:    postID,
		Processed: true,
		Timestamp: time.Now(),
	}

	// Flush after every 100 photos
	j.batchCount++
	if j.batchCount >= 100 {
		j.batchCount = 0
		go j.Save()
	}
}

// IsProcessed checks if a photo has already been ingested
func (j *Journal) IsProcessed(path string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, exists := j.Photos[path]
	return exists && entry.Processed
}

// PostID returns the post a photo was ingested as, if known
func (j *Journal) PostID(path string) (int64, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, exists := j.Photos[path]
	if !exists || !entry.Processed {
		return 0, false
	}
	return entry.PostID, true
}

// Clear clears the journal
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.Photos = make(map[string]Entry)
	j.write()
}

// Stats returns statistics about the journal
func (j *Journal) Stats() (total int, processed int) {
	j.mu.Lock()
	defer j.mu.Unlock()

	total = len(j.Photos)
	for _, entry := range j.Photos {
		if entry.Processed {
			processed++
		}
	}
	return total, processed
}
