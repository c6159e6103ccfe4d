// Package watcher monitors a photo directory and feeds new or changed
// photos into the enrichment pipeline.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bstardust/photo-seo-enricher/internal/imagesource"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
)

// settleDelay is how long a file must stay quiet before it is handed to the
// pipeline, so half-written photos are not ingested mid-copy.
const settleDelay = 2 * time.Second

// Handler receives the path of a photo that changed, relative to root.
type Handler func(ctx context.Context, relPath string)

// Watcher monitors a directory tree for photo changes.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	handler Handler

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over root. Subdirectories present at start are
// watched too; directories created later are added as they appear.
func New(root string, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:    root,
		watcher: fsw,
		handler: handler,
		pending: make(map[string]*time.Timer),
	}

	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(root, entry.Name())
			if err := fsw.Add(dir); err != nil {
				logger.Warn("Failed to watch %s: %v", dir, err)
			}
		}
	}

	logger.Info("Watching directory: %s", root)
	return w, nil
}

// Run processes events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Filesystem watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	// New directories get watched so photos dropped into them are seen.
	if event.Op&fsnotify.Create != 0 && filepath.Ext(event.Name) == "" {
		if err := w.watcher.Add(event.Name); err == nil {
			logger.Debug("Watching new directory: %s", event.Name)
			return
		}
	}

	if !imagesource.IsImageFile(event.Name) {
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	// Debounce: a copy in progress fires many writes; only the last one
	// within the settle window triggers the pipeline.
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[rel]; ok {
		timer.Stop()
	}
	w.pending[rel] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, rel)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		logger.Info("Photo changed: %s", rel)
		w.handler(ctx, rel)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
