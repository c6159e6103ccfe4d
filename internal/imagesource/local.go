package imagesource

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalSource reads photos from a directory tree on disk.
type LocalSource struct {
	root string
}

// NewLocal creates a source rooted at dir.
func NewLocal(dir string) (*LocalSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", dir)
	}
	return &LocalSource{root: dir}, nil
}

// Open returns the photo bytes at path, relative to the source root.
func (s *LocalSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, path))
}

// List walks the tree under prefix and returns every image file path,
// relative to the source root, in sorted order.
func (s *LocalSource) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string
	start := filepath.Join(s.root, prefix)

	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !IsImageFile(path) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// Exists reports whether a file is present at path.
func (s *LocalSource) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Root returns the directory the source reads from.
func (s *LocalSource) Root() string {
	return s.root
}
