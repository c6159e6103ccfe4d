// Package imagesource abstracts where photo bytes come from: a local
// directory tree or an S3-compatible bucket.
package imagesource

import (
	"context"
	"io"
)

// Source provides read access to a collection of photos.
type Source interface {
	// Open returns the photo bytes at path. The caller closes the reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// List returns the paths of all image files under prefix, in a
	// stable order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether a file is present at path. Sidecar lookups
	// rely on this being cheap.
	Exists(ctx context.Context, path string) (bool, error)
}
