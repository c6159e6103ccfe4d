package imagesource

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
)

// S3Source reads photos from an S3-compatible bucket using the MinIO SDK.
type S3Source struct {
	client *minio.Client
	bucket string
}

// NewS3 creates a source over the configured bucket.
func NewS3(ctx context.Context, cfg config.SourceConfig) (*S3Source, error) {
	// Validate configuration
	if cfg.S3Endpoint == "" {
		return nil, fmt.Errorf("S3 endpoint is required")
	}
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("S3 access key and secret key are required")
	}

	// Remove protocol prefix if present
	endpoint := cfg.S3Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure:       cfg.S3UseSSL,
		Region:       cfg.S3Region,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	// Check if bucket exists
	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.S3Bucket)
	}

	logger.Info("Successfully connected to S3 endpoint %s, bucket %s", endpoint, cfg.S3Bucket)

	return &S3Source{client: client, bucket: cfg.S3Bucket}, nil
}

// Open returns the object bytes at path.
func (s *S3Source) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	// GetObject is lazy; surface missing objects here rather than on the
	// first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to stat object %s: %w", path, err)
	}
	return obj, nil
}

// List returns every image object key under prefix, in sorted order.
func (s *S3Source) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", info.Err)
		}
		if IsImageFile(info.Key) {
			paths = append(paths, info.Key)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Exists reports whether an object is present at path.
func (s *S3Source) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
		return false, nil
	}
	return false, err
}
