package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/noah-isme/sharebin-api/pkg/config"
)

// ErrObjectNotFound is returned when a blob key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore keeps uploaded file bytes addressed by key.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New builds the blob store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "", config.StorageDriverLocal:
		return NewLocalStorage(cfg.LocalDir)
	case config.StorageDriverS3:
		return NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
