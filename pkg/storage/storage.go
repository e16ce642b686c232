// Package storage holds resume blobs. Paths returned by Save are opaque to
// callers and are only ever handed back to the same store.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go-job-portal-backend/config"
	"go-job-portal-backend/internal/domain"
)

var (
	ErrNotFound   = errors.New("storage: blob not found")
	ErrInvalidKey = errors.New("storage: invalid key")
)

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (domain.FileStore, error) {
	switch cfg.StorageDriver {
	case "", "fs":
		return NewFileSystemStore(cfg.StorageDir)
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}
