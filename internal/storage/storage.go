// Package storage keeps uploaded recipe images on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"recipeapi/internal/config"
)

// RecipeImageDir is the key prefix of every recipe image.
const RecipeImageDir = "uploads/recipe"

// ImageStore persists image objects under generated keys.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// RecipeImageKey returns a fresh key for an upload named filename. Only the
// extension of the client's filename survives.
func RecipeImageKey(filename string) string {
	return path.Join(RecipeImageDir, uuid.NewString()+filepath.Ext(filename))
}

// New builds the store selected by STORAGE_BACKEND.
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL), nil
	case config.StorageS3:
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.MediaURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	if base[len(base)-1] != '/' {
		base += "/"
	}
	return base + key
}
