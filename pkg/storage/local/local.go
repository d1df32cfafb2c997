// Package local implements the local filesystem storage backend. Object
// keys map to file paths below a base directory; environment prefixes
// become top-level directories. Mostly useful for trying out mapping
// files without touching a real bucket.
package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Backend implements the storage.Backend interface on the filesystem.
type Backend struct {
	basePath string
}

// New creates a local backend rooted at basePath.
func New(basePath string) (*Backend, error) {
	if basePath == "" {
		basePath = "data/objects"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Backend{basePath: basePath}, nil
}

// ListObjects walks the tree under prefix and returns the matching keys.
func (b *Backend) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(b.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list objects under %q: %w", prefix, err)
	}
	return keys, nil
}

// CopyObject copies the file for sourceKey to the destinationKey path,
// creating parent directories as needed.
func (b *Backend) CopyObject(ctx context.Context, sourceKey, destinationKey string) error {
	src, err := os.Open(b.keyToPath(sourceKey))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("source object not found: %s", sourceKey)
		}
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dstPath := b.keyToPath(destinationKey)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return fmt.Errorf("copy object %s -> %s: %w", sourceKey, destinationKey, err)
	}
	return nil
}

// Type returns "local" as the backend identifier.
func (b *Backend) Type() string { return "local" }

// BasePath returns the backend's root directory.
func (b *Backend) BasePath() string { return b.basePath }

func (b *Backend) keyToPath(key string) string {
	return filepath.Join(b.basePath, filepath.FromSlash(key))
}
