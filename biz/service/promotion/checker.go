package promotion

import (
	"context"
	"strings"

	"github.com/yi-nology/component_promoter/pkg/storage"
)

// Checker answers object existence questions through listing calls only.
// Listing the key's directory prefix needs nothing beyond list permission
// on the bucket, unlike a per-object HEAD.
type Checker struct {
	backend storage.Backend
}

// NewChecker creates a Checker on top of a storage backend.
func NewChecker(backend storage.Backend) *Checker {
	return &Checker{backend: backend}
}

// Exists reports whether the exact key is present. The listing is scoped
// to the key's directory and every returned key is compared for full
// equality, because siblings under the same directory also come back
// (e.g. "file.1.min.js" next to "file.12.min.js").
func (c *Checker) Exists(ctx context.Context, key string) (bool, error) {
	prefix := ""
	if i := strings.LastIndex(key, "/"); i >= 0 {
		prefix = key[:i+1]
	}

	keys, err := c.backend.ListObjects(ctx, prefix)
	if err != nil {
		return false, err
	}
	for _, candidate := range keys {
		if candidate == key {
			return true, nil
		}
	}
	return false, nil
}
