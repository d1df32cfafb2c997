// Package memory implements an in-memory storage backend. It backs the
// pipeline tests and lets failure modes be injected per key.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Backend implements the storage.Backend interface on a map.
type Backend struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	copyErrs  map[string]error
	copyCalls int
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{
		objects:  make(map[string][]byte),
		copyErrs: make(map[string]error),
	}
}

// Seed stores an object without going through the copy path.
func (b *Backend) Seed(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
}

// FailCopy makes future copies from sourceKey return err.
func (b *Backend) FailCopy(sourceKey string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.copyErrs[sourceKey] = err
}

// Has reports whether the exact key is stored.
func (b *Backend) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.objects[key]
	return ok
}

// CopyCalls returns how many CopyObject calls were made.
func (b *Backend) CopyCalls() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.copyCalls
}

// ListObjects returns all stored keys under prefix, sorted.
func (b *Backend) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// CopyObject duplicates a stored object under the destination key.
func (b *Backend) CopyObject(ctx context.Context, sourceKey, destinationKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.copyCalls++
	if err, ok := b.copyErrs[sourceKey]; ok {
		return err
	}
	data, ok := b.objects[sourceKey]
	if !ok {
		return fmt.Errorf("source object not found: %s", sourceKey)
	}
	b.objects[destinationKey] = append([]byte(nil), data...)
	return nil
}

// Type returns "memory" as the backend identifier.
func (b *Backend) Type() string { return "memory" }
