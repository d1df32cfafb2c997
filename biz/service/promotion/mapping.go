package promotion

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const versionPlaceholder = "{version}"

// Index maps component base names to mapping entries. Built once at
// startup and read-only afterwards, so lookups are safe from any
// goroutine.
type Index struct {
	entries map[string]Entry
}

// NewIndex validates a set of mapping entries and builds the lookup index.
// Entry paths are normalized: leading slashes are removed and a leading
// source or destination environment prefix is stripped, since hand-written
// mapping data sometimes carries one.
//
// Duplicate component keys are rejected outright rather than letting one
// entry silently shadow another.
func NewIndex(entries []Entry, sourcePrefix, destinationPrefix string) (*Index, error) {
	index := &Index{entries: make(map[string]Entry, len(entries))}
	for i, entry := range entries {
		if entry.ComponentKey == "" {
			return nil, fmt.Errorf("mapping entry %d: component_key is required", i)
		}
		if entry.Path == "" {
			return nil, fmt.Errorf("mapping entry %q: path is required", entry.ComponentKey)
		}
		if n := strings.Count(entry.FileNamePattern, versionPlaceholder); n != 1 {
			return nil, fmt.Errorf("mapping entry %q: file_name_pattern must contain %s exactly once, found %d",
				entry.ComponentKey, versionPlaceholder, n)
		}
		if _, ok := index.entries[entry.ComponentKey]; ok {
			return nil, fmt.Errorf("duplicate component_key %q in mapping", entry.ComponentKey)
		}
		entry.Path = normalizePath(entry.Path, sourcePrefix, destinationPrefix)
		index.entries[entry.ComponentKey] = entry
	}
	return index, nil
}

// Lookup returns the mapping entry for a base name. The match is exact and
// case-sensitive.
func (ix *Index) Lookup(baseName string) (Entry, bool) {
	entry, ok := ix.entries[baseName]
	return entry, ok
}

// Len returns the number of mapping entries.
func (ix *Index) Len() int { return len(ix.entries) }

// LoadMappings reads a JSON array of mapping entries from path and builds
// the index. Any problem with the file or its contents is a fatal
// configuration error.
func LoadMappings(path, sourcePrefix, destinationPrefix string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read mapping file: %w", err)}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parse mapping file %s: %w", path, err)}
	}

	index, err := NewIndex(entries, sourcePrefix, destinationPrefix)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("mapping file %s: %w", path, err)}
	}
	return index, nil
}

// LoadComponents reads the list of component identifiers to promote: a
// JSON array of strings. Blank entries are dropped.
func LoadComponents(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read components file: %w", err)}
	}

	var identifiers []string
	if err := json.Unmarshal(data, &identifiers); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parse components file %s: %w", path, err)}
	}

	result := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		if strings.TrimSpace(id) == "" {
			continue
		}
		result = append(result, id)
	}
	return result, nil
}

func normalizePath(p, sourcePrefix, destinationPrefix string) string {
	p = strings.TrimPrefix(p, "/")
	for _, prefix := range []string{sourcePrefix, destinationPrefix} {
		if prefix != "" && strings.HasPrefix(p, prefix+"/") {
			p = strings.TrimPrefix(p, prefix+"/")
			break
		}
	}
	return strings.Trim(p, "/")
}
