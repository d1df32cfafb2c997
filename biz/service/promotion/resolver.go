package promotion

import (
	"strings"
)

// FileName renders a mapping entry's file-name pattern with the version
// substituted for the placeholder.
func FileName(entry Entry, version string) string {
	return strings.ReplaceAll(entry.FileNamePattern, versionPlaceholder, version)
}

// BuildKey produces the full object key for a parsed component under the
// given environment prefix: {prefix}/{entry.Path}/{fileName}. Redundant
// separators collapse to a single slash and the key never starts with one.
// Pure function: identical inputs always yield identical keys.
func BuildKey(parsed Parsed, entry Entry, prefix string) string {
	raw := prefix + "/" + entry.Path + "/" + FileName(entry, parsed.Version)

	segments := make([]string, 0, strings.Count(raw, "/")+1)
	for _, seg := range strings.Split(raw, "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return strings.Join(segments, "/")
}
