// Package promotion implements the component promotion pipeline: parsing
// versioned component identifiers, resolving them to object keys through a
// declarative mapping, and copying each object from a source environment
// prefix to a destination environment prefix inside one bucket.
package promotion

import (
	"time"
)

// Status is the terminal (or in-flight) state of a single component
// operation. Transitions are strictly forward; a component never revisits
// an earlier state.
type Status string

const (
	// StatusPending marks an operation that has not been processed yet.
	StatusPending Status = "PENDING"
	// StatusNoMapping marks identifiers that could not be parsed or have
	// no matching mapping entry. Recorded before any storage call.
	StatusNoMapping Status = "SKIPPED_NO_MAPPING"
	// StatusMissingSource marks operations whose source object does not
	// exist under the source prefix.
	StatusMissingSource Status = "SKIPPED_MISSING_SOURCE"
	// StatusExists marks operations whose destination object is already
	// present. The copy is skipped so re-runs stay idempotent.
	StatusExists Status = "SKIPPED_EXISTS"
	// StatusCopied marks a completed copy. In dry-run mode the copy call
	// is substituted with a no-op and the detail says so.
	StatusCopied Status = "COPIED"
	// StatusFailed marks a copy or existence check that hit a backend
	// error. It never aborts the rest of the run.
	StatusFailed Status = "FAILED"
)

// Parsed is a component identifier split into its base name and trailing
// version. Derived once per identifier, immutable afterwards.
type Parsed struct {
	BaseName string
	Version  string
}

// Entry translates a component base name into a file-name pattern and a
// bucket-relative storage path. FileNamePattern carries the {version}
// placeholder exactly once; Path never starts with an environment prefix.
type Entry struct {
	ComponentKey    string `json:"component_key"`
	FileNamePattern string `json:"file_name_pattern"`
	Path            string `json:"path"`
}

// Operation records the resolution and outcome for one input identifier.
type Operation struct {
	Identifier     string `json:"identifier"`
	SourceKey      string `json:"source_key,omitempty"`
	DestinationKey string `json:"destination_key,omitempty"`
	Status         Status `json:"status"`
	Detail         string `json:"detail,omitempty"`
}

// Report aggregates the operations of one promotion run in input order.
// It is append-only while the run executes and never mutated after the
// formatter has rendered it.
type Report struct {
	Bucket            string      `json:"bucket"`
	SourcePrefix      string      `json:"source_prefix"`
	DestinationPrefix string      `json:"destination_prefix"`
	DryRun            bool        `json:"dry_run"`
	Operations        []Operation `json:"operations"`
	StartedAt         time.Time   `json:"started_at"`
	FinishedAt        time.Time   `json:"finished_at"`
}

// Counts returns the number of operations per terminal status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, len(r.Operations))
	for _, op := range r.Operations {
		counts[op.Status]++
	}
	return counts
}

// FailedCount reports how many operations ended in StatusFailed. It drives
// the process exit code.
func (r *Report) FailedCount() int {
	n := 0
	for _, op := range r.Operations {
		if op.Status == StatusFailed {
			n++
		}
	}
	return n
}

// ConfigError wraps fatal configuration problems: unreadable or malformed
// mapping/components files, duplicate mapping keys. The run aborts before
// any component is processed when one surfaces.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ConfigError) Unwrap() error { return e.Err }
