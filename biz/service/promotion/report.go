package promotion

import (
	"fmt"
	"strings"
)

// statusOrder fixes the summary line ordering so output stays
// deterministic regardless of map iteration.
var statusOrder = []Status{
	StatusCopied,
	StatusExists,
	StatusMissingSource,
	StatusNoMapping,
	StatusFailed,
	StatusPending,
}

var statusLabels = map[Status]string{
	StatusCopied:        "copied",
	StatusExists:        "skipped_exists",
	StatusMissingSource: "skipped_missing_source",
	StatusNoMapping:     "skipped_no_mapping",
	StatusFailed:        "failed",
	StatusPending:       "not_processed",
}

// FormatReport renders one line per component, in input order, followed by
// a summary line with per-status counts. The same text serves human
// display and the exit-code decision in the CLI layer.
func FormatReport(r *Report) string {
	var b strings.Builder

	mode := "live"
	if r.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(&b, "promotion %s -> %s (bucket %s, %s)\n",
		r.SourcePrefix, r.DestinationPrefix, r.Bucket, mode)

	for _, op := range r.Operations {
		switch op.Status {
		case StatusCopied:
			fmt.Fprintf(&b, "  %-22s %s  %s -> %s", op.Status, op.Identifier, op.SourceKey, op.DestinationKey)
			if op.Detail != "" {
				fmt.Fprintf(&b, " (%s)", op.Detail)
			}
			b.WriteByte('\n')
		default:
			fmt.Fprintf(&b, "  %-22s %s", op.Status, op.Identifier)
			if op.Detail != "" {
				fmt.Fprintf(&b, "  %s", op.Detail)
			}
			b.WriteByte('\n')
		}
	}

	counts := r.Counts()
	parts := make([]string, 0, len(statusOrder)+1)
	parts = append(parts, fmt.Sprintf("total=%d", len(r.Operations)))
	for _, status := range statusOrder {
		if counts[status] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", statusLabels[status], counts[status]))
	}
	fmt.Fprintf(&b, "summary: %s\n", strings.Join(parts, " "))

	return b.String()
}
