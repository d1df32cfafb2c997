package promotion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yi-nology/component_promoter/pkg/storage/memory"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	index, err := NewIndex([]Entry{
		{
			ComponentKey:    "KP-SlotMachine-V2",
			FileNamePattern: "slotmachine.{version}.min.js",
			Path:            "krembo/krembo_componentsV2/game_type/slotmachine/",
		},
		{
			ComponentKey:    "Component-B",
			FileNamePattern: "component-b.{version}.min.js",
			Path:            "components/component-b/",
		},
		{
			ComponentKey:    "Component-F",
			FileNamePattern: "component-f.{version}.min.js",
			Path:            "components/component-f/",
		},
	}, "dev", "stage")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return index
}

func testOptions() ExecutorOptions {
	return ExecutorOptions{
		Bucket:            "test-bucket",
		SourcePrefix:      "dev",
		DestinationPrefix: "stage",
		Workers:           3,
	}
}

func TestExecutorCopiesComponent(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	backend.Seed("dev/krembo/krembo_componentsV2/game_type/slotmachine/slotmachine.22.min.js", []byte("js"))

	executor := NewExecutor(backend, testIndex(t), testOptions())
	report := executor.Run(ctx, []string{"KP-SlotMachine-V2-22"})

	op := report.Operations[0]
	if op.Status != StatusCopied {
		t.Fatalf("status = %s (%s), want COPIED", op.Status, op.Detail)
	}
	if op.SourceKey != "dev/krembo/krembo_componentsV2/game_type/slotmachine/slotmachine.22.min.js" {
		t.Fatalf("unexpected source key %q", op.SourceKey)
	}
	if op.DestinationKey != "stage/krembo/krembo_componentsV2/game_type/slotmachine/slotmachine.22.min.js" {
		t.Fatalf("unexpected destination key %q", op.DestinationKey)
	}
	if !backend.Has(op.DestinationKey) {
		t.Fatalf("destination object was not written")
	}
}

func TestExecutorIdempotentRerun(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	backend.Seed("dev/components/component-b/component-b.227.min.js", []byte("js"))

	executor := NewExecutor(backend, testIndex(t), testOptions())
	identifiers := []string{"Component-B-227"}

	first := executor.Run(ctx, identifiers)
	if first.Operations[0].Status != StatusCopied {
		t.Fatalf("first run: status = %s", first.Operations[0].Status)
	}

	second := executor.Run(ctx, identifiers)
	if second.Operations[0].Status != StatusExists {
		t.Fatalf("second run: status = %s, want SKIPPED_EXISTS", second.Operations[0].Status)
	}
	if second.FailedCount() != 0 {
		t.Fatalf("idempotent re-run must not fail")
	}
	if backend.CopyCalls() != 1 {
		t.Fatalf("expected exactly one copy across both runs, got %d", backend.CopyCalls())
	}
}

func TestExecutorMissingSource(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	executor := NewExecutor(backend, testIndex(t), testOptions())
	report := executor.Run(ctx, []string{"Component-B-227"})

	if report.Operations[0].Status != StatusMissingSource {
		t.Fatalf("status = %s, want SKIPPED_MISSING_SOURCE", report.Operations[0].Status)
	}
}

func TestExecutorNoMapping(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	executor := NewExecutor(backend, testIndex(t), testOptions())
	report := executor.Run(ctx, []string{"Unknown-Component-5", "Component-A-V1"})

	for i, op := range report.Operations {
		if op.Status != StatusNoMapping {
			t.Fatalf("operation %d: status = %s, want SKIPPED_NO_MAPPING", i, op.Status)
		}
		if op.Detail == "" {
			t.Fatalf("operation %d: expected a human readable reason", i)
		}
	}
	if report.FailedCount() != 0 {
		t.Fatalf("no-mapping skips must not count as failures")
	}
}

func TestExecutorDryRun(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	backend.Seed("dev/components/component-b/component-b.227.min.js", []byte("js"))

	opts := testOptions()
	opts.DryRun = true
	executor := NewExecutor(backend, testIndex(t), opts)
	report := executor.Run(ctx, []string{"Component-B-227"})

	op := report.Operations[0]
	if op.Status != StatusCopied {
		t.Fatalf("dry-run status = %s, want COPIED", op.Status)
	}
	if op.Detail != "dry-run" {
		t.Fatalf("dry-run detail = %q", op.Detail)
	}
	if backend.CopyCalls() != 0 {
		t.Fatalf("dry-run must not call the copy backend, got %d calls", backend.CopyCalls())
	}
	if backend.Has(op.DestinationKey) {
		t.Fatalf("dry-run must not write the destination object")
	}
}

func TestExecutorDryRunMatchesLiveResolution(t *testing.T) {
	ctx := context.Background()

	run := func(dryRun bool) *Report {
		backend := memory.New()
		backend.Seed("dev/components/component-b/component-b.227.min.js", []byte("js"))
		opts := testOptions()
		opts.DryRun = dryRun
		return NewExecutor(backend, testIndex(t), opts).Run(ctx, []string{"Component-B-227", "Unknown-X-1"})
	}

	live := run(false)
	dry := run(true)
	for i := range live.Operations {
		if live.Operations[i].SourceKey != dry.Operations[i].SourceKey ||
			live.Operations[i].DestinationKey != dry.Operations[i].DestinationKey ||
			live.Operations[i].Status != dry.Operations[i].Status {
			t.Fatalf("operation %d diverges between live and dry-run:\nlive %+v\ndry  %+v",
				i, live.Operations[i], dry.Operations[i])
		}
	}
}

func TestExecutorPartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	backend.Seed("dev/components/component-b/component-b.227.min.js", []byte("b"))
	backend.Seed("dev/components/component-f/component-f.202.min.js", []byte("f"))
	backend.Seed("dev/krembo/krembo_componentsV2/game_type/slotmachine/slotmachine.22.min.js", []byte("s"))
	backend.FailCopy("dev/components/component-f/component-f.202.min.js", errors.New("AccessDenied"))

	executor := NewExecutor(backend, testIndex(t), testOptions())
	report := executor.Run(ctx, []string{
		"Component-B-227",
		"Component-F-202",
		"KP-SlotMachine-V2-22",
	})

	if got := report.Operations[0].Status; got != StatusCopied {
		t.Fatalf("component 1: status = %s", got)
	}
	if got := report.Operations[1].Status; got != StatusFailed {
		t.Fatalf("component 2: status = %s, want FAILED", got)
	}
	if report.Operations[1].Detail == "" {
		t.Fatalf("failed component must carry the backend error detail")
	}
	if got := report.Operations[2].Status; got != StatusCopied {
		t.Fatalf("component 3: status = %s, must still reach its terminal state", got)
	}
	if report.FailedCount() != 1 {
		t.Fatalf("FailedCount = %d, want 1", report.FailedCount())
	}
}

func TestExecutorPreservesInputOrder(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	var identifiers []string
	for i := 1; i <= 20; i++ {
		backend.Seed(fmt.Sprintf("dev/components/component-b/component-b.%d.min.js", i), []byte("js"))
		identifiers = append(identifiers, fmt.Sprintf("Component-B-%d", i))
	}

	opts := testOptions()
	opts.Workers = 8
	executor := NewExecutor(backend, testIndex(t), opts)
	report := executor.Run(ctx, identifiers)

	if len(report.Operations) != len(identifiers) {
		t.Fatalf("expected %d operations, got %d", len(identifiers), len(report.Operations))
	}
	for i, op := range report.Operations {
		if op.Identifier != identifiers[i] {
			t.Fatalf("operation %d: identifier %q, want %q", i, op.Identifier, identifiers[i])
		}
		if op.Status != StatusCopied {
			t.Fatalf("operation %d: status = %s (%s)", i, op.Status, op.Detail)
		}
	}
}

func TestExecutorCancelledContextKeepsPartialReport(t *testing.T) {
	backend := memory.New()
	backend.Seed("dev/components/component-b/component-b.1.min.js", []byte("js"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := NewExecutor(backend, testIndex(t), testOptions())
	report := executor.Run(ctx, []string{"Component-B-1", "Component-B-2"})

	if len(report.Operations) != 2 {
		t.Fatalf("report must keep a slot per input, got %d", len(report.Operations))
	}
	for _, op := range report.Operations {
		if op.Status != StatusPending {
			t.Fatalf("unscheduled operation should stay PENDING, got %s", op.Status)
		}
	}
	if backend.CopyCalls() != 0 {
		t.Fatalf("cancelled run must not copy")
	}
}
