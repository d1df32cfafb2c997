package promotion

import (
	"context"
	"testing"

	dal "github.com/yi-nology/component_promoter/biz/dal/db"
	"github.com/yi-nology/component_promoter/pkg/storage/memory"
)

func TestServiceRunJournalsOutcome(t *testing.T) {
	ctx := context.Background()
	db := dal.SetupTestDB(t)
	defer dal.CleanupTestDB(t, db)

	backend := memory.New()
	backend.Seed("dev/components/component-b/component-b.227.min.js", []byte("js"))

	svc := NewService(backend, testIndex(t), testOptions()).WithJournal(db)
	result := svc.Run(ctx, []string{"Component-B-227", "Unknown-Component-5"}, false)

	if result.RunID == "" {
		t.Fatalf("expected a run id")
	}
	if got := result.Report.Operations[0].Status; got != StatusCopied {
		t.Fatalf("operation 0: status = %s", got)
	}

	run, records, err := svc.GetRun(ctx, result.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Total != 2 || run.Copied != 1 || run.Skipped != 1 || run.Failed != 0 {
		t.Fatalf("unexpected journal counters %+v", run)
	}
	if run.Bucket != "test-bucket" || run.SourcePrefix != "dev" || run.DestinationPrefix != "stage" {
		t.Fatalf("journal run lost its context: %+v", run)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Identifier != "Component-B-227" || records[1].Identifier != "Unknown-Component-5" {
		t.Fatalf("records out of input order: %+v", records)
	}
	if records[1].Status != string(StatusNoMapping) {
		t.Fatalf("record 1: status = %s", records[1].Status)
	}

	runs, err := svc.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != result.RunID {
		t.Fatalf("unexpected run listing %+v", runs)
	}
}

func TestServiceRunWithoutJournal(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	backend.Seed("dev/components/component-b/component-b.1.min.js", []byte("js"))

	svc := NewService(backend, testIndex(t), testOptions())
	result := svc.Run(ctx, []string{"Component-B-1"}, true)

	if result.Report.Operations[0].Status != StatusCopied {
		t.Fatalf("status = %s", result.Report.Operations[0].Status)
	}

	runs, err := svc.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns without journal: %v", err)
	}
	if runs != nil {
		t.Fatalf("expected nil run listing without a journal")
	}
}
