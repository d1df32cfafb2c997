package promotion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yi-nology/component_promoter/pkg/logger"
	"github.com/yi-nology/component_promoter/pkg/storage"
)

const defaultWorkers = 4

// ExecutorOptions configures a single promotion run.
type ExecutorOptions struct {
	Bucket            string
	SourcePrefix      string
	DestinationPrefix string
	DryRun            bool
	// Workers bounds the number of components processed concurrently.
	// Zero or negative falls back to the default.
	Workers int
}

// Executor drives the per-component resolve, check, copy, record sequence.
// Components are independent of each other, so they run on a bounded
// worker pool; each result lands in a pre-sized slot keyed by input index
// so the report order always equals the input order.
type Executor struct {
	backend storage.Backend
	checker *Checker
	index   *Index
	opts    ExecutorOptions
}

// NewExecutor creates an executor for one mapping index and backend.
func NewExecutor(backend storage.Backend, index *Index, opts ExecutorOptions) *Executor {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Executor{
		backend: backend,
		checker: NewChecker(backend),
		index:   index,
		opts:    opts,
	}
}

// Run processes every identifier and returns the accumulated report.
// Per-component conditions never stop the run; when the context is
// cancelled mid-run, scheduling stops and already finished operations are
// still reported, unprocessed ones staying Pending.
func (e *Executor) Run(ctx context.Context, identifiers []string) *Report {
	report := &Report{
		Bucket:            e.opts.Bucket,
		SourcePrefix:      e.opts.SourcePrefix,
		DestinationPrefix: e.opts.DestinationPrefix,
		DryRun:            e.opts.DryRun,
		Operations:        make([]Operation, len(identifiers)),
		StartedAt:         time.Now(),
	}

	for i, id := range identifiers {
		report.Operations[i] = Operation{Identifier: id, Status: StatusPending}
	}

	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup
	for i, id := range identifiers {
		if ctx.Err() != nil {
			logger.Warnf("promotion interrupted, %d of %d components not processed", len(identifiers)-i, len(identifiers))
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, identifier string) {
			defer wg.Done()
			defer func() { <-sem }()
			report.Operations[slot] = e.processComponent(ctx, identifier)
		}(i, id)
	}
	wg.Wait()

	report.FinishedAt = time.Now()
	return report
}

// processComponent walks one component through the state machine. An
// identifier that cannot be parsed or matched never reaches the storage
// backend.
func (e *Executor) processComponent(ctx context.Context, identifier string) Operation {
	op := Operation{Identifier: identifier, Status: StatusPending}

	parsed, err := ParseComponent(identifier)
	if err != nil {
		op.Status = StatusNoMapping
		op.Detail = err.Error()
		return op
	}

	entry, ok := e.index.Lookup(parsed.BaseName)
	if !ok {
		op.Status = StatusNoMapping
		op.Detail = fmt.Sprintf("no mapping entry for %q", parsed.BaseName)
		return op
	}

	op.SourceKey = BuildKey(parsed, entry, e.opts.SourcePrefix)
	op.DestinationKey = BuildKey(parsed, entry, e.opts.DestinationPrefix)

	exists, err := e.checker.Exists(ctx, op.SourceKey)
	if err != nil {
		op.Status = StatusFailed
		op.Detail = fmt.Sprintf("check source: %v", err)
		return op
	}
	if !exists {
		op.Status = StatusMissingSource
		op.Detail = fmt.Sprintf("source object %s not found", op.SourceKey)
		return op
	}

	exists, err = e.checker.Exists(ctx, op.DestinationKey)
	if err != nil {
		op.Status = StatusFailed
		op.Detail = fmt.Sprintf("check destination: %v", err)
		return op
	}
	if exists {
		op.Status = StatusExists
		op.Detail = fmt.Sprintf("destination object %s already present", op.DestinationKey)
		return op
	}

	if e.opts.DryRun {
		op.Status = StatusCopied
		op.Detail = "dry-run"
		return op
	}

	if err := e.backend.CopyObject(ctx, op.SourceKey, op.DestinationKey); err != nil {
		op.Status = StatusFailed
		op.Detail = fmt.Sprintf("copy: %v", err)
		return op
	}
	op.Status = StatusCopied
	return op
}
