package promotion

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dal "github.com/yi-nology/component_promoter/biz/dal/db"
	"github.com/yi-nology/component_promoter/biz/dal/model"
	"github.com/yi-nology/component_promoter/pkg/logger"
	"github.com/yi-nology/component_promoter/pkg/storage"
)

// Service runs promotions and, when a journal database is attached,
// persists every run with its per-component outcomes.
type Service struct {
	backend storage.Backend
	index   *Index
	opts    ExecutorOptions

	db  *gorm.DB
	dao *dal.PromotionDAO
}

// RunResult couples a run's report with its journal identifier.
type RunResult struct {
	RunID  string  `json:"run_id"`
	Report *Report `json:"report"`
}

// NewService creates a promotion service. opts.DryRun acts as the default
// mode; Run can override it per invocation.
func NewService(backend storage.Backend, index *Index, opts ExecutorOptions) *Service {
	return &Service{
		backend: backend,
		index:   index,
		opts:    opts,
	}
}

// WithJournal attaches an audit journal database. The caller is expected
// to have migrated the tables already.
func (s *Service) WithJournal(db *gorm.DB) *Service {
	s.db = db
	s.dao = dal.NewPromotionDAO()
	return s
}

// Run promotes the given identifiers. A journal write failure is logged
// and never fails the promotion itself; the report is the source of truth
// for the caller.
func (s *Service) Run(ctx context.Context, identifiers []string, dryRun bool) *RunResult {
	opts := s.opts
	opts.DryRun = dryRun

	executor := NewExecutor(s.backend, s.index, opts)
	report := executor.Run(ctx, identifiers)

	result := &RunResult{
		RunID:  uuid.NewString(),
		Report: report,
	}
	s.journal(ctx, result)
	return result
}

// Index exposes the mapping index, mainly for serve-mode introspection.
func (s *Service) Index() *Index { return s.index }

// ListRuns returns recent journal entries, newest first. Returns nil when
// no journal is attached.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]model.PromotionRun, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.dao.ListRuns(ctx, s.db, limit)
}

// GetRun returns one journal entry with its component records.
func (s *Service) GetRun(ctx context.Context, runID string) (*model.PromotionRun, []model.PromotionRecord, error) {
	if s.db == nil {
		return nil, nil, gorm.ErrRecordNotFound
	}
	run, err := s.dao.GetRun(ctx, s.db, runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.dao.ListRecords(ctx, s.db, runID)
	if err != nil {
		return nil, nil, err
	}
	return run, records, nil
}

func (s *Service) journal(ctx context.Context, result *RunResult) {
	if s.db == nil {
		return
	}

	report := result.Report
	counts := report.Counts()
	run := &model.PromotionRun{
		RunID:             result.RunID,
		Bucket:            report.Bucket,
		SourcePrefix:      report.SourcePrefix,
		DestinationPrefix: report.DestinationPrefix,
		DryRun:            report.DryRun,
		Total:             len(report.Operations),
		Copied:            counts[StatusCopied],
		Skipped:           counts[StatusExists] + counts[StatusMissingSource] + counts[StatusNoMapping],
		Failed:            counts[StatusFailed],
		StartedAt:         report.StartedAt,
		FinishedAt:        report.FinishedAt,
	}

	records := make([]model.PromotionRecord, 0, len(report.Operations))
	for i, op := range report.Operations {
		records = append(records, model.PromotionRecord{
			Position:       i,
			Identifier:     op.Identifier,
			SourceKey:      op.SourceKey,
			DestinationKey: op.DestinationKey,
			Status:         string(op.Status),
			Detail:         op.Detail,
		})
	}

	if err := s.dao.CreateRun(ctx, s.db, run, records); err != nil {
		logger.Warnf("failed to journal promotion run %s: %v", result.RunID, err)
	}
}
