package db

import (
	"context"
	"errors"

	"github.com/yi-nology/component_promoter/biz/dal/model"
	"gorm.io/gorm"
)

// PromotionDAO wraps persistence for promotion runs and their records.
type PromotionDAO struct{}

func NewPromotionDAO() *PromotionDAO { return &PromotionDAO{} }

// CreateRun persists a run together with its per-component records in one
// transaction.
func (dao *PromotionDAO) CreateRun(ctx context.Context, db *gorm.DB, run *model.PromotionRun, records []model.PromotionRecord) error {
	if run == nil {
		return errors.New("run must not be nil")
	}
	if run.RunID == "" {
		return errors.New("run_id is required")
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for i := range records {
			records[i].RunID = run.RunID
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

// GetRun fetches a single run by run_id.
func (dao *PromotionDAO) GetRun(ctx context.Context, db *gorm.DB, runID string) (*model.PromotionRun, error) {
	var entity model.PromotionRun
	if err := db.WithContext(ctx).
		Where("run_id = ?", runID).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListRuns returns the most recent runs, newest first.
func (dao *PromotionDAO) ListRuns(ctx context.Context, db *gorm.DB, limit int) ([]model.PromotionRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var entities []model.PromotionRun
	if err := db.WithContext(ctx).
		Order("started_at DESC, id DESC").
		Limit(limit).
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// ListRecords returns the component records of a run in input order.
func (dao *PromotionDAO) ListRecords(ctx context.Context, db *gorm.DB, runID string) ([]model.PromotionRecord, error) {
	var entities []model.PromotionRecord
	if err := db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("position ASC").
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CountByStatus counts records of a run grouped by status.
func (dao *PromotionDAO) CountByStatus(ctx context.Context, db *gorm.DB, runID string) (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := db.WithContext(ctx).
		Model(&model.PromotionRecord{}).
		Select("status, count(*) as n").
		Where("run_id = ?", runID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}
