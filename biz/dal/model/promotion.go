package model

import (
	"time"

	"gorm.io/gorm"
)

// PromotionRun records one promotion invocation in the audit journal.
type PromotionRun struct {
	ID                uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt         time.Time      `json:"created_at,omitempty"`
	UpdatedAt         time.Time      `json:"updated_at,omitempty"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	RunID             string         `gorm:"column:run_id;uniqueIndex:uk_run_id" json:"run_id,omitempty"`
	Bucket            string         `gorm:"column:bucket" json:"bucket,omitempty"`
	SourcePrefix      string         `gorm:"column:source_prefix" json:"source_prefix,omitempty"`
	DestinationPrefix string         `gorm:"column:destination_prefix" json:"destination_prefix,omitempty"`
	DryRun            bool           `gorm:"column:dry_run" json:"dry_run"`
	Total             int            `gorm:"column:total" json:"total"`
	Copied            int            `gorm:"column:copied" json:"copied"`
	Skipped           int            `gorm:"column:skipped" json:"skipped"`
	Failed            int            `gorm:"column:failed" json:"failed"`
	StartedAt         time.Time      `gorm:"column:started_at" json:"started_at,omitempty"`
	FinishedAt        time.Time      `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

// TableName overrides gorm to use promotion_run table.
func (PromotionRun) TableName() string {
	return "promotion_run"
}

// PromotionRecord stores the terminal outcome of one component within a
// run.
type PromotionRecord struct {
	ID             uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt      time.Time      `json:"created_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at,omitempty"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	RunID          string         `gorm:"column:run_id;index:idx_record_run" json:"run_id,omitempty"`
	Position       int            `gorm:"column:position" json:"position"`
	Identifier     string         `gorm:"column:identifier" json:"identifier,omitempty"`
	SourceKey      string         `gorm:"column:source_key;type:text" json:"source_key,omitempty"`
	DestinationKey string         `gorm:"column:destination_key;type:text" json:"destination_key,omitempty"`
	Status         string         `gorm:"column:status;index:idx_record_status" json:"status,omitempty"`
	Detail         string         `gorm:"column:detail;type:varchar(512)" json:"detail,omitempty"`
}

// TableName overrides gorm to use promotion_record table.
func (PromotionRecord) TableName() string {
	return "promotion_record"
}
