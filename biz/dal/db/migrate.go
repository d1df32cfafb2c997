package db

import (
	"github.com/yi-nology/component_promoter/biz/dal/model"
	"gorm.io/gorm"
)

// Migrate creates or updates the journal tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.PromotionRun{},
		&model.PromotionRecord{},
	)
}
