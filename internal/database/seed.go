package database

import (
	"fmt"

	"github.com/julianLagraba/fin-pro/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedCategories inserts the system (ownerless) categories. It is safe to
// run on every start: existing names are skipped by the unique index.
func SeedCategories(db *gorm.DB, names []string) error {
	rows := make([]models.Category, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		rows = append(rows, models.Category{Name: name})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
