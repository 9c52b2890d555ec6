package database

import (
	"fmt"

	"github.com/julianLagraba/fin-pro/internal/models"

	"gorm.io/gorm"
)

// systemCategoryIndex keeps one system category per name. Plain unique
// indexes would not help because NULL owners never collide.
const systemCategoryIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_system_name
	ON categories (name) WHERE user_id IS NULL`

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Subscription{},
		&models.CreditCard{},
		&models.CardPurchase{},
		&models.Client{},
		&models.Job{},
		&models.Goal{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(systemCategoryIndex).Error; err != nil {
		return fmt.Errorf("create system category index: %w", err)
	}
	return nil
}
