package database

import (
	"path/filepath"
	"testing"

	"github.com/julianLagraba/fin-pro/internal/config"
	"github.com/julianLagraba/fin-pro/internal/models"

	"gorm.io/gorm"
)

// setupTestDB 初始化测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "ledger.db"),
	})
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

func countSystemCategories(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Category{}).Where("user_id IS NULL").Count(&n).Error; err != nil {
		t.Fatalf("count categories: %v", err)
	}
	return n
}

func TestInit_UnsupportedDriver(t *testing.T) {
	_, err := Init(config.DatabaseConfig{Driver: "oracle"})
	if err == nil {
		t.Fatal("Init() with unknown driver error = nil, want error")
	}
}

func TestSeedCategories_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	names := []string{"Sueldo", "Alquiler", "Supermercado", "Servicios", "Ocio", "Transporte"}

	for i := 0; i < 3; i++ {
		if err := SeedCategories(db, names); err != nil {
			t.Fatalf("SeedCategories run %d: %v", i+1, err)
		}
	}

	if got := countSystemCategories(t, db); got != int64(len(names)) {
		t.Errorf("system categories = %d, want %d", got, len(names))
	}
}

func TestSeedCategories_AddsNewNames(t *testing.T) {
	db := setupTestDB(t)

	if err := SeedCategories(db, []string{"Sueldo"}); err != nil {
		t.Fatalf("SeedCategories: %v", err)
	}
	if err := SeedCategories(db, []string{"Sueldo", "Salud", ""}); err != nil {
		t.Fatalf("SeedCategories: %v", err)
	}

	if got := countSystemCategories(t, db); got != 2 {
		t.Errorf("system categories = %d, want 2", got)
	}
}

func TestSystemCategoryIndex_AllowsUserDuplicates(t *testing.T) {
	db := setupTestDB(t)

	if err := SeedCategories(db, []string{"Ocio"}); err != nil {
		t.Fatalf("SeedCategories: %v", err)
	}

	// the same name can exist once per user next to the system one
	userA, userB := uint(1), uint(2)
	for _, owner := range []*uint{&userA, &userB} {
		if err := db.Create(&models.Category{Name: "Ocio", UserID: owner}).Error; err != nil {
			t.Fatalf("create user category: %v", err)
		}
	}

	if err := db.Create(&models.Category{Name: "Ocio"}).Error; err == nil {
		t.Error("second system category with same name was accepted, want unique violation")
	}
}
