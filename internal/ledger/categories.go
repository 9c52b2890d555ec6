package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianLagraba/fin-pro/internal/cache"
	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"gorm.io/gorm"
)

func categoriesKey(userID uint) string {
	return fmt.Sprintf("categories:user:%d", userID)
}

// ListCategories returns the user's own categories plus every system
// category, each id once, ordered by id.
func (s *Service) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	key := categoriesKey(userID)

	var cached []models.Category
	ok, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.ctxLogger(ctx).Warn().Err(err).Str("key", key).Msg("category cache read failed")
	} else if ok {
		return cached, nil
	}

	var rows []models.Category
	if err := s.db.WithContext(ctx).
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	cats := dedupCategories(rows)

	if err := cache.SetJSON(ctx, s.cache, key, cats, s.cfg.CacheTTL); err != nil {
		s.ctxLogger(ctx).Warn().Err(err).Str("key", key).Msg("category cache write failed")
	}
	return cats, nil
}

func dedupCategories(rows []models.Category) []models.Category {
	seen := make(map[uint]struct{}, len(rows))
	out := make([]models.Category, 0, len(rows))
	for _, c := range rows {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateCategory adds a category private to userID.
func (s *Service) CreateCategory(ctx context.Context, userID uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := util.ValidateName(name, 64); err != nil {
		return nil, invalid("category: %v", err)
	}

	cat := models.Category{UserID: UserOwner(userID).column(), Name: name}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.invalidateCategories(ctx, userID)
	return &cat, nil
}

// DeleteCategory removes a category owned by userID. System categories
// are never deleted; categories still referenced by transactions are kept.
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		err := tx.First(&cat, categoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("category", categoryID)
		}
		if err != nil {
			return fmt.Errorf("load category %d: %w", categoryID, err)
		}

		owner := OwnerOf(&cat)
		if owner.IsSystem() {
			return fmt.Errorf("category %q belongs to the system: %w", cat.Name, ErrForbidden)
		}
		if id, _ := owner.UserID(); id != userID {
			return notFound("category", categoryID)
		}

		var used int64
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", cat.ID).
			Count(&used).Error; err != nil {
			return fmt.Errorf("count transactions of category %d: %w", cat.ID, err)
		}
		if used > 0 {
			return fmt.Errorf("category %q is used by %d transactions: %w", cat.Name, used, ErrConflict)
		}

		if err := tx.Delete(&cat).Error; err != nil {
			return fmt.Errorf("delete category %d: %w", cat.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateCategories(ctx, userID)
	return nil
}

func (s *Service) invalidateCategories(ctx context.Context, userID uint) {
	if err := s.cache.Delete(ctx, categoriesKey(userID)); err != nil {
		s.ctxLogger(ctx).Warn().Err(err).Uint("user_id", userID).Msg("category cache invalidation failed")
	}
}
