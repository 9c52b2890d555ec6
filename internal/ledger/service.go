package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianLagraba/fin-pro/internal/cache"
	"github.com/julianLagraba/fin-pro/internal/events"
	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Config holds the tunables of the ledger service.
type Config struct {
	// DefaultCategory is the system category used for job payments and
	// goal deposits.
	DefaultCategory string
	BcryptCost      int
	CacheTTL        time.Duration
}

// Service owns every write that touches balances, and the plain CRUD
// around it. All methods are safe for concurrent use.
type Service struct {
	db     *gorm.DB
	cache  cache.Store
	events events.Publisher
	log    zerolog.Logger
	cfg    Config
	now    func() time.Time
}

// NewService wires the service. A nil store or publisher disables caching
// or event publishing.
func NewService(db *gorm.DB, store cache.Store, publisher events.Publisher, log zerolog.Logger, cfg Config) *Service {
	if store == nil {
		store = cache.Nop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = "Sueldo"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &Service{
		db:     db,
		cache:  store,
		events: publisher,
		log:    logger.WithComponent(log, "ledger"),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Ping checks that the database answers.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// today is the current date at midnight UTC.
func (s *Service) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) ctxLogger(ctx context.Context) *zerolog.Logger {
	l := logger.FromContext(ctx, s.log)
	return &l
}

// publish sends an event after commit. Failures are logged only.
func (s *Service) publish(ctx context.Context, typ string, userID uint, data any) {
	e := events.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		UserID:     userID,
		OccurredAt: s.now().UTC(),
		Data:       data,
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.ctxLogger(ctx).Warn().Err(err).
			Str("event", typ).
			Uint(logger.FieldUserID, userID).
			Msg("publish ledger event failed")
	}
}

// defaultCategoryID resolves the configured default category among the
// system categories.
func (s *Service) defaultCategoryID(tx *gorm.DB) (uint, error) {
	var cat models.Category
	err := tx.Where("user_id IS NULL AND name = ?", s.cfg.DefaultCategory).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("default category %q is not seeded", s.cfg.DefaultCategory)
	}
	if err != nil {
		return 0, fmt.Errorf("load default category: %w", err)
	}
	return cat.ID, nil
}

// forUpdate adds SELECT ... FOR UPDATE. The sqlite dialect drops the
// clause; there the whole write transaction is taken with BEGIN IMMEDIATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func lockAccount(tx *gorm.DB, userID, accountID uint) (*models.Account, error) {
	var acc models.Account
	err := forUpdate(tx).Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("account", accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("load account %d: %w", accountID, err)
	}
	return &acc, nil
}
