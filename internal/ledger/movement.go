package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianLagraba/fin-pro/internal/events"
	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movement is one signed change to one account. Positive is an inflow.
type Movement struct {
	AccountID   uint
	CategoryID  uint
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

type movementPayload struct {
	TransactionID uint            `json:"transaction_id"`
	AccountID     uint            `json:"account_id"`
	CategoryID    uint            `json:"category_id"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
}

// ApplyMovement records one transaction and moves the account balance by
// the same amount, both in one storage transaction. Overdraft is allowed.
// A transfer between accounts is two calls.
func (s *Service) ApplyMovement(ctx context.Context, userID uint, m Movement) (*models.Transaction, error) {
	if m.Amount.IsZero() {
		return nil, fmt.Errorf("%w: movement amount is zero", ErrInvalidAmount)
	}
	if m.Date.IsZero() {
		m.Date = s.today()
	}
	m.Description = strings.TrimSpace(m.Description)

	var (
		txn     *models.Transaction
		balance decimal.Decimal
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategoryVisible(tx, userID, m.CategoryID); err != nil {
			return err
		}
		acc, err := lockAccount(tx, userID, m.AccountID)
		if err != nil {
			return err
		}
		txn, err = applyMovement(tx, acc, m)
		balance = acc.Balance
		return err
	})
	if err != nil {
		return nil, err
	}

	s.ctxLogger(ctx).Info().
		Str(logger.FieldOperation, "apply_movement").
		Uint(logger.FieldAccountID, txn.AccountID).
		Str("amount", txn.Amount.String()).
		Msg("movement applied")
	s.publish(ctx, events.MovementApplied, userID, movementPayload{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		CategoryID:    txn.CategoryID,
		Amount:        txn.Amount,
		Balance:       balance,
	})
	return txn, nil
}

// applyMovement is the single place that writes accounts.balance. acc must
// have been loaded with lockAccount inside tx; its Balance is updated in place.
func applyMovement(tx *gorm.DB, acc *models.Account, m Movement) (*models.Transaction, error) {
	if err := checkMoney("movement amount", m.Amount); err != nil {
		return nil, err
	}
	newBalance := acc.Balance.Add(m.Amount)
	if err := checkMoney("resulting balance", newBalance); err != nil {
		return nil, err
	}

	txn := models.Transaction{
		AccountID:   acc.ID,
		CategoryID:  m.CategoryID,
		Amount:      m.Amount,
		Description: m.Description,
		Date:        m.Date,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if err := tx.Model(&models.Account{}).
		Where("id = ?", acc.ID).
		Update("balance", newBalance).Error; err != nil {
		return nil, fmt.Errorf("update balance of account %d: %w", acc.ID, err)
	}
	acc.Balance = newBalance
	return &txn, nil
}

func checkCategoryVisible(tx *gorm.DB, userID, categoryID uint) error {
	var cat models.Category
	err := tx.First(&cat, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("category", categoryID)
	}
	if err != nil {
		return fmt.Errorf("load category %d: %w", categoryID, err)
	}
	if !OwnerOf(&cat).VisibleTo(userID) {
		return notFound("category", categoryID)
	}
	return nil
}
