package ledger

import (
	"context"
	"fmt"

	"github.com/julianLagraba/fin-pro/internal/models"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// TransactionQuery pages through a user's transactions, newest first.
// A zero AccountID means every account of the user.
type TransactionQuery struct {
	AccountID uint
	Skip      int
	Limit     int
}

// TransactionRow is a transaction joined with its account and category names.
type TransactionRow struct {
	models.Transaction
	AccountName  string `json:"account_name"`
	Currency     string `json:"currency"`
	CategoryName string `json:"category_name"`
}

func (q *TransactionQuery) normalize() {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
}

func (s *Service) ListTransactions(ctx context.Context, userID uint, q TransactionQuery) ([]models.Transaction, error) {
	q.normalize()

	db := s.db.WithContext(ctx).
		Where("account_id IN (?)", s.db.Model(&models.Account{}).Select("id").Where("user_id = ?", userID))
	if q.AccountID != 0 {
		db = db.Where("account_id = ?", q.AccountID)
	}

	var txns []models.Transaction
	if err := db.Order("date DESC, id DESC").
		Offset(q.Skip).
		Limit(q.Limit).
		Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// ExportTransactions returns every transaction of the user, oldest first,
// with names resolved for spreadsheets.
func (s *Service) ExportTransactions(ctx context.Context, userID uint) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := s.db.WithContext(ctx).
		Table("transactions").
		Select("transactions.*, accounts.name AS account_name, accounts.currency AS currency, categories.name AS category_name").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("accounts.user_id = ?", userID).
		Order("transactions.date, transactions.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	return rows, nil
}
