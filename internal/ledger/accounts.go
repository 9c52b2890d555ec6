package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountInput creates an account. OpeningBalance seeds the balance
// outside of any transaction.
type AccountInput struct {
	Name           string
	Currency       string
	OpeningBalance decimal.Decimal
}

// Reconciliation compares the stored balance with the one derived from
// the opening balance and the account's transactions.
type Reconciliation struct {
	AccountID         uint            `json:"account_id"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	TransactionsTotal decimal.Decimal `json:"transactions_total"`
	TransactionCount  int             `json:"transaction_count"`
	Expected          decimal.Decimal `json:"expected_balance"`
	Balance           decimal.Decimal `json:"balance"`
	Consistent        bool            `json:"consistent"`
}

func (s *Service) CreateAccount(ctx context.Context, userID uint, in AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if err := util.ValidateName(name, 64); err != nil {
		return nil, invalid("account: %v", err)
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	if err := checkMoney("opening balance", in.OpeningBalance); err != nil {
		return nil, err
	}

	acc := models.Account{
		UserID:         userID,
		Name:           name,
		Currency:       currency,
		OpeningBalance: in.OpeningBalance,
		Balance:        in.OpeningBalance,
	}
	if err := s.db.WithContext(ctx).Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &acc, nil
}

func (s *Service) ListAccounts(ctx context.Context, userID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount removes the account together with all of its transactions.
func (s *Service) DeleteAccount(ctx context.Context, userID, accountID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc, err := lockAccount(tx, userID, accountID)
		if err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", acc.ID).Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("delete transactions of account %d: %w", acc.ID, err)
		}
		if err := tx.Delete(acc).Error; err != nil {
			return fmt.Errorf("delete account %d: %w", acc.ID, err)
		}
		return nil
	})
}

// Reconcile recomputes opening_balance + sum(transactions) for the account.
func (s *Service) Reconcile(ctx context.Context, userID, accountID uint) (*Reconciliation, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("account", accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("load account %d: %w", accountID, err)
	}

	var amounts []decimal.Decimal
	if err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("account_id = ?", acc.ID).
		Pluck("amount", &amounts).Error; err != nil {
		return nil, fmt.Errorf("sum transactions of account %d: %w", acc.ID, err)
	}

	total := decimal.Sum(decimal.Zero, amounts...)
	expected := acc.OpeningBalance.Add(total)
	return &Reconciliation{
		AccountID:         acc.ID,
		OpeningBalance:    acc.OpeningBalance,
		TransactionsTotal: total,
		TransactionCount:  len(amounts),
		Expected:          expected,
		Balance:           acc.Balance,
		Consistent:        expected.Round(4).Equal(acc.Balance.Round(4)),
	}, nil
}
