package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreditCardInput struct {
	Name       string
	Limit      decimal.Decimal
	ClosingDay int
}

// CardPurchaseInput describes one purchase. Purchases never touch an
// account balance.
type CardPurchaseInput struct {
	Description  string
	Amount       decimal.Decimal
	Currency     string
	Installments int
	Date         time.Time
	IsRecurring  bool
}

func (s *Service) CreateCreditCard(ctx context.Context, userID uint, in CreditCardInput) (*models.CreditCard, error) {
	name := strings.TrimSpace(in.Name)
	if err := util.ValidateName(name, 64); err != nil {
		return nil, invalid("credit card: %v", err)
	}
	if in.Limit.IsNegative() {
		return nil, fmt.Errorf("%w: card limit is negative", ErrInvalidAmount)
	}
	if err := checkMoney("card limit", in.Limit); err != nil {
		return nil, err
	}
	if err := util.ValidateDay(in.ClosingDay); err != nil {
		return nil, invalid("closing day: %v", err)
	}

	card := models.CreditCard{
		UserID:     userID,
		Name:       name,
		Limit:      in.Limit,
		ClosingDay: in.ClosingDay,
	}
	if err := s.db.WithContext(ctx).Create(&card).Error; err != nil {
		return nil, fmt.Errorf("create credit card: %w", err)
	}
	return &card, nil
}

func (s *Service) ListCreditCards(ctx context.Context, userID uint) ([]models.CreditCard, error) {
	var cards []models.CreditCard
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	return cards, nil
}

func (s *Service) CreateCardPurchase(ctx context.Context, userID, cardID uint, in CardPurchaseInput) (*models.CardPurchase, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: purchase amount must be positive", ErrInvalidAmount)
	}
	if err := checkMoney("purchase amount", in.Amount); err != nil {
		return nil, err
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	if in.Installments == 0 {
		in.Installments = 1
	}
	if in.Installments < 1 || in.Installments > 72 {
		return nil, invalid("installments must be between 1 and 72, got %d", in.Installments)
	}
	if in.Date.IsZero() {
		in.Date = s.today()
	}

	db := s.db.WithContext(ctx)
	if _, err := ownedCard(db, userID, cardID); err != nil {
		return nil, err
	}

	purchase := models.CardPurchase{
		CardID:       cardID,
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		Currency:     currency,
		Installments: in.Installments,
		Date:         in.Date,
		IsRecurring:  in.IsRecurring,
	}
	if err := db.Create(&purchase).Error; err != nil {
		return nil, fmt.Errorf("create card purchase: %w", err)
	}
	return &purchase, nil
}

func (s *Service) ListCardPurchases(ctx context.Context, userID, cardID uint) ([]models.CardPurchase, error) {
	db := s.db.WithContext(ctx)
	if _, err := ownedCard(db, userID, cardID); err != nil {
		return nil, err
	}

	var purchases []models.CardPurchase
	if err := db.Where("card_id = ?", cardID).
		Order("date DESC, id DESC").
		Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("list card purchases: %w", err)
	}
	return purchases, nil
}

// DeleteCardPurchase removes a purchase from one of the user's cards.
func (s *Service) DeleteCardPurchase(ctx context.Context, userID, purchaseID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND card_id IN (?)", purchaseID,
			s.db.Model(&models.CreditCard{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CardPurchase{})
	if res.Error != nil {
		return fmt.Errorf("delete card purchase %d: %w", purchaseID, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("card purchase", purchaseID)
	}
	return nil
}

func ownedCard(db *gorm.DB, userID, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	err := db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("credit card", cardID)
	}
	if err != nil {
		return nil, fmt.Errorf("load credit card %d: %w", cardID, err)
	}
	return &card, nil
}
