package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubscriptionInput is what a caller supplies to create a subscription.
type SubscriptionInput struct {
	Name       string
	Price      decimal.Decimal
	Currency   string
	BillingDay int
	CardID     *uint
}

func (in *SubscriptionInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if err := util.ValidateName(in.Name, 64); err != nil {
		return invalid("subscription: %v", err)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrInvalidAmount)
	}
	if err := checkMoney("price", in.Price); err != nil {
		return err
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return err
	}
	in.Currency = currency
	if err := util.ValidateDay(in.BillingDay); err != nil {
		return invalid("billing day: %v", err)
	}
	return nil
}

// CreateSubscription stores the subscription and, when it is tied to a
// card, seeds one recurring purchase on that card. Both rows commit
// together or not at all.
func (s *Service) CreateSubscription(ctx context.Context, userID uint, in SubscriptionInput) (*models.Subscription, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	sub := models.Subscription{
		UserID:     userID,
		Name:       in.Name,
		Price:      in.Price,
		Currency:   in.Currency,
		BillingDay: in.BillingDay,
		CardID:     in.CardID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.CardID != nil {
			if _, err := ownedCard(tx, userID, *in.CardID); err != nil {
				return err
			}
		}
		if err := tx.Create(&sub).Error; err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
		if in.CardID == nil {
			return nil
		}

		purchase := models.CardPurchase{
			CardID:       *in.CardID,
			Description:  "Subscription: " + sub.Name,
			Amount:       sub.Price,
			Currency:     sub.Currency,
			Installments: 1,
			Date:         s.today(),
			IsRecurring:  true,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return fmt.Errorf("seed purchase for subscription %d: %w", sub.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Service) ListSubscriptions(ctx context.Context, userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("billing_day, id").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// normalizeCurrency defaults an empty code to ARS and checks it against ISO 4217.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "ARS", nil
	}
	if err := util.ValidateCurrency(code); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCurrency, err)
	}
	return code, nil
}
