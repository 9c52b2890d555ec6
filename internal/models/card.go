package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard is a card the user buys with. Its purchases stay off-ledger.
type CreditCard struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"index;not null" json:"user_id"`
	Name       string          `gorm:"size:64;not null" json:"name"`
	Limit      decimal.Decimal `gorm:"column:credit_limit;type:numeric(20,4);not null;default:0" json:"limit"`
	ClosingDay int             `gorm:"not null" json:"closing_day"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CardPurchase is one purchase charged to a card, possibly in installments.
type CardPurchase struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CardID       uint            `gorm:"index;not null" json:"card_id"`
	Description  string          `gorm:"size:255" json:"description"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Currency     string          `gorm:"size:8;not null" json:"currency"`
	Installments int             `gorm:"not null;default:1" json:"installments"`
	Date         time.Time       `gorm:"index;not null" json:"date"`
	IsRecurring  bool            `gorm:"not null;default:false" json:"is_recurring"`
	CreatedAt    time.Time       `json:"created_at"`
}
