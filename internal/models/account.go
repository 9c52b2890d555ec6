package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds money in a single currency (bank, cash, wallet).
// Balance is only written by the ledger movement logic.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	Name           string          `gorm:"size:64;not null" json:"name"`
	Balance        decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"balance"`
	OpeningBalance decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"opening_balance"`
	Currency       string          `gorm:"size:8;not null;default:ARS" json:"currency"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
