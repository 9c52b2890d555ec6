package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single signed movement on an account.
// Positive amounts are inflows, negative amounts are outflows.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	AccountID   uint            `gorm:"index;not null" json:"account_id"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Description string          `gorm:"size:255" json:"description"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}
