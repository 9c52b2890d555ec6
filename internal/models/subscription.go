package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a recurring charge template (streaming, gym, hosting).
type Subscription struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"index;not null" json:"user_id"`
	Name       string          `gorm:"size:64;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"price"`
	Currency   string          `gorm:"size:8;not null;default:ARS" json:"currency"`
	BillingDay int             `gorm:"not null" json:"billing_day"`
	CardID     *uint           `gorm:"index" json:"card_id"`
	CreatedAt  time.Time       `json:"created_at"`
}
