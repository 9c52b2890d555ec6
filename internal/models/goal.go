package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount grows only through deposits.
type Goal struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	Name          string          `gorm:"size:64;not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"current_amount"`
	Currency      string          `gorm:"size:8;not null;default:ARS" json:"currency"`
	Deadline      *time.Time      `json:"deadline"`
	CreatedAt     time.Time       `json:"created_at"`
}
