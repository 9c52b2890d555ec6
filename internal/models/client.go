package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is someone the user bills for work.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     *string   `gorm:"size:255" json:"email"`
	Phone     *string   `gorm:"size:64" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Job is a billable piece of work for a client. IsPaid only ever goes from false to true.
type Job struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientID    uint            `gorm:"index;not null" json:"client_id"`
	Description string          `gorm:"size:255" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Currency    string          `gorm:"size:8;not null;default:ARS" json:"currency"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	IsPaid      bool            `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt   time.Time       `json:"created_at"`
}
