package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type HoldModel struct {
	ID              string          `gorm:"primaryKey;type:uuid"`
	TicketID        string          `gorm:"index:idx_hold_ticket;not null"`
	UserID          string          `gorm:"index:idx_hold_user_status;not null"`
	Currency        string          `gorm:"not null"`
	AmountUSD       decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	CryptoHeld      decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	ServerFeeUSD    decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	ServerFeeCrypto decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	PriceAtHold     decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	Status          string          `gorm:"index:idx_hold_user_status;not null"`
	CreatedAt       time.Time
	ReleasedAt      *time.Time `gorm:"default:null"`
	RefundedAt      *time.Time `gorm:"default:null"`
}

func (HoldModel) TableName() string {
	return "ticket_holds"
}

type ServerFeeModel struct {
	ID           string          `gorm:"primaryKey;type:uuid"`
	TicketID     string          `gorm:"index;not null"`
	ExchangerID  string          `gorm:"index;not null"`
	Currency     string          `gorm:"not null"`
	AmountCrypto decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	AmountUSD    decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	CollectedAt  time.Time
	CreatedAt    time.Time
}

func (ServerFeeModel) TableName() string {
	return "server_fees"
}
