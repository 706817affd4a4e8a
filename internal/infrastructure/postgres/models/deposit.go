package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositModel struct {
	ID             string          `gorm:"primaryKey;type:uuid"`
	UserID         string          `gorm:"uniqueIndex:idx_user_currency;index:idx_deposit_user"`
	Currency       string          `gorm:"uniqueIndex:idx_user_currency"`
	Address        string
	Balance        decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	Held           decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	FeeReserved    decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	TotalDeposited decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	TotalWithdrawn decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	Deactivated    bool            `gorm:"default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DepositModel) TableName() string {
	return "exchanger_deposits"
}
