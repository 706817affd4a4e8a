package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit - custodial deposit record, one per exchanger per currency.
// Invariant: Balance >= Held + FeeReserved at all times.
type Deposit struct {
	ID             string
	UserID         string
	Currency       Currency
	Address        string
	Balance        decimal.Decimal
	Held           decimal.Decimal
	FeeReserved    decimal.Decimal
	TotalDeposited decimal.Decimal
	TotalWithdrawn decimal.Decimal
	Deactivated    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Available - funds that may be newly locked or withdrawn
func (d *Deposit) Available() decimal.Decimal {
	available := d.Balance.Sub(d.Held).Sub(d.FeeReserved)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// BalanceSnapshot is the balance/held/fee_reserved triple as read before a
// mutation. Conditional updates require the stored row to still match it.
type BalanceSnapshot struct {
	Balance     decimal.Decimal
	Held        decimal.Decimal
	FeeReserved decimal.Decimal
}

func (d *Deposit) Snapshot() BalanceSnapshot {
	return BalanceSnapshot{
		Balance:     d.Balance,
		Held:        d.Held,
		FeeReserved: d.FeeReserved,
	}
}

// DepositBalance - расчетный баланс депозита для выдачи наружу
type DepositBalance struct {
	Currency       Currency
	Address        string
	Balance        decimal.Decimal
	Held           decimal.Decimal
	FeeReserved    decimal.Decimal
	Available      decimal.Decimal
	TotalDeposited decimal.Decimal
	TotalWithdrawn decimal.Decimal
}
