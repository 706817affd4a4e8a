package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type DepositRepository interface {
	CreateDeposit(ctx context.Context, deposit *Deposit) error
	GetDeposit(ctx context.Context, userID string, currency Currency) (*Deposit, error)
	ListDeposits(ctx context.Context, userID string) ([]*Deposit, error)

	// UpdateBalances applies the new balance/held/fee_reserved triple only if
	// the stored row still matches expected. Returns ErrConcurrencyConflict
	// when the precondition fails.
	UpdateBalances(ctx context.Context, userID string, currency Currency, expected, updated BalanceSnapshot) error

	// CreditBalance unconditionally increments balance and total_deposited.
	// Used for on-chain deposit confirmations and fee-sink credits.
	CreditBalance(ctx context.Context, userID string, currency Currency, amount decimal.Decimal) error

	// DebitWithdrawal conditionally decrements balance and increments
	// total_withdrawn. Same precondition semantics as UpdateBalances.
	DebitWithdrawal(ctx context.Context, userID string, currency Currency, expected BalanceSnapshot, amount decimal.Decimal) error
}

type HoldRepository interface {
	InsertHold(ctx context.Context, hold *Hold) error
	GetHoldByID(ctx context.Context, holdID string) (*Hold, error)
	GetHoldsByTicketID(ctx context.Context, ticketID string) ([]*Hold, error)
	GetActiveHoldsByUserID(ctx context.Context, userID string) ([]*Hold, error)

	// MarkTerminal transitions an active hold to released/refunded. Returns
	// ErrHoldNotActive if the hold is already terminal.
	MarkTerminal(ctx context.Context, holdID string, status HoldStatus) error
}

// FeeSink credits collected server fees to the platform's own custodial
// balance and records the collection.
type FeeSink interface {
	Credit(ctx context.Context, fee *ServerFee) error
}

// TxManager runs fn inside a single storage transaction; repository calls
// made with the ctx it passes join that transaction.
type TxManager interface {
	Transaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
