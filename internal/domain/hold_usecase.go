package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ClaimLimitInfo - агрегированная картина лимитов обменника
type ClaimLimitInfo struct {
	TotalDepositUSD     decimal.Decimal
	TotalHeldUSD        decimal.Decimal
	TotalFeeReservedUSD decimal.Decimal
	ClaimLimitUSD       decimal.Decimal
	AvailableToClaimUSD decimal.Decimal
	ClaimMultiplier     decimal.Decimal
}

type HoldUsecase interface {
	CreateMultiCurrencyHold(ctx context.Context, ticketID, userID string, amountUSD decimal.Decimal) ([]*Hold, error)
	ReleaseHold(ctx context.Context, holdID string, deductFunds bool) (*Hold, error)
	ReleaseAllHoldsForTicket(ctx context.Context, ticketID string, deductFunds bool) ([]*Hold, error)
	GetActiveHolds(ctx context.Context, userID string) ([]*Hold, error)
	GetHoldsByTicket(ctx context.Context, ticketID string) ([]*Hold, error)
}

type ClaimLimitUsecase interface {
	GetClaimLimitInfo(ctx context.Context, userID string) (*ClaimLimitInfo, error)
	CanClaimTicket(ctx context.Context, userID string, amountUSD decimal.Decimal) (bool, string, decimal.Decimal, error)
}

type DepositUsecase interface {
	ProvisionDepositWallet(ctx context.Context, userID string, currency Currency, address string) (*Deposit, error)
	CreditDeposit(ctx context.Context, userID string, currency Currency, amount decimal.Decimal, txHash string) (*Deposit, error)
	GetBalance(ctx context.Context, userID string, currency Currency) (*DepositBalance, error)
	ListBalances(ctx context.Context, userID string) ([]*DepositBalance, error)
	WithdrawAvailable(ctx context.Context, userID string, currency Currency, amount decimal.Decimal, withdrawMax bool, toAddress string) (decimal.Decimal, error)
}
