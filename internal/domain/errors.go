package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCurrencyNotSupported = errors.New("currency not supported")
	ErrDepositNotFound      = errors.New("deposit not found")
	ErrDepositDeactivated   = errors.New("deposit is deactivated")
	ErrHoldNotFound         = errors.New("hold not found")
	ErrHoldNotActive        = errors.New("hold is not active")
	ErrNoHoldsForTicket     = errors.New("no holds found for ticket")
	ErrConcurrencyConflict  = errors.New("concurrent ledger mutation detected")
	ErrPriceUnavailable     = errors.New("price unavailable")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrClaimLimitExceeded   = errors.New("claim limit exceeded")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrWithdrawUnavailable  = errors.New("withdraw amount exceeds available funds")
)

// CurrencyAvailability - per-currency availability snapshot used for user
// feedback when an allocation fails.
type CurrencyAvailability struct {
	Currency        Currency
	AvailableCrypto decimal.Decimal
	AvailableUSD    decimal.Decimal
}

// InsufficientBalanceError reports how much was needed vs. available across
// all of the exchanger's deposits. Unwraps to ErrInsufficientBalance.
type InsufficientBalanceError struct {
	NeededUSD    decimal.Decimal
	ServerFeeUSD decimal.Decimal
	AvailableUSD decimal.Decimal
	PerCurrency  []CurrencyAvailability
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: need $%s (includes $%s server fee), but only $%s available across all deposits",
		e.NeededUSD.StringFixed(2), e.ServerFeeUSD.StringFixed(2), e.AvailableUSD.StringFixed(2),
	)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

func (e *InsufficientBalanceError) ShortfallUSD() decimal.Decimal {
	return e.NeededUSD.Sub(e.AvailableUSD)
}
