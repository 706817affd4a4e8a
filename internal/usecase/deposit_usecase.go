package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DefaultDepositUsecase struct {
	DepositRepo domain.DepositRepository
	EventLogger logger.HoldEventLogger
	gate        *UserGate
}

func NewDefaultDepositUsecase(
	depositRepo domain.DepositRepository,
	eventLogger logger.HoldEventLogger,
	gate *UserGate) *DefaultDepositUsecase {

	return &DefaultDepositUsecase{
		DepositRepo: depositRepo,
		EventLogger: eventLogger,
		gate:        gate,
	}
}

// ProvisionDepositWallet creates the deposit row for a user+currency pair.
// SPL/ERC-20 tokens reuse the parent chain's address: one on-chain wallet,
// separate ledger rows.
func (uc *DefaultDepositUsecase) ProvisionDepositWallet(ctx context.Context, userID string, currency domain.Currency, address string) (*domain.Deposit, error) {
	if !currency.IsSupported() {
		return nil, fmt.Errorf("%s: %w", currency, domain.ErrCurrencyNotSupported)
	}

	existing, err := uc.DepositRepo.GetDeposit(ctx, userID, currency)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrDepositNotFound) {
		return nil, err
	}

	if currency.IsToken() {
		parent, err := uc.DepositRepo.GetDeposit(ctx, userID, currency.ParentChain())
		if err != nil {
			return nil, fmt.Errorf("provision %s wallet for %s first: %w",
				currency.ParentChain(), currency, err)
		}
		address = parent.Address
	}

	deposit := &domain.Deposit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Currency:  currency,
		Address:   address,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uc.DepositRepo.CreateDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to provision %s deposit: %w", currency, err)
	}

	slog.Info("deposit wallet provisioned", "user_id", userID, "currency", currency)
	return deposit, nil
}

// CreditDeposit registers a confirmed on-chain deposit.
func (uc *DefaultDepositUsecase) CreditDeposit(ctx context.Context, userID string, currency domain.Currency, amount decimal.Decimal, txHash string) (*domain.Deposit, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	deposit, err := uc.DepositRepo.GetDeposit(ctx, userID, currency)
	if err != nil {
		return nil, err
	}
	if deposit.Deactivated {
		return nil, domain.ErrDepositDeactivated
	}

	if err := uc.DepositRepo.CreditBalance(ctx, userID, currency, amount); err != nil {
		return nil, fmt.Errorf("failed to credit %s deposit: %w", currency, err)
	}

	uc.logAudit(ctx, userID, "deposit.credited", deposit.ID, fmt.Sprintf(
		`{"currency":%q,"amount":%q,"tx_hash":%q}`, currency, amount.String(), txHash))

	return uc.DepositRepo.GetDeposit(ctx, userID, currency)
}

func (uc *DefaultDepositUsecase) GetBalance(ctx context.Context, userID string, currency domain.Currency) (*domain.DepositBalance, error) {
	deposit, err := uc.DepositRepo.GetDeposit(ctx, userID, currency)
	if err != nil {
		return nil, err
	}
	return toBalance(deposit), nil
}

func (uc *DefaultDepositUsecase) ListBalances(ctx context.Context, userID string) ([]*domain.DepositBalance, error) {
	deposits, err := uc.DepositRepo.ListDeposits(ctx, userID)
	if err != nil {
		return nil, err
	}
	balances := make([]*domain.DepositBalance, 0, len(deposits))
	for _, d := range deposits {
		balances = append(balances, toBalance(d))
	}
	return balances, nil
}

// WithdrawAvailable debits free funds back to the exchanger. Held and
// fee-reserved portions are untouchable until their holds resolve. Returns
// the amount actually withdrawn.
func (uc *DefaultDepositUsecase) WithdrawAvailable(ctx context.Context, userID string, currency domain.Currency, amount decimal.Decimal, withdrawMax bool, toAddress string) (decimal.Decimal, error) {
	unlock := uc.gate.Acquire(userID)
	defer unlock()

	deposit, err := uc.DepositRepo.GetDeposit(ctx, userID, currency)
	if err != nil {
		return decimal.Zero, err
	}
	if deposit.Deactivated {
		return decimal.Zero, domain.ErrDepositDeactivated
	}

	available := deposit.Available()
	if withdrawMax {
		amount = available
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if amount.GreaterThan(available) {
		return decimal.Zero, fmt.Errorf(
			"requested %s %s but only %s available: %w",
			amount.String(), currency, available.String(), domain.ErrWithdrawUnavailable)
	}

	if err := uc.DepositRepo.DebitWithdrawal(ctx, userID, currency, deposit.Snapshot(), amount); err != nil {
		return decimal.Zero, fmt.Errorf("failed to debit %s withdrawal: %w", currency, err)
	}

	uc.logAudit(ctx, userID, "deposit.withdrawn", deposit.ID, fmt.Sprintf(
		`{"currency":%q,"amount":%q,"to_address":%q}`, currency, amount.String(), toAddress))

	slog.Info("withdrawal debited",
		"user_id", userID, "currency", currency, "amount", amount.String())

	return amount, nil
}

func (uc *DefaultDepositUsecase) logAudit(ctx context.Context, userID, action, resourceID, details string) {
	event := logger.HoldAuditEvent{
		RequestID:    uuid.New().String(),
		UserID:       userID,
		Action:       action,
		ResourceType: "deposit",
		ResourceID:   resourceID,
		Details:      details,
		Timestamp:    time.Now(),
	}
	if err := uc.EventLogger.LogHoldEvent(ctx, event); err != nil {
		slog.Error("failed to write audit event", "action", action, "error", err.Error())
	}
}

func toBalance(d *domain.Deposit) *domain.DepositBalance {
	return &domain.DepositBalance{
		Currency:       d.Currency,
		Address:        d.Address,
		Balance:        d.Balance,
		Held:           d.Held,
		FeeReserved:    d.FeeReserved,
		Available:      d.Available(),
		TotalDeposited: d.TotalDeposited,
		TotalWithdrawn: d.TotalWithdrawn,
	}
}
