package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReleaseHold completes one hold. With deductFunds the locked crypto is
// debited from the balance and the fee share is forwarded to the platform
// deposit; without it the lock is simply removed and funds stay with the
// exchanger.
func (uc *DefaultHoldUsecase) ReleaseHold(ctx context.Context, holdID string, deductFunds bool) (*domain.Hold, error) {
	hold, err := uc.HoldRepo.GetHoldByID(ctx, holdID)
	if err != nil {
		return nil, err
	}

	unlock := uc.gate.Acquire(hold.UserID)
	defer unlock()

	return uc.releaseLocked(ctx, hold, deductFunds)
}

// ReleaseAllHoldsForTicket completes every hold of a multi-currency ticket
// in one pass. Already-terminal holds are skipped, not treated as errors, so
// a retried webhook stays idempotent.
func (uc *DefaultHoldUsecase) ReleaseAllHoldsForTicket(ctx context.Context, ticketID string, deductFunds bool) ([]*domain.Hold, error) {
	holds, err := uc.HoldRepo.GetHoldsByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if len(holds) == 0 {
		return nil, domain.ErrNoHoldsForTicket
	}

	unlock := uc.gate.Acquire(holds[0].UserID)
	defer unlock()

	var released []*domain.Hold
	for _, hold := range holds {
		if hold.Status.IsTerminal() {
			continue
		}
		done, err := uc.releaseLocked(ctx, hold, deductFunds)
		if err != nil {
			return released, fmt.Errorf("failed to release hold %s of ticket %s: %w", hold.ID, ticketID, err)
		}
		released = append(released, done)
	}

	return released, nil
}

// releaseLocked performs the actual release. Caller must hold the user gate.
func (uc *DefaultHoldUsecase) releaseLocked(ctx context.Context, hold *domain.Hold, deductFunds bool) (*domain.Hold, error) {
	if hold.Status.IsTerminal() {
		return nil, fmt.Errorf("hold %s already %s: %w", hold.ID, hold.Status, domain.ErrHoldNotActive)
	}

	deposit, err := uc.DepositRepo.GetDeposit(ctx, hold.UserID, hold.Currency)
	if err != nil {
		// Депозит, под который был создан холд, обязан существовать.
		// Здесь нельзя "обнулить и продолжить" - это повреждение данных.
		return nil, fmt.Errorf("deposit %s/%s behind hold %s is gone: %w",
			hold.UserID, hold.Currency, hold.ID, err)
	}

	expected := deposit.Snapshot()
	updated := uc.unwoundSnapshot(expected, hold, deductFunds)

	status := domain.HoldStatusRefunded
	if deductFunds {
		status = domain.HoldStatusReleased
	}

	txErr := uc.TxManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.DepositRepo.UpdateBalances(txCtx, hold.UserID, hold.Currency, expected, updated); err != nil {
			return fmt.Errorf("failed to unwind %s deposit: %w", hold.Currency, err)
		}
		if err := uc.HoldRepo.MarkTerminal(txCtx, hold.ID, status); err != nil {
			return err
		}
		if deductFunds && hold.ServerFeeCrypto.IsPositive() {
			fee := &domain.ServerFee{
				ID:           uuid.New().String(),
				TicketID:     hold.TicketID,
				ExchangerID:  hold.UserID,
				Currency:     hold.Currency,
				AmountCrypto: hold.ServerFeeCrypto,
				AmountUSD:    hold.ServerFeeUSD,
				CollectedAt:  time.Now(),
			}
			if err := uc.FeeSink.Credit(txCtx, fee); err != nil {
				return fmt.Errorf("failed to collect server fee for hold %s: %w", hold.ID, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	now := time.Now()
	hold.Status = status
	if deductFunds {
		hold.ReleasedAt = &now
		uc.Metrics.RecordFeeCollected(string(hold.Currency), hold.ServerFeeUSD.InexactFloat64())
	} else {
		hold.RefundedAt = &now
	}
	uc.Metrics.RecordHoldReleased(string(hold.Currency), deductFunds)
	uc.publishHoldEvent(hold)

	action := "hold.refunded"
	if deductFunds {
		action = "hold.released"
	}
	uc.logAction(ctx, hold.UserID, action, hold.ID, map[string]interface{}{
		"ticket_id":         hold.TicketID,
		"currency":          string(hold.Currency),
		"crypto_held":       hold.CryptoHeld.String(),
		"server_fee_crypto": hold.ServerFeeCrypto.String(),
		"deduct_funds":      deductFunds,
	})

	slog.Info("hold released",
		"hold_id", hold.ID,
		"ticket_id", hold.TicketID,
		"currency", hold.Currency,
		"status", status,
	)

	return hold, nil
}

// unwoundSnapshot computes the post-release ledger triple. Any field that
// would dip below zero is clamped and counted: the ledger and the holds
// table disagree, and the alert on the counter is the point.
func (uc *DefaultHoldUsecase) unwoundSnapshot(expected domain.BalanceSnapshot, hold *domain.Hold, deductFunds bool) domain.BalanceSnapshot {
	totalLocked := hold.CryptoHeld.Add(hold.ServerFeeCrypto)
	currency := string(hold.Currency)

	balance := expected.Balance
	if deductFunds {
		balance = balance.Sub(totalLocked)
	}
	held := expected.Held.Sub(hold.CryptoHeld)
	feeReserved := expected.FeeReserved.Sub(hold.ServerFeeCrypto)

	if balance.IsNegative() {
		slog.Warn("clamping negative balance on release",
			"hold_id", hold.ID, "currency", currency, "balance", balance.String())
		uc.Metrics.RecordNegativeClamp("balance", currency)
		balance = decimal.Zero
	}
	if held.IsNegative() {
		slog.Warn("clamping negative held on release",
			"hold_id", hold.ID, "currency", currency, "held", held.String())
		uc.Metrics.RecordNegativeClamp("held", currency)
		held = decimal.Zero
	}
	if feeReserved.IsNegative() {
		slog.Warn("clamping negative fee_reserved on release",
			"hold_id", hold.ID, "currency", currency, "fee_reserved", feeReserved.String())
		uc.Metrics.RecordNegativeClamp("fee_reserved", currency)
		feeReserved = decimal.Zero
	}

	return domain.BalanceSnapshot{
		Balance:     balance,
		Held:        held,
		FeeReserved: feeReserved,
	}
}
