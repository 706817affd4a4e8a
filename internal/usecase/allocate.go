package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// holdCandidate - депозит с подтвержденной ценой, участвующий в аллокации
type holdCandidate struct {
	deposit         *domain.Deposit
	priceUSD        decimal.Decimal
	availableCrypto decimal.Decimal
	availableUSD    decimal.Decimal
}

// CreateMultiCurrencyHold locks amountUSD worth of crypto plus the server fee
// across the exchanger's deposits, draining the largest USD-valued deposit
// first. Every ledger write of the allocation happens in one transaction.
func (uc *DefaultHoldUsecase) CreateMultiCurrencyHold(ctx context.Context, ticketID, userID string, amountUSD decimal.Decimal) ([]*domain.Hold, error) {
	started := time.Now()

	if !amountUSD.IsPositive() {
		uc.Metrics.RecordAllocationError("invalid_amount")
		return nil, domain.ErrInvalidAmount
	}

	unlock := uc.gate.Acquire(userID)
	defer unlock()

	serverFeeUSD := uc.serverFeeUSD(amountUSD)
	ticketUSD := amountUSD.Sub(serverFeeUSD)
	totalNeededUSD := amountUSD

	deposits, err := uc.DepositRepo.ListDeposits(ctx, userID)
	if err != nil {
		uc.Metrics.RecordAllocationError("ledger_read")
		return nil, fmt.Errorf("failed to list deposits for %s: %w", userID, err)
	}

	candidates, perCurrency := uc.buildCandidates(ctx, deposits)

	totalAvailableUSD := decimal.Zero
	for _, c := range candidates {
		totalAvailableUSD = totalAvailableUSD.Add(c.availableUSD)
	}
	if totalAvailableUSD.LessThan(totalNeededUSD) {
		uc.Metrics.RecordAllocationError("insufficient_balance")
		uc.Metrics.ObserveAllocationDuration("insufficient", time.Since(started).Seconds())
		return nil, &domain.InsufficientBalanceError{
			NeededUSD:    totalNeededUSD,
			ServerFeeUSD: serverFeeUSD,
			AvailableUSD: totalAvailableUSD,
			PerCurrency:  perCurrency,
		}
	}

	// Самый дорогой в USD депозит опустошается первым, чтобы тикет был
	// покрыт минимальным числом холдов
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].availableUSD.Equal(candidates[j].availableUSD) {
			return candidates[i].availableUSD.GreaterThan(candidates[j].availableUSD)
		}
		return candidates[i].deposit.Currency < candidates[j].deposit.Currency
	})

	var holds []*domain.Hold

	txErr := uc.TxManager.Transaction(ctx, func(txCtx context.Context) error {
		remainingTicketUSD := ticketUSD
		remainingFeeUSD := serverFeeUSD

		for _, c := range candidates {
			remainingTotalUSD := remainingTicketUSD.Add(remainingFeeUSD)
			if !remainingTotalUSD.IsPositive() {
				break
			}

			takeUSD := decimal.Min(remainingTotalUSD, c.availableUSD)

			// Сначала закрывается тикетная часть, остаток уходит в комиссию
			ticketTakeUSD := decimal.Min(remainingTicketUSD, takeUSD)
			feeTakeUSD := takeUSD.Sub(ticketTakeUSD)

			cryptoTicket := usdToCrypto(ticketTakeUSD, c.priceUSD, c.deposit.Currency)
			cryptoFee := usdToCrypto(feeTakeUSD, c.priceUSD, c.deposit.Currency)
			if cryptoTicket.IsZero() && cryptoFee.IsZero() {
				// Пыль: сумма меньше минимальной единицы этой валюты
				continue
			}

			expected := c.deposit.Snapshot()
			updated := domain.BalanceSnapshot{
				Balance:     expected.Balance,
				Held:        expected.Held.Add(cryptoTicket),
				FeeReserved: expected.FeeReserved.Add(cryptoFee),
			}
			if err := uc.DepositRepo.UpdateBalances(txCtx, userID, c.deposit.Currency, expected, updated); err != nil {
				return fmt.Errorf("failed to lock %s deposit: %w", c.deposit.Currency, err)
			}

			hold := &domain.Hold{
				ID:              uuid.New().String(),
				TicketID:        ticketID,
				UserID:          userID,
				Currency:        c.deposit.Currency,
				AmountUSD:       ticketTakeUSD,
				CryptoHeld:      cryptoTicket,
				ServerFeeUSD:    feeTakeUSD,
				ServerFeeCrypto: cryptoFee,
				PriceAtHold:     c.priceUSD,
				Status:          domain.HoldStatusActive,
				CreatedAt:       time.Now(),
			}
			if err := uc.HoldRepo.InsertHold(txCtx, hold); err != nil {
				return fmt.Errorf("failed to insert hold for %s: %w", c.deposit.Currency, err)
			}

			holds = append(holds, hold)
			remainingTicketUSD = remainingTicketUSD.Sub(ticketTakeUSD)
			remainingFeeUSD = remainingFeeUSD.Sub(feeTakeUSD)
		}

		return nil
	})

	if txErr != nil {
		reason := "tx_failed"
		if isConcurrencyConflict(txErr) {
			reason = "concurrency_conflict"
		}
		uc.Metrics.RecordAllocationError(reason)
		uc.Metrics.ObserveAllocationDuration("error", time.Since(started).Seconds())
		return nil, txErr
	}

	for _, hold := range holds {
		uc.Metrics.RecordHoldCreated(
			string(hold.Currency),
			hold.AmountUSD.InexactFloat64(),
			hold.ServerFeeUSD.InexactFloat64(),
		)
		uc.publishHoldEvent(hold)
	}

	uc.logAction(ctx, userID, "hold.created_multi", ticketID, map[string]interface{}{
		"ticket_id":      ticketID,
		"amount_usd":     amountUSD.String(),
		"server_fee_usd": serverFeeUSD.String(),
		"holds_count":    len(holds),
	})

	uc.Metrics.ObserveAllocationDuration("success", time.Since(started).Seconds())
	slog.Info("multi-currency hold created",
		"ticket_id", ticketID,
		"user_id", userID,
		"amount_usd", amountUSD.String(),
		"server_fee_usd", serverFeeUSD.String(),
		"holds", len(holds),
	)

	return holds, nil
}

// buildCandidates resolves prices for every deposit with free funds. A
// currency with an unavailable price is skipped, never treated as zero.
func (uc *DefaultHoldUsecase) buildCandidates(ctx context.Context, deposits []*domain.Deposit) ([]*holdCandidate, []domain.CurrencyAvailability) {
	var withFunds []*domain.Deposit
	var currencies []domain.Currency
	for _, d := range deposits {
		if d.Deactivated {
			continue
		}
		if !d.Available().IsPositive() {
			continue
		}
		withFunds = append(withFunds, d)
		currencies = append(currencies, d.Currency)
	}
	if len(withFunds) == 0 {
		return nil, nil
	}

	prices, err := uc.Oracle.GetPricesUSD(ctx, currencies)
	if err != nil {
		slog.Error("batch price lookup failed", "error", err.Error())
		prices = map[domain.Currency]decimal.Decimal{}
	}

	var candidates []*holdCandidate
	var perCurrency []domain.CurrencyAvailability
	for _, d := range withFunds {
		price, ok := prices[d.Currency]
		if !ok || !price.IsPositive() {
			uc.Metrics.RecordPriceLookupFailure(string(d.Currency))
			slog.Warn("skipping deposit, price unavailable", "currency", d.Currency, "user_id", d.UserID)
			continue
		}

		available := d.Available()
		availableUSD := available.Mul(price)
		candidates = append(candidates, &holdCandidate{
			deposit:         d,
			priceUSD:        price,
			availableCrypto: available,
			availableUSD:    availableUSD,
		})
		perCurrency = append(perCurrency, domain.CurrencyAvailability{
			Currency:        d.Currency,
			AvailableCrypto: available,
			AvailableUSD:    availableUSD,
		})
	}

	return candidates, perCurrency
}

func isConcurrencyConflict(err error) bool {
	return errors.Is(err, domain.ErrConcurrencyConflict)
}

// usdToCrypto converts a USD portion into crypto units at the currency's
// native precision. Rounding is always down, so a computed sub-amount can
// never exceed what the availability check saw.
func usdToCrypto(amountUSD, priceUSD decimal.Decimal, currency domain.Currency) decimal.Decimal {
	if !amountUSD.IsPositive() {
		return decimal.Zero
	}
	prec := currency.Precision()
	return amountUSD.DivRound(priceUSD, prec+4).RoundDown(prec)
}
