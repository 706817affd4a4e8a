package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultClaimLimitUsecase answers "how large a ticket may this exchanger
// take" from the full USD value of their deposits.
type DefaultClaimLimitUsecase struct {
	DepositRepo domain.DepositRepository
	Oracle      domain.PriceOracle
	Policy      HoldPolicy
}

func NewDefaultClaimLimitUsecase(
	depositRepo domain.DepositRepository,
	oracle domain.PriceOracle,
	policy HoldPolicy) *DefaultClaimLimitUsecase {

	return &DefaultClaimLimitUsecase{
		DepositRepo: depositRepo,
		Oracle:      oracle,
		Policy:      policy,
	}
}

func (uc *DefaultClaimLimitUsecase) GetClaimLimitInfo(ctx context.Context, userID string) (*domain.ClaimLimitInfo, error) {
	deposits, err := uc.DepositRepo.ListDeposits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits for %s: %w", userID, err)
	}

	var currencies []domain.Currency
	for _, d := range deposits {
		if d.Deactivated || !d.Balance.IsPositive() {
			continue
		}
		currencies = append(currencies, d.Currency)
	}

	prices := map[domain.Currency]decimal.Decimal{}
	if len(currencies) > 0 {
		prices, err = uc.Oracle.GetPricesUSD(ctx, currencies)
		if err != nil {
			return nil, fmt.Errorf("failed to price deposits for %s: %w", userID, err)
		}
	}

	totalDepositUSD := decimal.Zero
	totalHeldUSD := decimal.Zero
	totalFeeReservedUSD := decimal.Zero

	for _, d := range deposits {
		price, ok := prices[d.Currency]
		if !ok || !price.IsPositive() {
			if d.Balance.IsPositive() && !d.Deactivated {
				// Валюта без цены консервативно не учитывается в лимите
				slog.Warn("claim limit skips unpriced deposit", "currency", d.Currency, "user_id", userID)
			}
			continue
		}
		totalDepositUSD = totalDepositUSD.Add(d.Balance.Mul(price))
		totalHeldUSD = totalHeldUSD.Add(d.Held.Mul(price))
		totalFeeReservedUSD = totalFeeReservedUSD.Add(d.FeeReserved.Mul(price))
	}

	claimLimitUSD := totalDepositUSD.Mul(uc.Policy.ClaimLimitMultiplier)
	availableUSD := claimLimitUSD.Sub(totalHeldUSD).Sub(totalFeeReservedUSD)
	if availableUSD.IsNegative() {
		availableUSD = decimal.Zero
	}

	return &domain.ClaimLimitInfo{
		TotalDepositUSD:     totalDepositUSD,
		TotalHeldUSD:        totalHeldUSD,
		TotalFeeReservedUSD: totalFeeReservedUSD,
		ClaimLimitUSD:       claimLimitUSD,
		AvailableToClaimUSD: availableUSD,
		ClaimMultiplier:     uc.Policy.ClaimLimitMultiplier,
	}, nil
}

// CanClaimTicket reports whether a ticket of amountUSD fits under the limit,
// with a human-readable reason when it does not.
func (uc *DefaultClaimLimitUsecase) CanClaimTicket(ctx context.Context, userID string, amountUSD decimal.Decimal) (bool, string, decimal.Decimal, error) {
	if !amountUSD.IsPositive() {
		return false, "ticket amount must be greater than zero", decimal.Zero, domain.ErrInvalidAmount
	}

	info, err := uc.GetClaimLimitInfo(ctx, userID)
	if err != nil {
		return false, "", decimal.Zero, err
	}

	if amountUSD.GreaterThan(info.AvailableToClaimUSD) {
		reason := fmt.Sprintf(
			"ticket of $%s exceeds available claim limit of $%s (limit $%s, already locked $%s)",
			amountUSD.StringFixed(2),
			info.AvailableToClaimUSD.StringFixed(2),
			info.ClaimLimitUSD.StringFixed(2),
			info.TotalHeldUSD.Add(info.TotalFeeReservedUSD).StringFixed(2),
		)
		return false, reason, info.AvailableToClaimUSD, nil
	}

	return true, "", info.AvailableToClaimUSD, nil
}
