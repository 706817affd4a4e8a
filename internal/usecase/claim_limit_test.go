package usecase

import (
	"context"
	"testing"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClaimFixture(prices map[domain.Currency]decimal.Decimal) (*DefaultClaimLimitUsecase, *memDepositRepo) {
	deposits := newMemDepositRepo()
	uc := NewDefaultClaimLimitUsecase(deposits, &fakeOracle{prices: prices}, DefaultHoldPolicy())
	return uc, deposits
}

func TestGetClaimLimitInfo(t *testing.T) {
	uc, deposits := newClaimFixture(map[domain.Currency]decimal.Decimal{
		domain.CurrencyBTC: usd("100000"),
		domain.CurrencyETH: usd("2000"),
	})
	deposits.put(&domain.Deposit{
		ID: "dep-1", UserID: "exch-1", Currency: domain.CurrencyBTC,
		Balance: usd("0.5"), Held: usd("0.1"), FeeReserved: usd("0.01"),
	})
	deposits.put(&domain.Deposit{
		ID: "dep-2", UserID: "exch-1", Currency: domain.CurrencyETH,
		Balance: usd("2"),
	})

	info, err := uc.GetClaimLimitInfo(context.Background(), "exch-1")
	require.NoError(t, err)

	// BTC $50,000 + ETH $4,000; the full balance counts, not just free funds
	assert.True(t, info.TotalDepositUSD.Equal(usd("54000")), "total: %s", info.TotalDepositUSD)
	assert.True(t, info.TotalHeldUSD.Equal(usd("10000")))
	assert.True(t, info.TotalFeeReservedUSD.Equal(usd("1000")))
	assert.True(t, info.ClaimLimitUSD.Equal(usd("54000")), "multiplier 1.0")
	assert.True(t, info.AvailableToClaimUSD.Equal(usd("43000")))
}

func TestGetClaimLimitInfo_NoDeposits(t *testing.T) {
	uc, _ := newClaimFixture(nil)

	info, err := uc.GetClaimLimitInfo(context.Background(), "exch-empty")
	require.NoError(t, err)
	assert.True(t, info.TotalDepositUSD.IsZero())
	assert.True(t, info.AvailableToClaimUSD.IsZero())
}

func TestGetClaimLimitInfo_UnpricedCurrencyExcluded(t *testing.T) {
	uc, deposits := newClaimFixture(map[domain.Currency]decimal.Decimal{
		domain.CurrencyBTC: usd("100000"),
	})
	deposits.put(&domain.Deposit{
		ID: "dep-1", UserID: "exch-1", Currency: domain.CurrencyBTC, Balance: usd("0.1"),
	})
	deposits.put(&domain.Deposit{
		ID: "dep-2", UserID: "exch-1", Currency: domain.CurrencyXRP, Balance: usd("50000"),
	})

	info, err := uc.GetClaimLimitInfo(context.Background(), "exch-1")
	require.NoError(t, err)
	// XRP has no quote and must not inflate the limit
	assert.True(t, info.TotalDepositUSD.Equal(usd("10000")))
}

func TestCanClaimTicket(t *testing.T) {
	uc, deposits := newClaimFixture(map[domain.Currency]decimal.Decimal{
		domain.CurrencyBTC: usd("100000"),
	})
	deposits.put(&domain.Deposit{
		ID: "dep-1", UserID: "exch-1", Currency: domain.CurrencyBTC, Balance: usd("0.1"),
	})

	tests := []struct {
		name      string
		amountUSD string
		allowed   bool
	}{
		{"well under limit", "5000", true},
		{"exactly at limit", "10000", true},
		{"over limit", "10001", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason, available, err := uc.CanClaimTicket(context.Background(), "exch-1", usd(tt.amountUSD))
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
			assert.True(t, available.Equal(usd("10000")))
			if tt.allowed {
				assert.Empty(t, reason)
			} else {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestCanClaimTicket_InvalidAmount(t *testing.T) {
	uc, _ := newClaimFixture(nil)

	allowed, _, _, err := uc.CanClaimTicket(context.Background(), "exch-1", usd("0"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.False(t, allowed)
}
