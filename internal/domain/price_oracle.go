package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceOracle resolves current USD unit prices. A missing price surfaces as
// an error wrapping ErrPriceUnavailable; batch lookups simply omit the
// currency from the result map.
type PriceOracle interface {
	GetPriceUSD(ctx context.Context, currency Currency) (decimal.Decimal, error)
	GetPricesUSD(ctx context.Context, currencies []Currency) (map[Currency]decimal.Decimal, error)
}
