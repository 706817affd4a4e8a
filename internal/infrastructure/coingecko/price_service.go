package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Map currency codes to CoinGecko coin ids. Tokens resolve to the same id
// as their base asset (USDT-SOL and USDT-ETH are both "tether").
var coingeckoIDs = map[domain.Currency]string{
	domain.CurrencyBTC:     "bitcoin",
	domain.CurrencyLTC:     "litecoin",
	domain.CurrencyETH:     "ethereum",
	domain.CurrencySOL:     "solana",
	domain.CurrencyUSDTSOL: "tether",
	domain.CurrencyUSDTETH: "tether",
	domain.CurrencyUSDCSOL: "usd-coin",
	domain.CurrencyUSDCETH: "usd-coin",
	domain.CurrencyXRP:     "ripple",
	domain.CurrencyBNB:     "binancecoin",
	domain.CurrencyTRX:     "tron",
	domain.CurrencyMATIC:   "matic-network",
	domain.CurrencyAVAX:    "avalanche-2",
	domain.CurrencyDOGE:    "dogecoin",
}

type cachedPrice struct {
	price    decimal.Decimal
	cachedAt time.Time
}

type PriceService struct {
	baseURL string
	client  *http.Client
	ttl     time.Duration

	mu    sync.RWMutex
	cache map[domain.Currency]cachedPrice
}

func NewPriceService(baseURL string, timeout, cacheTTL time.Duration) *PriceService {
	return &PriceService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		ttl:     cacheTTL,
		cache:   make(map[domain.Currency]cachedPrice),
	}
}

func (s *PriceService) GetPriceUSD(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	prices, err := s.GetPricesUSD(ctx, []domain.Currency{currency})
	if err != nil {
		return decimal.Zero, err
	}
	price, ok := prices[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", currency, domain.ErrPriceUnavailable)
	}
	return price, nil
}

// GetPricesUSD batch-fetches prices, serving from the cache where possible.
// Currencies CoinGecko did not return are omitted from the result map.
func (s *PriceService) GetPricesUSD(ctx context.Context, currencies []domain.Currency) (map[domain.Currency]decimal.Decimal, error) {
	results := make(map[domain.Currency]decimal.Decimal, len(currencies))
	toFetch := make([]domain.Currency, 0, len(currencies))

	s.mu.RLock()
	for _, currency := range currencies {
		if cached, ok := s.cache[currency]; ok && time.Since(cached.cachedAt) < s.ttl {
			results[currency] = cached.price
			continue
		}
		toFetch = append(toFetch, currency)
	}
	s.mu.RUnlock()

	if len(toFetch) == 0 {
		return results, nil
	}

	coinIDs := make([]string, 0, len(toFetch))
	seen := make(map[string]bool)
	for _, currency := range toFetch {
		coinID, ok := coingeckoIDs[currency]
		if !ok {
			slog.Warn("no coingecko id for currency", "currency", currency)
			continue
		}
		if !seen[coinID] {
			seen[coinID] = true
			coinIDs = append(coinIDs, coinID)
		}
	}
	if len(coinIDs) == 0 {
		return results, nil
	}

	params := url.Values{}
	params.Set("ids", strings.Join(coinIDs, ","))
	params.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/simple/price?%s", s.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	response, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode == http.StatusTooManyRequests {
		// rate limited: keep whatever the cache gave us
		slog.Warn("coingecko rate limit hit, serving cached prices only")
		return results, nil
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, status.Errorf(codes.Internal, "coingecko responded with status %d", response.StatusCode)
	}

	// json.Number keeps the quote out of binary floats
	var payload map[string]map[string]json.Number
	if err := json.Unmarshal(responseBodyBytes, &payload); err != nil {
		return nil, err
	}

	now := time.Now()
	s.mu.Lock()
	for _, currency := range toFetch {
		coinID, ok := coingeckoIDs[currency]
		if !ok {
			continue
		}
		quote, ok := payload[coinID]["usd"]
		if !ok {
			slog.Warn("coingecko returned no usd quote", "currency", currency, "coin_id", coinID)
			continue
		}
		price, err := decimal.NewFromString(quote.String())
		if err != nil || !price.IsPositive() {
			slog.Warn("unusable coingecko quote", "currency", currency, "quote", quote.String())
			continue
		}
		s.cache[currency] = cachedPrice{price: price, cachedAt: now}
		results[currency] = price
	}
	s.mu.Unlock()

	return results, nil
}
