package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHoldUsecase struct {
	createErr  error
	releaseErr error
	holds      []*domain.Hold
}

func (s *stubHoldUsecase) CreateMultiCurrencyHold(_ context.Context, ticketID, userID string, amountUSD decimal.Decimal) ([]*domain.Hold, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.holds, nil
}

func (s *stubHoldUsecase) ReleaseHold(_ context.Context, holdID string, deductFunds bool) (*domain.Hold, error) {
	if s.releaseErr != nil {
		return nil, s.releaseErr
	}
	return s.holds[0], nil
}

func (s *stubHoldUsecase) ReleaseAllHoldsForTicket(_ context.Context, ticketID string, deductFunds bool) ([]*domain.Hold, error) {
	if s.releaseErr != nil {
		return nil, s.releaseErr
	}
	return s.holds, nil
}

func (s *stubHoldUsecase) GetActiveHolds(_ context.Context, userID string) ([]*domain.Hold, error) {
	return s.holds, nil
}

func (s *stubHoldUsecase) GetHoldsByTicket(_ context.Context, ticketID string) ([]*domain.Hold, error) {
	return s.holds, nil
}

type stubClaimUsecase struct{}

func (stubClaimUsecase) GetClaimLimitInfo(_ context.Context, userID string) (*domain.ClaimLimitInfo, error) {
	return &domain.ClaimLimitInfo{
		TotalDepositUSD:     decimal.RequireFromString("1000"),
		ClaimLimitUSD:       decimal.RequireFromString("1000"),
		AvailableToClaimUSD: decimal.RequireFromString("800"),
		ClaimMultiplier:     decimal.RequireFromString("1.0"),
	}, nil
}

func (stubClaimUsecase) CanClaimTicket(_ context.Context, userID string, amountUSD decimal.Decimal) (bool, string, decimal.Decimal, error) {
	limit := decimal.RequireFromString("800")
	if amountUSD.GreaterThan(limit) {
		return false, "over limit", limit, nil
	}
	return true, "", limit, nil
}

func newTestRouter(holdUC domain.HoldUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHoldHandler(holdUC, stubClaimUsecase{})
	router.POST("/v1/holds", handler.CreateHold)
	router.POST("/v1/holds/:id/release", handler.ReleaseHold)
	router.GET("/v1/exchangers/:id/can-claim", handler.CanClaim)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateHold_Created(t *testing.T) {
	router := newTestRouter(&stubHoldUsecase{holds: []*domain.Hold{{
		ID:       "hold-1",
		TicketID: "ticket-1",
		UserID:   "exch-1",
		Currency: domain.CurrencyBTC,
		Status:   domain.HoldStatusActive,
	}}})

	w := doRequest(router, http.MethodPost, "/v1/holds",
		`{"ticket_id":"ticket-1","exchanger_id":"exch-1","amount_usd":"900"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Holds []holdResponse `json:"holds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Holds, 1)
	assert.Equal(t, "BTC", resp.Holds[0].Currency)
}

func TestCreateHold_BadRequest(t *testing.T) {
	router := newTestRouter(&stubHoldUsecase{})

	w := doRequest(router, http.MethodPost, "/v1/holds", `{"ticket_id":"ticket-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/v1/holds",
		`{"ticket_id":"t","exchanger_id":"e","amount_usd":"not-a-number"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateHold_InsufficientCarriesBreakdown(t *testing.T) {
	router := newTestRouter(&stubHoldUsecase{createErr: &domain.InsufficientBalanceError{
		NeededUSD:    decimal.RequireFromString("900"),
		ServerFeeUSD: decimal.RequireFromString("18"),
		AvailableUSD: decimal.RequireFromString("100"),
		PerCurrency: []domain.CurrencyAvailability{{
			Currency:        domain.CurrencyBTC,
			AvailableCrypto: decimal.RequireFromString("0.001"),
			AvailableUSD:    decimal.RequireFromString("100"),
		}},
	}})

	w := doRequest(router, http.MethodPost, "/v1/holds",
		`{"ticket_id":"ticket-1","exchanger_id":"exch-1","amount_usd":"900"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "per_currency")
	assert.Contains(t, resp, "shortfall_usd")
}

func TestReleaseHold_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", domain.ErrHoldNotFound, http.StatusNotFound},
		{"already terminal", domain.ErrHoldNotActive, http.StatusConflict},
		{"ledger conflict", domain.ErrConcurrencyConflict, http.StatusConflict},
		{"price down", domain.ErrPriceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubHoldUsecase{releaseErr: tt.err})
			w := doRequest(router, http.MethodPost, "/v1/holds/hold-1/release", `{"deduct_funds":true}`)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestCanClaim(t *testing.T) {
	router := newTestRouter(&stubHoldUsecase{})

	w := doRequest(router, http.MethodGet, "/v1/exchangers/exch-1/can-claim?amount_usd=500", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp canClaimResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Allowed)

	w = doRequest(router, http.MethodGet, "/v1/exchangers/exch-1/can-claim?amount_usd=5000", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
	assert.Equal(t, "over limit", resp.Reason)

	w = doRequest(router, http.MethodGet, "/v1/exchangers/exch-1/can-claim?amount_usd=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
