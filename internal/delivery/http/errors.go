package http

import (
	"errors"
	"net/http"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP statuses. Insufficient balance
// carries the per-currency availability so the caller can show the user
// exactly what is missing.
func respondError(c *gin.Context, err error) {
	var insufficient *domain.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		perCurrency := make([]availabilityResponse, 0, len(insufficient.PerCurrency))
		for _, a := range insufficient.PerCurrency {
			perCurrency = append(perCurrency, availabilityResponse{
				Currency:        string(a.Currency),
				AvailableCrypto: a.AvailableCrypto.String(),
				AvailableUSD:    a.AvailableUSD.String(),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          insufficient.Error(),
			"needed_usd":     insufficient.NeededUSD.String(),
			"server_fee_usd": insufficient.ServerFeeUSD.String(),
			"available_usd":  insufficient.AvailableUSD.String(),
			"shortfall_usd":  insufficient.ShortfallUSD().String(),
			"per_currency":   perCurrency,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDepositNotFound),
		errors.Is(err, domain.ErrHoldNotFound),
		errors.Is(err, domain.ErrNoHoldsForTicket):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrHoldNotActive),
		errors.Is(err, domain.ErrConcurrencyConflict),
		errors.Is(err, domain.ErrDepositDeactivated):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrCurrencyNotSupported):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrWithdrawUnavailable),
		errors.Is(err, domain.ErrClaimLimitExceeded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPriceUnavailable):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
