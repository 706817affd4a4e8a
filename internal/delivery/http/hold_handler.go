package http

import (
	"net/http"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type HoldHandler struct {
	holdUC  domain.HoldUsecase
	claimUC domain.ClaimLimitUsecase
}

func NewHoldHandler(holdUC domain.HoldUsecase, claimUC domain.ClaimLimitUsecase) *HoldHandler {
	return &HoldHandler{holdUC: holdUC, claimUC: claimUC}
}

// CreateHold - POST /v1/holds
func (h *HoldHandler) CreateHold(c *gin.Context) {
	var req createHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amountUSD, err := decimal.NewFromString(req.AmountUSD)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_usd is not a valid decimal"})
		return
	}

	holds, err := h.holdUC.CreateMultiCurrencyHold(c.Request.Context(), req.TicketID, req.ExchangerID, amountUSD)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"holds": toHoldResponses(holds)})
}

// ReleaseHold - POST /v1/holds/:id/release
func (h *HoldHandler) ReleaseHold(c *gin.Context) {
	var req releaseHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hold, err := h.holdUC.ReleaseHold(c.Request.Context(), c.Param("id"), req.DeductFunds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hold": toHoldResponse(hold)})
}

// ReleaseTicketHolds - POST /v1/tickets/:id/holds/release
func (h *HoldHandler) ReleaseTicketHolds(c *gin.Context) {
	var req releaseHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holds, err := h.holdUC.ReleaseAllHoldsForTicket(c.Request.Context(), c.Param("id"), req.DeductFunds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holds": toHoldResponses(holds)})
}

// GetTicketHolds - GET /v1/tickets/:id/holds
func (h *HoldHandler) GetTicketHolds(c *gin.Context) {
	holds, err := h.holdUC.GetHoldsByTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holds": toHoldResponses(holds)})
}

// GetActiveHolds - GET /v1/exchangers/:id/holds
func (h *HoldHandler) GetActiveHolds(c *gin.Context) {
	holds, err := h.holdUC.GetActiveHolds(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holds": toHoldResponses(holds)})
}

// GetClaimLimit - GET /v1/exchangers/:id/claim-limit
func (h *HoldHandler) GetClaimLimit(c *gin.Context) {
	info, err := h.claimUC.GetClaimLimitInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, claimLimitResponse{
		TotalDepositUSD:     info.TotalDepositUSD.String(),
		TotalHeldUSD:        info.TotalHeldUSD.String(),
		TotalFeeReservedUSD: info.TotalFeeReservedUSD.String(),
		ClaimLimitUSD:       info.ClaimLimitUSD.String(),
		AvailableToClaimUSD: info.AvailableToClaimUSD.String(),
		ClaimMultiplier:     info.ClaimMultiplier.String(),
	})
}

// CanClaim - GET /v1/exchangers/:id/can-claim?amount_usd=...
func (h *HoldHandler) CanClaim(c *gin.Context) {
	amountUSD, err := decimal.NewFromString(c.Query("amount_usd"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_usd query param is not a valid decimal"})
		return
	}

	allowed, reason, available, err := h.claimUC.CanClaimTicket(c.Request.Context(), c.Param("id"), amountUSD)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, canClaimResponse{
		Allowed:             allowed,
		Reason:              reason,
		AvailableToClaimUSD: available.String(),
	})
}
