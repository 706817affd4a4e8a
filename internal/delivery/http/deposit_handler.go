package http

import (
	"net/http"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DepositHandler struct {
	depositUC domain.DepositUsecase
}

func NewDepositHandler(depositUC domain.DepositUsecase) *DepositHandler {
	return &DepositHandler{depositUC: depositUC}
}

// ProvisionWallet - POST /v1/exchangers/:id/deposits
func (h *DepositHandler) ProvisionWallet(c *gin.Context) {
	var req provisionWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deposit, err := h.depositUC.ProvisionDepositWallet(
		c.Request.Context(), c.Param("id"), domain.Currency(req.Currency), req.Address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"currency": string(deposit.Currency),
		"address":  deposit.Address,
	})
}

// CreditDeposit - POST /v1/exchangers/:id/deposits/credit
func (h *DepositHandler) CreditDeposit(c *gin.Context) {
	var req creditDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is not a valid decimal"})
		return
	}

	deposit, err := h.depositUC.CreditDeposit(
		c.Request.Context(), c.Param("id"), domain.Currency(req.Currency), amount, req.TxHash)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currency": string(deposit.Currency),
		"balance":  deposit.Balance.String(),
	})
}

// GetBalance - GET /v1/exchangers/:id/deposits/:currency
func (h *DepositHandler) GetBalance(c *gin.Context) {
	balance, err := h.depositUC.GetBalance(
		c.Request.Context(), c.Param("id"), domain.Currency(c.Param("currency")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBalanceResponse(balance))
}

// ListBalances - GET /v1/exchangers/:id/deposits
func (h *DepositHandler) ListBalances(c *gin.Context) {
	balances, err := h.depositUC.ListBalances(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"balances": out})
}

// Withdraw - POST /v1/exchangers/:id/withdrawals
func (h *DepositHandler) Withdraw(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount := decimal.Zero
	if !req.WithdrawMax {
		var err error
		amount, err = decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount is not a valid decimal"})
			return
		}
	}

	withdrawn, err := h.depositUC.WithdrawAvailable(
		c.Request.Context(), c.Param("id"), domain.Currency(req.Currency),
		amount, req.WithdrawMax, req.ToAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currency":  req.Currency,
		"withdrawn": withdrawn.String(),
	})
}
