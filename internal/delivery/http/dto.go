package http

import (
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
)

type createHoldRequest struct {
	TicketID    string `json:"ticket_id" binding:"required"`
	ExchangerID string `json:"exchanger_id" binding:"required"`
	AmountUSD   string `json:"amount_usd" binding:"required"`
}

type releaseHoldRequest struct {
	DeductFunds bool `json:"deduct_funds"`
}

type provisionWalletRequest struct {
	Currency string `json:"currency" binding:"required"`
	Address  string `json:"address"`
}

type creditDepositRequest struct {
	Currency string `json:"currency" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	TxHash   string `json:"tx_hash"`
}

type withdrawRequest struct {
	Currency    string `json:"currency" binding:"required"`
	Amount      string `json:"amount"`
	WithdrawMax bool   `json:"withdraw_max"`
	ToAddress   string `json:"to_address" binding:"required"`
}

type holdResponse struct {
	ID              string     `json:"id"`
	TicketID        string     `json:"ticket_id"`
	ExchangerID     string     `json:"exchanger_id"`
	Currency        string     `json:"currency"`
	AmountUSD       string     `json:"amount_usd"`
	CryptoHeld      string     `json:"crypto_held"`
	ServerFeeUSD    string     `json:"server_fee_usd"`
	ServerFeeCrypto string     `json:"server_fee_crypto"`
	PriceAtHold     string     `json:"price_at_hold"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ReleasedAt      *time.Time `json:"released_at,omitempty"`
	RefundedAt      *time.Time `json:"refunded_at,omitempty"`
}

type balanceResponse struct {
	Currency       string `json:"currency"`
	Address        string `json:"address"`
	Balance        string `json:"balance"`
	Held           string `json:"held"`
	FeeReserved    string `json:"fee_reserved"`
	Available      string `json:"available"`
	TotalDeposited string `json:"total_deposited"`
	TotalWithdrawn string `json:"total_withdrawn"`
}

type claimLimitResponse struct {
	TotalDepositUSD     string `json:"total_deposit_usd"`
	TotalHeldUSD        string `json:"total_held_usd"`
	TotalFeeReservedUSD string `json:"total_fee_reserved_usd"`
	ClaimLimitUSD       string `json:"claim_limit_usd"`
	AvailableToClaimUSD string `json:"available_to_claim_usd"`
	ClaimMultiplier     string `json:"claim_multiplier"`
}

type canClaimResponse struct {
	Allowed             bool   `json:"allowed"`
	Reason              string `json:"reason,omitempty"`
	AvailableToClaimUSD string `json:"available_to_claim_usd"`
}

type availabilityResponse struct {
	Currency        string `json:"currency"`
	AvailableCrypto string `json:"available_crypto"`
	AvailableUSD    string `json:"available_usd"`
}

func toHoldResponse(h *domain.Hold) holdResponse {
	return holdResponse{
		ID:              h.ID,
		TicketID:        h.TicketID,
		ExchangerID:     h.UserID,
		Currency:        string(h.Currency),
		AmountUSD:       h.AmountUSD.String(),
		CryptoHeld:      h.CryptoHeld.String(),
		ServerFeeUSD:    h.ServerFeeUSD.String(),
		ServerFeeCrypto: h.ServerFeeCrypto.String(),
		PriceAtHold:     h.PriceAtHold.String(),
		Status:          string(h.Status),
		CreatedAt:       h.CreatedAt,
		ReleasedAt:      h.ReleasedAt,
		RefundedAt:      h.RefundedAt,
	}
}

func toHoldResponses(holds []*domain.Hold) []holdResponse {
	out := make([]holdResponse, 0, len(holds))
	for _, h := range holds {
		out = append(out, toHoldResponse(h))
	}
	return out
}

func toBalanceResponse(b *domain.DepositBalance) balanceResponse {
	return balanceResponse{
		Currency:       string(b.Currency),
		Address:        b.Address,
		Balance:        b.Balance.String(),
		Held:           b.Held.String(),
		FeeReserved:    b.FeeReserved.String(),
		Available:      b.Available.String(),
		TotalDeposited: b.TotalDeposited.String(),
		TotalWithdrawn: b.TotalWithdrawn.String(),
	}
}
