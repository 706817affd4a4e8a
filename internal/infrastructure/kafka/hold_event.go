package kafka

type HoldEvent struct {
	HoldID       string `json:"hold_id"`
	TicketID     string `json:"ticket_id"`
	UserID       string `json:"user_id"`
	Currency     string `json:"currency"`
	AmountUSD    string `json:"amount_usd"`
	ServerFeeUSD string `json:"server_fee_usd"`
	Status       string `json:"status"`
}
