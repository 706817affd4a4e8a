package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type HoldStatus string

const (
	HoldStatusActive   HoldStatus = "active"
	HoldStatusReleased HoldStatus = "released"
	HoldStatusRefunded HoldStatus = "refunded"
)

func (s HoldStatus) IsTerminal() bool {
	return s == HoldStatusReleased || s == HoldStatusRefunded
}

// Hold locks a portion of one deposit for one ticket. A ticket covered by
// several currencies has one Hold per currency, so ticket_id -> hold is
// one-to-many.
type Hold struct {
	ID              string
	TicketID        string
	UserID          string
	Currency        Currency
	AmountUSD       decimal.Decimal // ticket-value portion in USD
	CryptoHeld      decimal.Decimal // ticket-value portion in crypto units
	ServerFeeUSD    decimal.Decimal
	ServerFeeCrypto decimal.Decimal
	PriceAtHold     decimal.Decimal // USD per unit at lock time, fixes release math
	Status          HoldStatus
	CreatedAt       time.Time
	ReleasedAt      *time.Time
	RefundedAt      *time.Time
}

// ServerFee records a platform fee forwarded to the fee sink on ticket
// completion.
type ServerFee struct {
	ID           string
	TicketID     string
	ExchangerID  string
	Currency     Currency
	AmountCrypto decimal.Decimal
	AmountUSD    decimal.Decimal
	CollectedAt  time.Time
}
