package usecase

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"time"

	"github.com/afroo/afroo-hold-service/internal/config"
	"github.com/afroo/afroo-hold-service/internal/domain"
	publisher "github.com/afroo/afroo-hold-service/internal/infrastructure/kafka"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/logger"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

type HoldEventPublisher interface {
	PublishHold(event publisher.HoldEvent) error
}

// HoldPolicy - параметры комиссии и лимитов, распарсенные из конфига
type HoldPolicy struct {
	FeeRate              decimal.Decimal
	MinFeeUSD            decimal.Decimal
	ClaimLimitMultiplier decimal.Decimal
}

func DefaultHoldPolicy() HoldPolicy {
	return HoldPolicy{
		FeeRate:              decimal.RequireFromString("0.02"),
		MinFeeUSD:            decimal.RequireFromString("0.50"),
		ClaimLimitMultiplier: decimal.RequireFromString("1.0"),
	}
}

func PolicyFromConfig(cfg config.HoldPolicy) HoldPolicy {
	policy := DefaultHoldPolicy()

	if feeRate, err := decimal.NewFromString(cfg.FeeRate); err == nil {
		policy.FeeRate = feeRate
	} else {
		log.Printf("invalid fee_rate %q, using default: %v", cfg.FeeRate, err)
	}
	if minFee, err := decimal.NewFromString(cfg.MinFeeUSD); err == nil {
		policy.MinFeeUSD = minFee
	} else {
		log.Printf("invalid min_fee_usd %q, using default: %v", cfg.MinFeeUSD, err)
	}
	if multiplier, err := decimal.NewFromString(cfg.ClaimLimitMultiplier); err == nil {
		policy.ClaimLimitMultiplier = multiplier
	} else {
		log.Printf("invalid claim_limit_multiplier %q, using default: %v", cfg.ClaimLimitMultiplier, err)
	}

	return policy
}

type DefaultHoldUsecase struct {
	DepositRepo domain.DepositRepository
	HoldRepo    domain.HoldRepository
	FeeSink     domain.FeeSink
	Oracle      domain.PriceOracle
	TxManager   domain.TxManager
	Publisher   HoldEventPublisher
	EventLogger logger.HoldEventLogger
	Metrics     *metrics.HoldMetrics
	Policy      HoldPolicy

	gate      *UserGate
	requestID func() string
}

func NewDefaultHoldUsecase(
	depositRepo domain.DepositRepository,
	holdRepo domain.HoldRepository,
	feeSink domain.FeeSink,
	oracle domain.PriceOracle,
	txManager domain.TxManager,
	holdPublisher HoldEventPublisher,
	eventLogger logger.HoldEventLogger,
	holdMetrics *metrics.HoldMetrics,
	policy HoldPolicy,
	gate *UserGate) *DefaultHoldUsecase {

	requestID, err := nanoid.Standard(21)
	if err != nil {
		log.Fatalf("failed to init nanoid generator: %v", err)
	}

	return &DefaultHoldUsecase{
		DepositRepo: depositRepo,
		HoldRepo:    holdRepo,
		FeeSink:     feeSink,
		Oracle:      oracle,
		TxManager:   txManager,
		Publisher:   holdPublisher,
		EventLogger: eventLogger,
		Metrics:     holdMetrics,
		Policy:      policy,
		gate:        gate,
		requestID:   requestID,
	}
}

// serverFeeUSD - комиссия платформы: 2% от тикета, минимум $0.50, но
// никогда не больше самого тикета
func (uc *DefaultHoldUsecase) serverFeeUSD(amountUSD decimal.Decimal) decimal.Decimal {
	fee := amountUSD.Mul(uc.Policy.FeeRate)
	if fee.LessThan(uc.Policy.MinFeeUSD) {
		fee = uc.Policy.MinFeeUSD
	}
	if fee.GreaterThan(amountUSD) {
		fee = amountUSD
	}
	return fee
}

func (uc *DefaultHoldUsecase) GetActiveHolds(ctx context.Context, userID string) ([]*domain.Hold, error) {
	return uc.HoldRepo.GetActiveHoldsByUserID(ctx, userID)
}

func (uc *DefaultHoldUsecase) GetHoldsByTicket(ctx context.Context, ticketID string) ([]*domain.Hold, error) {
	return uc.HoldRepo.GetHoldsByTicketID(ctx, ticketID)
}

func (uc *DefaultHoldUsecase) publishHoldEvent(hold *domain.Hold) {
	event := publisher.HoldEvent{
		HoldID:       hold.ID,
		TicketID:     hold.TicketID,
		UserID:       hold.UserID,
		Currency:     string(hold.Currency),
		AmountUSD:    hold.AmountUSD.String(),
		ServerFeeUSD: hold.ServerFeeUSD.String(),
		Status:       string(hold.Status),
	}
	go func(event publisher.HoldEvent) {
		if err := uc.Publisher.PublishHold(event); err != nil {
			slog.Error("failed to publish kafka HoldEvent", "hold_id", event.HoldID, "error", err.Error())
		}
	}(event)
}

func (uc *DefaultHoldUsecase) logAction(ctx context.Context, userID, action, resourceID string, details map[string]interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		slog.Error("failed to marshal audit details", "action", action, "error", err.Error())
		return
	}
	event := logger.HoldAuditEvent{
		RequestID:    uc.requestID(),
		UserID:       userID,
		Action:       action,
		ResourceType: "hold",
		ResourceID:   resourceID,
		Details:      string(detailsJSON),
		Timestamp:    time.Now(),
	}
	if err := uc.EventLogger.LogHoldEvent(ctx, event); err != nil {
		slog.Error("failed to write audit event", "action", action, "error", err.Error())
	}
}
