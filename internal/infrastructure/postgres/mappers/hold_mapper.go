package mappers

import (
	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/models"
)

func ToDomainHold(model *models.HoldModel) *domain.Hold {
	return &domain.Hold{
		ID:              model.ID,
		TicketID:        model.TicketID,
		UserID:          model.UserID,
		Currency:        domain.Currency(model.Currency),
		AmountUSD:       model.AmountUSD,
		CryptoHeld:      model.CryptoHeld,
		ServerFeeUSD:    model.ServerFeeUSD,
		ServerFeeCrypto: model.ServerFeeCrypto,
		PriceAtHold:     model.PriceAtHold,
		Status:          domain.HoldStatus(model.Status),
		CreatedAt:       model.CreatedAt,
		ReleasedAt:      model.ReleasedAt,
		RefundedAt:      model.RefundedAt,
	}
}

func ToGORMHold(hold *domain.Hold) *models.HoldModel {
	return &models.HoldModel{
		ID:              hold.ID,
		TicketID:        hold.TicketID,
		UserID:          hold.UserID,
		Currency:        string(hold.Currency),
		AmountUSD:       hold.AmountUSD,
		CryptoHeld:      hold.CryptoHeld,
		ServerFeeUSD:    hold.ServerFeeUSD,
		ServerFeeCrypto: hold.ServerFeeCrypto,
		PriceAtHold:     hold.PriceAtHold,
		Status:          string(hold.Status),
		CreatedAt:       hold.CreatedAt,
		ReleasedAt:      hold.ReleasedAt,
		RefundedAt:      hold.RefundedAt,
	}
}

func ToGORMServerFee(fee *domain.ServerFee) *models.ServerFeeModel {
	return &models.ServerFeeModel{
		ID:           fee.ID,
		TicketID:     fee.TicketID,
		ExchangerID:  fee.ExchangerID,
		Currency:     string(fee.Currency),
		AmountCrypto: fee.AmountCrypto,
		AmountUSD:    fee.AmountUSD,
		CollectedAt:  fee.CollectedAt,
		CreatedAt:    fee.CollectedAt,
	}
}
