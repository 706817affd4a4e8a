package mappers

import (
	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/models"
)

func ToDomainDeposit(model *models.DepositModel) *domain.Deposit {
	return &domain.Deposit{
		ID:             model.ID,
		UserID:         model.UserID,
		Currency:       domain.Currency(model.Currency),
		Address:        model.Address,
		Balance:        model.Balance,
		Held:           model.Held,
		FeeReserved:    model.FeeReserved,
		TotalDeposited: model.TotalDeposited,
		TotalWithdrawn: model.TotalWithdrawn,
		Deactivated:    model.Deactivated,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMDeposit(deposit *domain.Deposit) *models.DepositModel {
	return &models.DepositModel{
		ID:             deposit.ID,
		UserID:         deposit.UserID,
		Currency:       string(deposit.Currency),
		Address:        deposit.Address,
		Balance:        deposit.Balance,
		Held:           deposit.Held,
		FeeReserved:    deposit.FeeReserved,
		TotalDeposited: deposit.TotalDeposited,
		TotalWithdrawn: deposit.TotalWithdrawn,
		Deactivated:    deposit.Deactivated,
		CreatedAt:      deposit.CreatedAt,
		UpdatedAt:      deposit.UpdatedAt,
	}
}
