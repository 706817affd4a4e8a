package repository

import (
	"context"
	"errors"
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/mappers"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DefaultDepositRepository struct {
	DB *gorm.DB
}

func NewDefaultDepositRepository(db *gorm.DB) *DefaultDepositRepository {
	return &DefaultDepositRepository{DB: db}
}

func (r *DefaultDepositRepository) db(ctx context.Context) *gorm.DB {
	return postgres.DBFromContext(ctx, r.DB)
}

func (r *DefaultDepositRepository) CreateDeposit(ctx context.Context, deposit *domain.Deposit) error {
	depositModel := mappers.ToGORMDeposit(deposit)
	if err := r.db(ctx).WithContext(ctx).Create(depositModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultDepositRepository) GetDeposit(ctx context.Context, userID string, currency domain.Currency) (*domain.Deposit, error) {
	var depositModel models.DepositModel
	err := r.db(ctx).WithContext(ctx).
		First(&depositModel, "user_id = ? AND currency = ?", userID, string(currency)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepositNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDeposit(&depositModel), nil
}

func (r *DefaultDepositRepository) ListDeposits(ctx context.Context, userID string) ([]*domain.Deposit, error) {
	var depositModels []models.DepositModel
	// сортировка по валюте для детерминированного вывода
	err := r.db(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("currency ASC").
		Find(&depositModels).Error
	if err != nil {
		return nil, err
	}

	deposits := make([]*domain.Deposit, 0, len(depositModels))
	for i := range depositModels {
		deposits = append(deposits, mappers.ToDomainDeposit(&depositModels[i]))
	}
	return deposits, nil
}

// UpdateBalances - оптимистичная блокировка: строка должна совпасть с
// прочитанным ранее снимком, иначе ErrConcurrencyConflict
func (r *DefaultDepositRepository) UpdateBalances(ctx context.Context, userID string, currency domain.Currency, expected, updated domain.BalanceSnapshot) error {
	res := r.db(ctx).WithContext(ctx).Model(&models.DepositModel{}).
		Where("user_id = ? AND currency = ? AND balance = ? AND held = ? AND fee_reserved = ?",
			userID, string(currency), expected.Balance, expected.Held, expected.FeeReserved).
		Updates(map[string]interface{}{
			"balance":      updated.Balance,
			"held":         updated.Held,
			"fee_reserved": updated.FeeReserved,
			"updated_at":   time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

func (r *DefaultDepositRepository) CreditBalance(ctx context.Context, userID string, currency domain.Currency, amount decimal.Decimal) error {
	res := r.db(ctx).WithContext(ctx).Model(&models.DepositModel{}).
		Where("user_id = ? AND currency = ?", userID, string(currency)).
		Updates(map[string]interface{}{
			"balance":         gorm.Expr("balance + ?", amount),
			"total_deposited": gorm.Expr("total_deposited + ?", amount),
			"updated_at":      time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDepositNotFound
	}
	return nil
}

func (r *DefaultDepositRepository) DebitWithdrawal(ctx context.Context, userID string, currency domain.Currency, expected domain.BalanceSnapshot, amount decimal.Decimal) error {
	res := r.db(ctx).WithContext(ctx).Model(&models.DepositModel{}).
		Where("user_id = ? AND currency = ? AND balance = ? AND held = ? AND fee_reserved = ?",
			userID, string(currency), expected.Balance, expected.Held, expected.FeeReserved).
		Updates(map[string]interface{}{
			"balance":         gorm.Expr("balance - ?", amount),
			"total_withdrawn": gorm.Expr("total_withdrawn + ?", amount),
			"updated_at":      time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}
