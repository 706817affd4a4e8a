package repository

import (
	"context"
	"errors"
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/mappers"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultHoldRepository struct {
	DB *gorm.DB
}

func NewDefaultHoldRepository(db *gorm.DB) *DefaultHoldRepository {
	return &DefaultHoldRepository{DB: db}
}

func (r *DefaultHoldRepository) db(ctx context.Context) *gorm.DB {
	return postgres.DBFromContext(ctx, r.DB)
}

func (r *DefaultHoldRepository) InsertHold(ctx context.Context, hold *domain.Hold) error {
	holdModel := mappers.ToGORMHold(hold)
	if err := r.db(ctx).WithContext(ctx).Create(holdModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultHoldRepository) GetHoldByID(ctx context.Context, holdID string) (*domain.Hold, error) {
	var holdModel models.HoldModel
	err := r.db(ctx).WithContext(ctx).First(&holdModel, "id = ?", holdID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHoldNotFound
		}
		return nil, err
	}
	return mappers.ToDomainHold(&holdModel), nil
}

func (r *DefaultHoldRepository) GetHoldsByTicketID(ctx context.Context, ticketID string) ([]*domain.Hold, error) {
	var holdModels []models.HoldModel
	err := r.db(ctx).WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&holdModels).Error
	if err != nil {
		return nil, err
	}

	holds := make([]*domain.Hold, 0, len(holdModels))
	for i := range holdModels {
		holds = append(holds, mappers.ToDomainHold(&holdModels[i]))
	}
	return holds, nil
}

func (r *DefaultHoldRepository) GetActiveHoldsByUserID(ctx context.Context, userID string) ([]*domain.Hold, error) {
	var holdModels []models.HoldModel
	err := r.db(ctx).WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(domain.HoldStatusActive)).
		Order("created_at DESC").
		Find(&holdModels).Error
	if err != nil {
		return nil, err
	}

	holds := make([]*domain.Hold, 0, len(holdModels))
	for i := range holdModels {
		holds = append(holds, mappers.ToDomainHold(&holdModels[i]))
	}
	return holds, nil
}

// MarkTerminal - одностороний переход active -> released/refunded
func (r *DefaultHoldRepository) MarkTerminal(ctx context.Context, holdID string, status domain.HoldStatus) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status": string(status),
	}
	switch status {
	case domain.HoldStatusReleased:
		updates["released_at"] = &now
	case domain.HoldStatusRefunded:
		updates["refunded_at"] = &now
	default:
		return domain.ErrHoldNotActive
	}

	res := r.db(ctx).WithContext(ctx).Model(&models.HoldModel{}).
		Where("id = ? AND status = ?", holdID, string(domain.HoldStatusActive)).
		Updates(updates)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrHoldNotActive
	}
	return nil
}
