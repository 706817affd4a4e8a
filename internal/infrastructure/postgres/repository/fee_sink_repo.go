package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/mappers"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PGFeeSink credits collected server fees to the platform's own deposit row
// (an internal transfer, not an on-chain transaction) and records the
// collection in server_fees.
type PGFeeSink struct {
	DB            *gorm.DB
	FeeSinkUserID string
}

func NewPGFeeSink(db *gorm.DB, feeSinkUserID string) *PGFeeSink {
	return &PGFeeSink{DB: db, FeeSinkUserID: feeSinkUserID}
}

func (s *PGFeeSink) db(ctx context.Context) *gorm.DB {
	return postgres.DBFromContext(ctx, s.DB)
}

func (s *PGFeeSink) Credit(ctx context.Context, fee *domain.ServerFee) error {
	db := s.db(ctx)

	// Ensure the platform deposit row exists for this currency
	var sinkModel models.DepositModel
	err := db.WithContext(ctx).
		First(&sinkModel, "user_id = ? AND currency = ?", s.FeeSinkUserID, string(fee.Currency)).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		now := time.Now()
		sinkModel = models.DepositModel{
			ID:        uuid.NewString(),
			UserID:    s.FeeSinkUserID,
			Currency:  string(fee.Currency),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.WithContext(ctx).Create(&sinkModel).Error; err != nil {
			return err
		}
		slog.Info("created platform fee-sink deposit row",
			"currency", fee.Currency,
			"fee_sink_user_id", s.FeeSinkUserID,
		)
	}

	res := db.WithContext(ctx).Model(&models.DepositModel{}).
		Where("user_id = ? AND currency = ?", s.FeeSinkUserID, string(fee.Currency)).
		Updates(map[string]interface{}{
			"balance":         gorm.Expr("balance + ?", fee.AmountCrypto),
			"total_deposited": gorm.Expr("total_deposited + ?", fee.AmountCrypto),
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}

	feeModel := mappers.ToGORMServerFee(fee)
	if err := db.WithContext(ctx).Create(feeModel).Error; err != nil {
		return err
	}

	return nil
}
