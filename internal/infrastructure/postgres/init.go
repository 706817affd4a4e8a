package postgres

import (
	"log"

	"github.com/afroo/afroo-hold-service/internal/config"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/logger"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.HoldConfig) *gorm.DB {
	dsn := cfg.HoldDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.DepositModel{}, &models.HoldModel{}, &models.ServerFeeModel{}, &logger.HoldAuditEvent{})

	return db
}
