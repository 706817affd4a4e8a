package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/afroo/afroo-hold-service/internal/config"
	httpdelivery "github.com/afroo/afroo-hold-service/internal/delivery/http"
	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/coingecko"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/kafka"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/logger"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/metrics"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/migrate"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres"
	"github.com/afroo/afroo-hold-service/internal/infrastructure/postgres/repository"
	"github.com/afroo/afroo-hold-service/internal/usecase"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if err := migrate.RunMigrations(db, cfg.Migrations.Path); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	holdPublisher := kafka.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)

	// Init price oracle
	priceService := coingecko.NewPriceService(
		cfg.PriceOracle.BaseURL,
		cfg.PriceOracle.Timeout,
		cfg.PriceOracle.CacheTTL,
	)

	// Init repos
	depositRepo := repository.NewDefaultDepositRepository(db)
	holdRepo := repository.NewDefaultHoldRepository(db)
	feeSink := repository.NewPGFeeSink(db, cfg.HoldPolicy.FeeSinkUserID)
	txManager := postgres.NewGormTxManager(db)
	eventLogger := logger.NewPGHoldEventLogger(db)

	holdMetrics := metrics.NewHoldMetrics()
	policy := usecase.PolicyFromConfig(cfg.HoldPolicy)
	gate := usecase.NewUserGate()

	// Init usecases
	holdUsecase := usecase.NewDefaultHoldUsecase(
		depositRepo,
		holdRepo,
		feeSink,
		priceService,
		txManager,
		holdPublisher,
		eventLogger,
		holdMetrics,
		policy,
		gate,
	)
	claimLimitUsecase := usecase.NewDefaultClaimLimitUsecase(depositRepo, priceService, policy)
	depositUsecase := usecase.NewDefaultDepositUsecase(depositRepo, eventLogger, gate)

	// HTTP API
	holdHandler := httpdelivery.NewHoldHandler(holdUsecase, claimLimitUsecase)
	depositHandler := httpdelivery.NewDepositHandler(depositUsecase)
	router := httpdelivery.NewRouter(holdHandler, depositHandler)

	// Прогрев кэша цен, чтобы первая аллокация не ждала CoinGecko
	go func() {
		ticker := time.NewTicker(cfg.PriceOracle.CacheTTL)
		for {
			prices, err := priceService.GetPricesUSD(context.Background(), domain.SupportedCurrencies)
			if err != nil {
				slog.Error("price cache refresh failed", "error", err.Error())
			} else {
				slog.Info("price cache refreshed", "currencies", len(prices))
			}
			<-ticker.C
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("hold-service HTTP server started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
