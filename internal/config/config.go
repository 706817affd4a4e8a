package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HoldConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	HoldDB     `yaml:"hold_db"`
	LogConfig  `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	PriceOracle  `yaml:"price-oracle"`
	HoldPolicy   `yaml:"hold_policy"`
	Migrations   `yaml:"migrations"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type HoldDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"hold-events"`
}

type PriceOracle struct {
	BaseURL  string        `yaml:"base_url" env-default:"https://api.coingecko.com/api/v3"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"5m"`
	Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
}

type HoldPolicy struct {
	// decimal values carried as strings to avoid binary float drift
	FeeRate              string `yaml:"fee_rate" env-default:"0.02"`
	MinFeeUSD            string `yaml:"min_fee_usd" env-default:"0.50"`
	ClaimLimitMultiplier string `yaml:"claim_limit_multiplier" env-default:"1.0"`
	// FeeSinkUserID - служебный "пользователь", на депозиты которого
	// собираются комиссии платформы
	FeeSinkUserID string `yaml:"fee_sink_user_id" env-default:"admin"`
}

type Migrations struct {
	Path string `yaml:"path" env-default:"migrations"`
}

func MustLoad() *HoldConfig {

	// Processing env config variable and file
	configPath := os.Getenv("HOLD_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("HOLD_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg HoldConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
