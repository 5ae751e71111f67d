package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LoggerLevel int    `envconfig:"LOGGER_LEVEL" default:"2"`
	LogDir      string `envconfig:"LOG_DIR" default:"logs"`

	BinanceApiKey    string `envconfig:"BINANCE_TESTNET_API_KEY"`
	BinanceApiSecret string `envconfig:"BINANCE_TESTNET_API_SECRET"`
	BinanceUrl       string `envconfig:"BINANCE_URL" default:"https://testnet.binancefuture.com"`

	NewOrdersTopic   string `envconfig:"NEW_ORDERS_TOPIC" default:"orders.new"`
	ReadyOrdersTopic string `envconfig:"READY_ORDERS_TOPIC" default:"orders.ready"`
	KafkaUrl         string `envconfig:"KAFKA_URL"`

	HttpAddr     string `envconfig:"HTTP_ADDR" default:":8080"`
	ApiJwtSecret string `envconfig:"API_JWT_SECRET"`
}

// Load читает .env (если есть) и переменные окружения.
func Load() (Config, error) {
	// .env не обязателен, переменные могут прийти из окружения.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("чтение конфигурации из переменных окружения: %w", err)
	}
	return cfg, nil
}

// RequireCredentials проверяет, что ключи API заданы.
func (c Config) RequireCredentials() error {
	if c.BinanceApiKey == "" || c.BinanceApiSecret == "" {
		return fmt.Errorf("API credentials not found: set BINANCE_TESTNET_API_KEY and BINANCE_TESTNET_API_SECRET")
	}
	return nil
}
