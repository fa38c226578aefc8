package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	AlpacaKeyID   string `env:"ALPACA_API_KEY"`
	AlpacaSecret  string `env:"ALPACA_API_SECRET"`
	AlpacaBaseURL string `env:"ALPACA_BASE_URL" envDefault:"https://paper-api.alpaca.markets"`
	AlpacaDataURL string `env:"ALPACA_DATA_URL" envDefault:"https://data.alpaca.markets"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
}

// Load initializes configuration from environment variables.
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config
	cfg.AlpacaKeyID = os.Getenv("ALPACA_API_KEY")
	cfg.AlpacaSecret = os.Getenv("ALPACA_API_SECRET")
	cfg.AlpacaBaseURL = getEnvWithDefault("ALPACA_BASE_URL", "https://paper-api.alpaca.markets")
	cfg.AlpacaDataURL = getEnvWithDefault("ALPACA_DATA_URL", "https://data.alpaca.markets")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)

	return &cfg, nil
}

func getEnvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntWithDefault(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer in environment, using default")
	}
	return fallback
}
