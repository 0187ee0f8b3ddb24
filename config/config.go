package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Target product page
	ProductURL string

	// Polling configuration
	PollInterval time.Duration

	// Ledger configuration
	LedgerDBPath string

	// Telegram configuration
	TelegramToken  string
	TelegramChatID int64

	// Redis configuration (observation fan-out, optional)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Memcache configuration (rate-limit guard, optional)
	MemcacheAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	pollInterval, _ := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "60"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)

	return &Config{
		ProductURL:           getEnv("PRODUCT_URL", "https://www.mercadolivre.com.br/apple-iphone-16-pro-1-tb-titnio-preto-distribuidor-autorizado/p/MLB1040287851"),
		PollInterval:         time.Duration(pollInterval) * time.Second,
		LedgerDBPath:         getEnv("LEDGER_DB_PATH", "data/prices.db"),
		TelegramToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:       chatID,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "price_observations"),
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		Environment:          getEnv("PRICEWATCH_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable. The Telegram
// credentials are mandatory; the process must not start without them.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is not set or not a valid integer")
	}
	if c.ProductURL == "" {
		return fmt.Errorf("PRODUCT_URL is not set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
