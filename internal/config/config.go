package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string // empty: in-memory storage
	RedisAddr   string // empty: transaction events disabled

	LockWait       time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		LockWait:       time.Duration(getEnvInt("LOCK_WAIT_MS", 5000)) * time.Millisecond,
		RateLimitRPS:   float64(getEnvInt("RATE_LIMIT_RPS", 100)),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 200),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
