package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	MaxConns       int

	// Redis (empty means in-process locking)
	RedisURL string

	// RabbitMQ (empty means in-process event bus)
	RabbitMQURL string

	// Scheduler
	MaxLookaheadDays    int
	MaxDisplacementDays int
}

// Load loads configuration from environment variables. A .env file in the
// working directory is merged in when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("TEMPO_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseDriver: getEnv("TEMPO_DB_DRIVER", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("TEMPO_SQLITE_PATH", ""),
		MaxConns:       getIntEnv("TEMPO_DB_MAX_CONNS", 0),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		MaxLookaheadDays:    getIntEnv("TEMPO_LOOKAHEAD_DAYS", 7),
		MaxDisplacementDays: getIntEnv("TEMPO_DISPLACEMENT_DAYS", 30),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
