package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBDriver              string
	DBDSN                 string
	DBMigrate             bool
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	RedisPrefix           string
	CacheTTL              time.Duration
	GRPCPort              int
	GRPCReflectionEnabled bool
	GRPCLoggingEnabled    bool
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// LoadFromEnv loads configuration from environment variables.
// Unparseable numbers and booleans fall back to their defaults.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:                 getEnv("DB_DSN", "file:gwa.db?_foreign_keys=on"),
		DBMigrate:             getBool("DB_MIGRATE", true),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getInt("REDIS_DB", 0),
		RedisPrefix:           getEnv("REDIS_PREFIX", "gwa:"),
		CacheTTL:              getDuration("CACHE_TTL", 10*time.Minute),
		GRPCPort:              getInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		GRPCLoggingEnabled:    getBool("GRPC_LOGGING_ENABLED", true),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
