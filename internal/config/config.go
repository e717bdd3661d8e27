/**
 * @description
 * Configuration loader for the Skin Ledger backend.
 * Responsible for reading environment variables, setting defaults, and performing strict validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 *
 * @notes
 * - Fails fast if critical variables (DATABASE_URL, JWT_SECRET) are missing.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Steam   SteamConfig
	Refresh RefreshConfig
	Auth    AuthConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development" or "production"
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// SteamConfig holds Steam Community Market client settings
type SteamConfig struct {
	// BaseURL is the full price-overview endpoint URL
	BaseURL string
	// AppID identifies the game whose items are tracked (730 = CS2)
	AppID int
	// CurrencyCode is Steam's numeric currency id (2 = GBP)
	CurrencyCode int
	// CurrencyName is the ISO name matching CurrencyCode
	CurrencyName string
	// RequestTimeout bounds a single outbound price lookup
	RequestTimeout time.Duration
	// MinInterval is the minimum spacing between consecutive outbound calls
	MinInterval time.Duration
	// RateLimitCooldown is the extra pause applied after Steam answers 429
	RateLimitCooldown time.Duration
}

// RefreshConfig holds background price refresh settings
type RefreshConfig struct {
	// Interval between scheduled full refreshes
	Interval time.Duration
	// BatchLimit caps how many investments one scheduled batch covers
	BatchLimit int
	// HistoryRetentionDays prunes observations older than this after each
	// scheduled batch. Zero keeps the full history.
	HistoryRetentionDays int
}

// AuthConfig holds token signing settings
type AuthConfig struct {
	JWTSecret string
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (prod might inject env vars directly)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Steam: SteamConfig{
			BaseURL:           getEnv("STEAM_MARKET_URL", "https://steamcommunity.com/market/priceoverview/"),
			AppID:             getEnvAsInt("STEAM_APP_ID", 730),
			CurrencyCode:      getEnvAsInt("STEAM_CURRENCY", 2),
			CurrencyName:      getEnv("STEAM_CURRENCY_NAME", "GBP"),
			RequestTimeout:    getEnvAsDuration("STEAM_REQUEST_TIMEOUT", 15*time.Second),
			MinInterval:       getEnvAsDuration("STEAM_MIN_INTERVAL", 3*time.Second),
			RateLimitCooldown: getEnvAsDuration("STEAM_RATE_LIMIT_COOLDOWN", 10*time.Second),
		},
		Refresh: RefreshConfig{
			Interval:             getEnvAsDuration("REFRESH_INTERVAL", time.Hour),
			BatchLimit:           getEnvAsInt("REFRESH_BATCH_LIMIT", 100),
			HistoryRetentionDays: getEnvAsInt("HISTORY_RETENTION_DAYS", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" && cfg.Server.Env != "test" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Steam.MinInterval <= 0 {
		return fmt.Errorf("STEAM_MIN_INTERVAL must be positive")
	}
	if cfg.Refresh.Interval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper to get env var as int
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// Helper to get env var as duration ("90s", "1h", ...)
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}
