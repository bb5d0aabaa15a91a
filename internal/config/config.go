package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// バックエンドの種類
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort string
	BaseURL    string
	LogLevel   string

	// Session
	SessionMaxAge  int
	SessionBackend string // memory | redis
	RedisURL       string

	// Data
	DataBackend string // memory | postgres
	DatabaseURL string

	// Mock data service
	MockReadDelay     time.Duration
	MockSlowReadDelay time.Duration
	MockWriteDelay    time.Duration

	// Notification
	NotificationTTL time.Duration

	// Pricing
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal

	// Rate Limit
	RateLimitGeneral  int
	RateLimitCheckout int

	// Cleanup
	WorkspaceSweepInterval time.Duration

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合、またはバックエンドの指定が不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	cfg.SessionBackend = strings.ToLower(getEnvString("SESSION_BACKEND", BackendMemory))
	cfg.RedisURL = os.Getenv("REDIS_URL")
	if cfg.SessionBackend == BackendRedis && cfg.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}

	cfg.DataBackend = strings.ToLower(getEnvString("DATA_BACKEND", BackendMemory))
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DataBackend == BackendPostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if cfg.SessionBackend != BackendMemory && cfg.SessionBackend != BackendRedis {
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q: must be %s or %s", cfg.SessionBackend, BackendMemory, BackendRedis)
	}
	if cfg.DataBackend != BackendMemory && cfg.DataBackend != BackendPostgres {
		return nil, fmt.Errorf("invalid DATA_BACKEND %q: must be %s or %s", cfg.DataBackend, BackendMemory, BackendPostgres)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.MockReadDelay = getEnvDuration("MOCK_READ_DELAY", 300*time.Millisecond)
	cfg.MockSlowReadDelay = getEnvDuration("MOCK_SLOW_READ_DELAY", 500*time.Millisecond)
	cfg.MockWriteDelay = getEnvDuration("MOCK_WRITE_DELAY", 800*time.Millisecond)
	cfg.NotificationTTL = getEnvDuration("NOTIFICATION_TTL", 5*time.Second)
	cfg.FreeShippingThreshold = getEnvDecimal("FREE_SHIPPING_THRESHOLD", decimal.NewFromInt(1000))
	cfg.ShippingFee = getEnvDecimal("SHIPPING_FEE", decimal.NewFromInt(50))
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitCheckout = getEnvInt("RATE_LIMIT_CHECKOUT", 10)
	cfg.WorkspaceSweepInterval = getEnvPositiveDuration("WORKSPACE_SWEEP_INTERVAL", 5*time.Minute)
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// 周期に使う値は0以下を受け付けない
func getEnvPositiveDuration(key string, defaultVal time.Duration) time.Duration {
	if d := getEnvDuration(key, defaultVal); d > 0 {
		return d
	}
	return defaultVal
}

// 金額は負数を受け付けない
func getEnvDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return defaultVal
	}
	return d
}
