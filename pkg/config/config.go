package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for wardenctl and for services that
// embed the warden client. It supports environment-based initialization, with
// sensible defaults.
type Config struct {
	ServiceName string // e.g. "wardenctl"
	Env         string // e.g. "dev", "prod"
	LogLevel    string // "debug", "info", etc.

	BaseURL string        // warden backend endpoint, e.g. http://localhost:8000
	Timeout time.Duration // per-request deadline for API calls

	// Token storage. TokenDir is where the file-backed session store keeps
	// its entries; empty means "resolve under the user's home directory".
	// TokenTTL must stay below the backend's 30m token lifetime so a cached
	// token is never replayed after the server has expired it.
	TokenDir string
	TokenTTL time.Duration

	// Redis-backed token store. Empty RedisAddr disables it and wardenctl
	// falls back to the file store.
	RedisAddr string
	RedisDB   int
	RedisPass string

	// Credentials are resolved from AWS Secrets Manager for --account flows.
	// See internal/secrets/resolver.go for the naming convention.
	AWSRegion   string
	CacheTTL    time.Duration // TTL for the resolved-credentials cache
	CleanupFreq time.Duration // frequency for cache cleanup goroutine
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: GetEnv("SERVICE_NAME", "wardenctl"),
		Env:         GetEnv("ENV", "dev"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		BaseURL:     GetEnv("WARDEN_BASE_URL", "http://localhost:8000"),
		Timeout:     GetEnvDuration("WARDEN_TIMEOUT", 10*time.Second),
		TokenDir:    GetEnv("WARDEN_TOKEN_DIR", ""),
		TokenTTL:    GetEnvDuration("WARDEN_TOKEN_TTL", 25*time.Minute),
		RedisAddr:   GetEnv("REDIS_ADDR", ""),
		RedisDB:     GetEnvInt("REDIS_DB", 0),
		RedisPass:   GetEnv("REDIS_PASS", ""),
		AWSRegion:   GetEnv("AWS_REGION", "us-east-2"),
		CacheTTL:    GetEnvDuration("CACHE_TTL", 24*time.Hour),
		CleanupFreq: GetEnvDuration("CACHE_CLEANUP_FREQ", 10*time.Minute),
	}

	return cfg
}
