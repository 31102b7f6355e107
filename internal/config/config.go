// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, the complaint warehouse, session handling, and LLM providers.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Complaint Warehouse (ClickHouse)
	ClickHouseAddr     string // host:port
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ComplaintTable     string
	QueryTimeout       time.Duration
	QueryMaxRetries    int

	// Session Configuration
	DataDir        string        // Directory for the SQLite session store
	SessionTTL     time.Duration // Max session age before expiry (default: 1h)
	SessionSweep   time.Duration // Interval for the expiry sweeper (default: 5m)
	SessionBackend string        // "sqlite" or "memory"

	// SmartCare Upstream API
	SmartCareTokenURL  string
	SmartCareQueryURL  string
	SmartCareAppKey    string
	SmartCareAppSecret string
	SmartCareTimeout   time.Duration
	SmartCareCacheTTL  time.Duration // Upstream response cache TTL (default: 10m)

	// Redis (optional, SmartCare response cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// LLM Configuration
	GeminiAPIKey string // Gemini API key for classification and narrative assist
	GroqAPIKey   string // Groq API key (OpenAI-compatible alternative provider)

	// LLM Model Configuration (optional, defaults apply if empty)
	GeminiModel        string // Primary Gemini model
	GroqModel          string // Primary Groq model
	LLMPrimaryProvider string // "gemini" or "groq" (default: "gemini")
	LLMTimeout         time.Duration

	// Knowledge Base
	KnowledgeSimilarityFloor float64 // Minimum normalized BM25 score (default: 0.7)

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Better Stack log shipping
	BetterStackToken    string
	BetterStackEndpoint string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv("PORT", "8000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSOrigins:     splitEnv("CORS_ORIGINS", "*"),

		// Complaint Warehouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ComplaintTable:     getEnv("COMPLAINT_TABLE", "inap_ticketing_customer_complain"),
		QueryTimeout:       getDurationEnv("QUERY_TIMEOUT", WarehouseQuery),
		QueryMaxRetries:    getIntEnv("QUERY_MAX_RETRIES", 3),

		// Session Configuration
		DataDir:        getEnv("DATA_DIR", getDefaultDataDir()),
		SessionTTL:     getDurationEnv("SESSION_TTL", time.Hour),
		SessionSweep:   getDurationEnv("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		SessionBackend: getEnv("SESSION_BACKEND", "sqlite"),

		// SmartCare Upstream API
		SmartCareTokenURL:  getEnv("SMARTCARE_TOKEN_URL", ""),
		SmartCareQueryURL:  getEnv("SMARTCARE_QUERY_URL", ""),
		SmartCareAppKey:    getEnv("SMARTCARE_APP_KEY", ""),
		SmartCareAppSecret: getEnv("SMARTCARE_APP_SECRET", ""),
		SmartCareTimeout:   getDurationEnv("SMARTCARE_TIMEOUT", UpstreamQuery),
		SmartCareCacheTTL:  getDurationEnv("SMARTCARE_CACHE_TTL", 10*time.Minute),

		// Redis (optional)
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		// LLM Configuration
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", ""),
		GroqModel:          getEnv("GROQ_MODEL", ""),
		LLMPrimaryProvider: getEnv("LLM_PRIMARY_PROVIDER", "gemini"),
		LLMTimeout:         getDurationEnv("LLM_TIMEOUT", LLMRequest),

		// Knowledge Base
		KnowledgeSimilarityFloor: getFloatEnv("KNOWLEDGE_SIMILARITY_FLOOR", 0.7),

		// Metrics Authentication
		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),

		// Better Stack
		BetterStackToken:    getEnv("BETTERSTACK_TOKEN", ""),
		BetterStackEndpoint: getEnv("BETTERSTACK_ENDPOINT", ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.ClickHouseAddr == "" {
		errs = append(errs, errors.New("CLICKHOUSE_ADDR is required"))
	}
	if c.ComplaintTable == "" {
		errs = append(errs, errors.New("COMPLAINT_TABLE is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.SessionBackend != "sqlite" && c.SessionBackend != "memory" {
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be sqlite or memory, got %q", c.SessionBackend))
	}
	if c.QueryMaxRetries < 0 {
		errs = append(errs, errors.New("QUERY_MAX_RETRIES must not be negative"))
	}
	if c.KnowledgeSimilarityFloor < 0 || c.KnowledgeSimilarityFloor > 1 {
		errs = append(errs, errors.New("KNOWLEDGE_SIMILARITY_FLOOR must be in [0,1]"))
	}
	// SmartCare credentials come as a pair
	if (c.SmartCareAppKey == "") != (c.SmartCareAppSecret == "") {
		errs = append(errs, errors.New("SMARTCARE_APP_KEY and SMARTCARE_APP_SECRET must be set together"))
	}

	return errors.Join(errs...)
}

// SQLitePath returns the full path to the session database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "sessions.db")
}

// SmartCareEnabled reports whether the upstream API is configured.
func (c *Config) SmartCareEnabled() bool {
	return c.SmartCareAppKey != "" && c.SmartCareTokenURL != "" && c.SmartCareQueryURL != ""
}

// LLMEnabled reports whether at least one LLM provider is configured.
func (c *Config) LLMEnabled() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != ""
}

func getDefaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "keluhan-bot")
	}
	return "data"
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv returns the environment variable as int or a default
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getFloatEnv returns the environment variable as float64 or a default
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv returns the environment variable as duration or a default.
// Accepts Go duration syntax ("90s") or bare seconds ("90").
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// splitEnv returns the environment variable split on commas, or the default
// as a single-element slice.
func splitEnv(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
