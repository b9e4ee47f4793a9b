package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string
	AutoMigrate  bool // run pending migrations at startup

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Engine
	ChainMode string // "preactivated" or "gated"

	// Events (optional: log-only when REDIS_URL is empty)
	RedisURL      string
	EventsChannel string

	// Rate limiting for mutating endpoints, per user
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Observability (optional)
	SentryDSN string

	// Catalog storage (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	CatalogS3Region    string
	CatalogS3Bucket    string
	CatalogS3AccessKey string
	CatalogS3SecretKey string
	CatalogS3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "taskengine"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/taskengine.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		AutoMigrate:  envBool("AUTO_MIGRATE", true),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Engine
		ChainMode: envChoice("CHAIN_MODE", "preactivated", "preactivated", "gated"),

		// Events
		RedisURL:      envString("REDIS_URL", ""),
		EventsChannel: envString("EVENTS_CHANNEL", "taskengine.events"),

		// Rate limiting
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   envDuration("RATE_LIMIT_WINDOW", time.Minute),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Catalog storage
		CatalogS3Region:    envString("CATALOG_S3_REGION", "us-east-1"),
		CatalogS3Bucket:    envString("CATALOG_S3_BUCKET", ""),
		CatalogS3AccessKey: envString("CATALOG_S3_ACCESS_KEY", ""),
		CatalogS3SecretKey: envString("CATALOG_S3_SECRET_KEY", ""),
		CatalogS3Endpoint:  envString("CATALOG_S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures production deployments do not silently drop events.
func validateProduction(cfg *Config) {
	if cfg.RedisURL == "" {
		slog.Error("production deployment requires REDIS_URL",
			"hint", "set APP_ENV=development to log events instead of publishing them")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envChoice returns the value of key if it is one of allowed, otherwise def.
func envChoice(key, def string, allowed ...string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	slog.Warn("config invalid value, using default", "key", key, "value", v, "allowed", allowed, "default", def)
	return def
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CatalogStorageEnabled reports whether catalog documents can be fetched from S3.
func (c *Config) CatalogStorageEnabled() bool {
	return c.CatalogS3Bucket != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets and credentials are excluded. Safe to log at startup.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:           c.AppName,
		AppEnv:            c.AppEnv,
		Port:              c.Port,
		DBDriver:          c.DBDriver,
		ChainMode:         c.ChainMode,
		EventsChannel:     c.EventsChannel,
		RateLimitRequests: c.RateLimitRequests,
		RateLimitWindow:   c.RateLimitWindow,
		CatalogS3Region:   c.CatalogS3Region,
		CatalogS3Bucket:   c.CatalogS3Bucket,
		CatalogS3Endpoint: c.CatalogS3Endpoint,
	}
}
