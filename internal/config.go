package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Item sources the demo server can page over.
const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
	SourceGorm     = "gorm"
	SourceMongo    = "mongo"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Public base URL of the server
	BaseURL string

	// Where /items reads from: memory, postgres, gorm or mongo
	Source      string
	DatabaseUrl string
	SeedItems   int // generated items for the memory source, and the mongo seed

	// SourceTimeout bounds one page load against the item store
	SourceTimeout time.Duration

	// MongoDB
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// S3 compatible bucket listing (optional, enables /objects)
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3Prefix          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// Paging
	PageSize            int
	MaxPageSize         int
	PagerPreset         string
	PagerMaxPageNumbers int

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string

	// Rate limiting for the public list endpoints
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		Source:      getEnv("SOURCE", SourceMemory),
		DatabaseUrl: os.Getenv("DATABASE_URL"),
		SeedItems:   getEnvInt("SEED_ITEMS", 237),

		SourceTimeout: getEnvDuration("SOURCE_TIMEOUT", 5*time.Second),

		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "pagedlist"),
		MongoCollection: getEnv("MONGO_COLLECTION", "items"),

		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),

		PageSize:            getEnvInt("PAGE_SIZE", 20),
		MaxPageSize:         getEnvInt("MAX_PAGE_SIZE", 100),
		PagerPreset:         getEnv("PAGER_PRESET", "tailwind"),
		PagerMaxPageNumbers: getEnvInt("PAGER_MAX_PAGE_NUMBERS", 10),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	switch cfg.Source {
	case SourceMemory:
	case SourcePostgres, SourceGorm:
		if cfg.DatabaseUrl == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when SOURCE is '%s'", cfg.Source)
		}
	case SourceMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required when SOURCE is 'mongo'")
		}
	default:
		return nil, fmt.Errorf("SOURCE must be one of 'memory', 'postgres', 'gorm' or 'mongo', got: %s", cfg.Source)
	}

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be at least 1, got: %d", cfg.PageSize)
	}
	if cfg.MaxPageSize < cfg.PageSize {
		return nil, fmt.Errorf("MAX_PAGE_SIZE (%d) must not be smaller than PAGE_SIZE (%d)", cfg.MaxPageSize, cfg.PageSize)
	}

	if cfg.RateLimitRequests < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got: %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got: %s", cfg.RateLimitWindow)
	}
	if cfg.SourceTimeout < 0 {
		return nil, fmt.Errorf("SOURCE_TIMEOUT must not be negative, got: %s", cfg.SourceTimeout)
	}

	// Validate bucket configuration
	if cfg.S3Bucket != "" {
		if cfg.S3AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID is required when S3_BUCKET is set")
		}
		if cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY is required when S3_BUCKET is set")
		}
	}

	return cfg, nil
}

// S3Enabled reports whether a bucket listing is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
