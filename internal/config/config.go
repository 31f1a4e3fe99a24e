package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tkilaker/magazine/internal/endpoint"
)

// Cache backends
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port      int
	StaticDir string
	RegionID  string

	// API
	APIBase      string
	Endpoints    []endpoint.Weighted
	FetchTimeout time.Duration

	// Cache
	CacheBackend    string
	CacheKey        string
	CacheDir        string
	FreshnessWindow time.Duration

	// Redis
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Database
	DatabaseURL string

	// RSS Feed
	FeedTitle       string
	FeedDescription string
	FeedLink        string
	FeedAuthor      string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, after loading a
// .env file from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	endpoints, err := endpoint.Parse(getEnv("ENDPOINTS", "pirates.json=0.3,pirates2.json=0.3,fail.json=0.4"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENDPOINTS: %w", err)
	}

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8080),
		StaticDir:       getEnv("STATIC_DIR", "./static"),
		RegionID:        getEnvAllowEmpty("REGION_ID", "app"),
		APIBase:         getEnv("API_BASE", endpoint.DefaultBase),
		Endpoints:       endpoints,
		FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT", 0),
		CacheBackend:    strings.ToLower(getEnv("CACHE_BACKEND", BackendFile)),
		CacheKey:        getEnv("CACHE_KEY", "magazine"),
		CacheDir:        getEnv("CACHE_DIR", ""),
		FreshnessWindow: getEnvAsDuration("FRESHNESS_WINDOW", time.Hour),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:       getEnv("REDIS_PASS", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		FeedTitle:       getEnv("FEED_TITLE", "Pirate Magazine"),
		FeedDescription: getEnv("FEED_DESCRIPTION", "News from the high seas"),
		FeedLink:        getEnv("FEED_LINK", "http://localhost:8080"),
		FeedAuthor:      getEnv("FEED_AUTHOR", "Magazine"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend requirements and value ranges
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case BackendFile, BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres cache backend")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q (valid: file, memory, redis, postgres)", c.CacheBackend)
	}
	if c.CacheKey == "" {
		return fmt.Errorf("CACHE_KEY must not be empty")
	}
	if c.FreshnessWindow <= 0 {
		return fmt.Errorf("FRESHNESS_WINDOW must be positive")
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("FETCH_TIMEOUT must not be negative")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty returns the value whenever key is set, even to ""
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
