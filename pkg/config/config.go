package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: bar archive + pick history)
	Database DatabaseConfig

	// Redis (optional: snapshot cache + shared rate limit)
	Redis RedisConfig

	// Market data sources
	Yahoo  YahooConfig
	Finviz FinvizConfig
	Fetch  FetchConfig

	// Engine
	BenchmarkSymbol string
	StrategyConfig  string // path to strategy YAML, empty = built-in defaults

	// Output artifacts
	Output OutputConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL     string
	Enabled bool

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// YahooConfig holds the chart API configuration
type YahooConfig struct {
	BaseURL string
	Range   string // chart range, e.g. "2y"
}

// FinvizConfig holds the fundamentals page configuration
type FinvizConfig struct {
	BaseURL string
	Enabled bool
}

// FetchConfig holds pacing and resilience settings for upstream fetches
type FetchConfig struct {
	Delay            time.Duration // flat delay between fetches
	Timeout          time.Duration
	BreakerThreshold int // consecutive failures before the breaker opens
	BreakerCooldown  time.Duration
}

// OutputConfig holds artifact locations
type OutputConfig struct {
	Dir        string // live artifacts
	ArchiveDir string // date-keyed, append-only archive
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	dbURL := getEnv("DATABASE_URL", "")

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             dbURL,
			Enabled:         getEnvAsBool("DB_ENABLED", dbURL != ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Market data
		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			Range:   getEnv("YAHOO_RANGE", "2y"),
		},
		Finviz: FinvizConfig{
			BaseURL: getEnv("FINVIZ_BASE_URL", "https://finviz.com"),
			Enabled: getEnvAsBool("FINVIZ_ENABLED", true),
		},
		Fetch: FetchConfig{
			Delay:            getEnvAsDuration("FETCH_DELAY", "250ms"),
			Timeout:          getEnvAsDuration("FETCH_TIMEOUT", "15s"),
			BreakerThreshold: getEnvAsInt("FETCH_BREAKER_THRESHOLD", 5),
			BreakerCooldown:  getEnvAsDuration("FETCH_BREAKER_COOLDOWN", "30s"),
		},

		// Engine
		BenchmarkSymbol: getEnv("BENCHMARK_SYMBOL", "SPY"),
		StrategyConfig:  getEnv("STRATEGY_CONFIG", ""),

		// Output
		Output: OutputConfig{
			Dir:        getEnv("OUTPUT_DIR", "data"),
			ArchiveDir: getEnv("ARCHIVE_DIR", "data/archive"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required only when the database is enabled
	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when DB_ENABLED=true")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.BenchmarkSymbol == "" {
		return fmt.Errorf("BENCHMARK_SYMBOL must not be empty")
	}

	if c.Fetch.Delay < 0 {
		return fmt.Errorf("FETCH_DELAY must not be negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",        // Current directory
		"../../.env",  // From cmd/quant
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
