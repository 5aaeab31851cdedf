package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Redis configuration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisOpTimeout time.Duration

	// Cache configuration
	SearchCacheTTL time.Duration

	// Rate limiting
	RateLimitPerMinute int           // sustained window budget
	RateLimitBurst     int           // burst window budget
	RateLimitBurstSpan time.Duration // burst window length

	// Monitor thresholds
	AlertMemoryPercent      float64
	AlertHitRatePercent     float64
	AlertErrorRatePercent   float64
	AlertResponseTimeMs     float64
	AlertMaxClients         int
	AlertEvictionsPerMinute float64

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisOpTimeout: getEnvDuration("REDIS_OP_TIMEOUT", 2*time.Second),

		SearchCacheTTL: getEnvDuration("SEARCH_CACHE_TTL", 300*time.Second),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitBurstSpan: getEnvDuration("RATE_LIMIT_BURST_SPAN", 10*time.Second),

		AlertMemoryPercent:      getEnvFloat("ALERT_MEMORY_PERCENT", 80),
		AlertHitRatePercent:     getEnvFloat("ALERT_HIT_RATE_PERCENT", 70),
		AlertErrorRatePercent:   getEnvFloat("ALERT_ERROR_RATE_PERCENT", 5),
		AlertResponseTimeMs:     getEnvFloat("ALERT_RESPONSE_TIME_MS", 100),
		AlertMaxClients:         getEnvInt("ALERT_MAX_CLIENTS", 5000),
		AlertEvictionsPerMinute: getEnvFloat("ALERT_EVICTIONS_PER_MINUTE", 100),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" && c.RedisAddr == "" {
		// The cache layer fails open without Redis, but running
		// production that way silently defeats it.
		return fmt.Errorf("REDIS_ADDR is required in production")
	}
	if c.SearchCacheTTL <= 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must be positive")
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit budgets must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
