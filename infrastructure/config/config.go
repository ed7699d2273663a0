package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion      string
	CacheTable     string
	RateLimitTable string

	// Upstream catalog API
	AniListURL     string
	AniListTimeout time.Duration

	// Cache TTLs (seconds)
	CacheTTLDefault int
	CacheTTLList    int
	CacheTTLSearch  int
	CacheTTLManga   int
	SchedulerTTL    int

	// Refresh scheduler intervals
	TrendingInterval  time.Duration
	MonthlyInterval   time.Duration
	SuggestedInterval time.Duration

	// Suggested-list defaults
	SuggestedGenres        []string
	SuggestedExcludeGenres []string

	// Rate limiting
	// The translation limit is configurable because the product copy and the
	// limiter disagreed (20 vs 100 per hour); the owner resolves it here.
	TranslationRateLimit int

	// Logging
	LogLevel string

	// Feature flags
	EnableCORS      bool
	EnableScheduler bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),

		CacheTable:     getEnv("CACHE_TABLE", "anilist_cache"),
		RateLimitTable: getEnv("RATE_LIMIT_TABLE", "rateLimits"),

		AniListURL:     getEnv("ANILIST_URL", "https://graphql.anilist.co"),
		AniListTimeout: getEnvDuration("ANILIST_TIMEOUT", 10*time.Second),

		CacheTTLDefault: getEnvInt("CACHE_TTL_DEFAULT", 3600),
		CacheTTLList:    getEnvInt("CACHE_TTL_LIST", 3600),
		CacheTTLSearch:  getEnvInt("CACHE_TTL_SEARCH", 1800),
		CacheTTLManga:   getEnvInt("CACHE_TTL_MANGA", 7200),
		SchedulerTTL:    getEnvInt("SCHEDULER_TTL", 7200),

		TrendingInterval:  getEnvDuration("TRENDING_REFRESH_INTERVAL", 45*time.Minute),
		MonthlyInterval:   getEnvDuration("MONTHLY_REFRESH_INTERVAL", 3*time.Hour),
		SuggestedInterval: getEnvDuration("SUGGESTED_REFRESH_INTERVAL", 4*time.Hour),

		SuggestedGenres:        getEnvList("SUGGESTED_GENRES", nil),
		SuggestedExcludeGenres: getEnvList("SUGGESTED_EXCLUDE_GENRES", nil),

		TranslationRateLimit: getEnvInt("TRANSLATION_RATE_LIMIT", 100),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		EnableCORS:      getEnvBool("ENABLE_CORS", true),
		EnableScheduler: getEnvBool("ENABLE_SCHEDULER", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.CacheTable == "" {
		return fmt.Errorf("CACHE_TABLE is required")
	}
	if c.RateLimitTable == "" {
		return fmt.Errorf("RATE_LIMIT_TABLE is required")
	}
	if c.AniListURL == "" {
		return fmt.Errorf("ANILIST_URL is required")
	}
	if c.SchedulerTTL*1000 < int(c.TrendingInterval.Milliseconds()) {
		// The scheduler TTL must outlive its shortest interval so that one
		// missed refresh degrades to stale data instead of no data.
		return fmt.Errorf("SCHEDULER_TTL must be longer than TRENDING_REFRESH_INTERVAL")
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

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated list environment variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
