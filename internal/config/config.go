// Package config provides configuration management for riftscout.
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

// Config holds all configuration values for the application.
type Config struct {
	// Riot API
	RiotAPIKey          string
	RiotBaseURLTemplate string // %s receives the routing or platform value, e.g. "europe", "euw1"
	FetchConcurrency    int
	HistoryCount        int
	HistoryQueue        int

	// Redis
	RedisURL       string
	RedisKeyPrefix string
	PUUIDCacheTTL  time.Duration
	LiveCacheTTL   time.Duration

	// HTTP
	HTTPAddr   string
	HealthAddr string

	// Logging
	LogLevel  string
	LogFormat string

	// Paths
	DataDir string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		RiotAPIKey:          os.Getenv("RIOT_API_KEY"),
		RiotBaseURLTemplate: getEnvOrDefault("RIOT_BASE_URL_TEMPLATE", "https://%s.api.riotgames.com"),
		FetchConcurrency:    getIntOrDefault("FETCH_CONCURRENCY", 10, &errs),
		HistoryCount:        getIntOrDefault("HISTORY_COUNT", 7, &errs),
		HistoryQueue:        getIntOrDefault("HISTORY_QUEUE", 420, &errs),

		RedisURL:       os.Getenv("REDIS_URL"),
		RedisKeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "riftscout:"),
		PUUIDCacheTTL:  getDurationOrDefault("PUUID_CACHE_TTL", 0, &errs),
		LiveCacheTTL:   getDurationOrDefault("LIVE_CACHE_TTL", 15*time.Second, &errs),

		HTTPAddr:   getEnvOrDefault("HTTP_ADDR", ":8080"),
		HealthAddr: getEnvOrDefault("HEALTH_ADDR", ":8081"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		DataDir: getEnvOrDefault("DATA_DIR", "data"),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks if all required configuration values are set.
// Every problem is reported, not just the first.
func (c *Config) Validate() error {
	var errs []string

	if c.RiotAPIKey == "" {
		errs = append(errs, "RIOT_API_KEY is missing")
	}

	if strings.Count(c.RiotBaseURLTemplate, "%s") != 1 {
		errs = append(errs, "RIOT_BASE_URL_TEMPLATE must contain exactly one %s")
	}

	if c.FetchConcurrency < 1 {
		errs = append(errs, "FETCH_CONCURRENCY must be at least 1")
	}

	if c.HistoryCount < 0 || c.HistoryCount > 100 {
		errs = append(errs, "HISTORY_COUNT must be between 0 and 100")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT %q is not json or console", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// LanesDataPath returns the full path to lanes.json
func (c *Config) LanesDataPath() string {
	return filepath.Join(c.DataDir, "lanes.json")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getDurationOrDefault(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}
