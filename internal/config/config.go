package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

type Config struct {
	DatabaseURL string
	Port        string

	ApolloAPIKey            string
	ApolloBaseURL           string
	ApolloRequestsPerMinute int
	ApolloTimeout           time.Duration

	ImportBatchSize int
	SessionTTL      time.Duration
	SessionCapacity int

	LogLevel string
	LogStyle string
}

// Load reads the process environment. A .env file in the working directory is
// applied first when present; variables already set win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		Port:                    getEnv("PORT", "8080"),
		ApolloAPIKey:            os.Getenv("APOLLO_API_KEY"),
		ApolloBaseURL:           getEnv("APOLLO_BASE_URL", "https://api.apollo.io"),
		ApolloRequestsPerMinute: parseIntEnv("APOLLO_REQUESTS_PER_MINUTE", 50),
		ApolloTimeout:           time.Duration(parseIntEnv("APOLLO_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		ImportBatchSize:         parseBatchSize(),
		SessionTTL:              time.Duration(parseIntEnv("IMPORT_SESSION_TTL_MINUTES", 120)) * time.Minute,
		SessionCapacity:         parseIntEnv("IMPORT_SESSION_CAPACITY", 256),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogStyle:                strings.ToLower(getEnv("LOG_STYLE", "json")),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}
	return cfg, nil
}

// bulk enrichment takes at most 10 records per call
func parseBatchSize() int {
	size := parseIntEnv("IMPORT_BATCH_SIZE", 10)
	if size <= 0 {
		return 10
	}
	if size > 10 {
		return 10
	}
	return size
}

func parseIntEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
