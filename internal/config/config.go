package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	APIPort  string
	LogLevel string

	DatabaseURL string

	OpenAIAPIKey string
	OpenAIModel  string

	UploadDir string

	AnalysisTimeoutSeconds   int
	AnalysisMaxInputChars    int
	AnalysisRetryMaxAttempts int

	APIRateLimitRPS   int
	APIRateLimitBurst int
	APIMaxInFlight    int
}

// Load reads configuration from the environment. The completion-service key
// and the storage connection string are mandatory: the process refuses to
// initialize without them rather than failing on first request.
func Load() (Config, error) {
	cfg := Config{
		APIPort:  envOr("API_PORT", "8000"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  envOr("OPENAI_MODEL", "gpt-4"),

		UploadDir: envOr("UPLOAD_DIR", "./uploads"),

		AnalysisTimeoutSeconds:   envOrInt("ANALYSIS_TIMEOUT_SECONDS", 60),
		AnalysisMaxInputChars:    envOrInt("ANALYSIS_MAX_INPUT_CHARS", 24000),
		AnalysisRetryMaxAttempts: envOrInt("ANALYSIS_RETRY_MAX_ATTEMPTS", 1),

		APIRateLimitRPS:   envOrInt("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: envOrInt("API_RATE_LIMIT_BURST", 0),
		APIMaxInFlight:    envOrInt("API_MAX_IN_FLIGHT", 0),
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY not found in environment")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL not found in environment")
	}
	cfg.DatabaseURL = normalizeDatabaseURL(cfg.DatabaseURL)

	return cfg, nil
}

// normalizeDatabaseURL forces TLS when the DSN does not state an sslmode,
// matching the managed-Postgres deployments this service targets.
func normalizeDatabaseURL(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&sslmode=require"
	}
	return dsn + "?sslmode=require"
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
