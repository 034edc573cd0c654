package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/asop?sslmode=disable")
}

func TestLoadFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/asop")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing OPENAI_API_KEY")
	}
}

func TestLoadFailsWithoutDatabaseURL(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing DATABASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("API_PORT", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "")
	t.Setenv("ANALYSIS_MAX_INPUT_CHARS", "")
	t.Setenv("ANALYSIS_RETRY_MAX_ATTEMPTS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.APIPort)
	}
	if cfg.OpenAIModel != "gpt-4" {
		t.Fatalf("expected default model gpt-4, got %q", cfg.OpenAIModel)
	}
	if cfg.AnalysisTimeoutSeconds != 60 {
		t.Fatalf("expected default timeout 60, got %d", cfg.AnalysisTimeoutSeconds)
	}
	if cfg.AnalysisMaxInputChars != 24000 {
		t.Fatalf("expected default input cap 24000, got %d", cfg.AnalysisMaxInputChars)
	}
	if cfg.AnalysisRetryMaxAttempts != 1 {
		t.Fatalf("expected single attempt default, got %d", cfg.AnalysisRetryMaxAttempts)
	}
}

func TestLoadAppendsSSLModeWhenAbsent(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://u:p@db.example.com:5432/asop")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.HasSuffix(cfg.DatabaseURL, "?sslmode=require") {
		t.Fatalf("expected sslmode=require appended, got %q", cfg.DatabaseURL)
	}
}

func TestLoadKeepsExplicitSSLMode(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.HasSuffix(cfg.DatabaseURL, "sslmode=disable") {
		t.Fatalf("expected explicit sslmode preserved, got %q", cfg.DatabaseURL)
	}
}
