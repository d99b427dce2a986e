package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be 8080, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 10 {
		t.Errorf("Expected DB MaxConns to be 10, got %d", cfg.Database.MaxConns)
	}

	if cfg.Scheduler.RefitSchedule != "0 0 3 * * *" {
		t.Errorf("Expected default refit schedule, got %s", cfg.Scheduler.RefitSchedule)
	}

	if cfg.API.RateLimit != 20 {
		t.Errorf("Expected API RateLimit to be 20, got %v", cfg.API.RateLimit)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("DB_MAX_CONNS", "50")
	os.Setenv("API_RATE_LIMIT", "5.5")
	os.Setenv("LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("DB_MAX_CONNS")
		os.Unsetenv("API_RATE_LIMIT")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 50 {
		t.Errorf("Expected DB MaxConns to be 50, got %d", cfg.Database.MaxConns)
	}

	if cfg.API.RateLimit != 5.5 {
		t.Errorf("Expected API RateLimit to be 5.5, got %v", cfg.API.RateLimit)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	os.Setenv("ENV", "sandbox")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Error("Expected Load() to fail for unknown ENV")
	}
}

func TestLoadRejectsNonPositiveRateLimit(t *testing.T) {
	os.Setenv("API_RATE_LIMIT", "-1")
	defer os.Unsetenv("API_RATE_LIMIT")

	if _, err := Load(); err == nil {
		t.Error("Expected Load() to fail for negative API_RATE_LIMIT")
	}
}
