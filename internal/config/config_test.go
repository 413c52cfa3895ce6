package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max concurrent", func(c *Config) { c.Session.MaxConcurrent = 0 }},
		{"zero idle timeout", func(c *Config) { c.Session.IdleTimeout = 0 }},
		{"negative sweep interval", func(c *Config) { c.Session.SweepInterval = -time.Hour }},
		{"zero history limit", func(c *Config) { c.HistoryLimit = 0 }},
		{"unordered risk thresholds", func(c *Config) { c.Risk.High = 9 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MINDBRIDGE_CONFIG", "")
	t.Setenv("SESSION_MAX_CONCURRENT", "5")
	t.Setenv("SESSION_IDLE_TIMEOUT", "10m")
	t.Setenv("ENGAGEMENT_HISTORY_LIMIT", "50")

	cfg, err := Load(testLogger(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.MaxConcurrent != 5 {
		t.Fatalf("expected max concurrent 5, got %d", cfg.Session.MaxConcurrent)
	}
	if cfg.Session.IdleTimeout != 10*time.Minute {
		t.Fatalf("expected idle timeout 10m, got %s", cfg.Session.IdleTimeout)
	}
	if cfg.HistoryLimit != 50 {
		t.Fatalf("expected history limit 50, got %d", cfg.HistoryLimit)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("session:\n  max_concurrent: 2\n  idle_timeout: 15m\n  sweep_interval: 1h\nhistory_limit: 10\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("MINDBRIDGE_CONFIG", path)
	t.Setenv("SESSION_MAX_CONCURRENT", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")
	t.Setenv("SESSION_SWEEP_INTERVAL", "")
	t.Setenv("ENGAGEMENT_HISTORY_LIMIT", "")

	cfg, err := Load(testLogger(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.MaxConcurrent != 2 {
		t.Fatalf("expected max concurrent 2 from file, got %d", cfg.Session.MaxConcurrent)
	}
	if cfg.Session.IdleTimeout != 15*time.Minute {
		t.Fatalf("expected idle timeout 15m from file, got %s", cfg.Session.IdleTimeout)
	}
	// Scoring weights keep their defaults when the file omits them.
	if cfg.Scoring.UrgentNeeds != Default().Scoring.UrgentNeeds {
		t.Fatalf("expected default urgent weight, got %v", cfg.Scoring.UrgentNeeds)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("MINDBRIDGE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("SESSION_MAX_CONCURRENT", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")
	t.Setenv("SESSION_SWEEP_INTERVAL", "")
	t.Setenv("ENGAGEMENT_HISTORY_LIMIT", "")

	cfg, err := Load(testLogger(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.MaxConcurrent != Default().Session.MaxConcurrent {
		t.Fatalf("expected defaults, got %+v", cfg.Session)
	}
}
