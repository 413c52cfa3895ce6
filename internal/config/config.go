package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mindbridge-backend/internal/platform/envutil"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

// ScoringWeights are the multipliers and bonuses of the activity scorer.
// Values are heuristics tuned against pilot cohorts, not clinical constants.
type ScoringWeights struct {
	CulturalRelevance      float64 `yaml:"cultural_relevance"`
	UrgentNeeds            float64 `yaml:"urgent_needs"`
	PrimaryNeeds           float64 `yaml:"primary_needs"`
	SecondaryNeeds         float64 `yaml:"secondary_needs"`
	SpecificGoals          float64 `yaml:"specific_goals"`
	DurationFitBonus       float64 `yaml:"duration_fit_bonus"`
	DurationFitWindowMin   int     `yaml:"duration_fit_window_min"`
	PreferredTypeBonus     float64 `yaml:"preferred_type_bonus"`
	PreferredCategoryBonus float64 `yaml:"preferred_category_bonus"`
	RecencyPenalty         float64 `yaml:"recency_penalty"`
	RecencyWindow          int     `yaml:"recency_window"`
}

// RiskThresholds map the additive risk score onto the coarse risk levels.
type RiskThresholds struct {
	Severe float64 `yaml:"severe"`
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
}

// Session holds the lifecycle manager tuning knobs.
type Session struct {
	MaxConcurrent int           `yaml:"max_concurrent"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type Config struct {
	Scoring      ScoringWeights `yaml:"scoring"`
	Risk         RiskThresholds `yaml:"risk"`
	Session      Session        `yaml:"session"`
	HistoryLimit int            `yaml:"history_limit"`
}

func Default() Config {
	return Config{
		Scoring: ScoringWeights{
			CulturalRelevance:      0.1,
			UrgentNeeds:            4,
			PrimaryNeeds:           3,
			SecondaryNeeds:         1.5,
			SpecificGoals:          2,
			DurationFitBonus:       1,
			DurationFitWindowMin:   5,
			PreferredTypeBonus:     2,
			PreferredCategoryBonus: 1.5,
			RecencyPenalty:         1,
			RecencyWindow:          3,
		},
		Risk: RiskThresholds{
			Severe: 4,
			High:   2.5,
			Medium: 1,
		},
		Session: Session{
			MaxConcurrent: 3,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: 24 * time.Hour,
		},
		HistoryLimit: 20,
	}
}

// Load reads the optional YAML config file and applies env overrides on top
// of the defaults. A missing file is not an error; a malformed one is.
func Load(log *logger.Logger) (Config, error) {
	cfg := Default()

	path := envutil.GetEnv("MINDBRIDGE_CONFIG", "", log)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
			if log != nil {
				log.Warn("Config file not found, using defaults", "path", path)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Session.MaxConcurrent = envutil.GetEnvAsInt("SESSION_MAX_CONCURRENT", cfg.Session.MaxConcurrent, log)
	cfg.Session.IdleTimeout = envutil.GetEnvAsDuration("SESSION_IDLE_TIMEOUT", cfg.Session.IdleTimeout, log)
	cfg.Session.SweepInterval = envutil.GetEnvAsDuration("SESSION_SWEEP_INTERVAL", cfg.Session.SweepInterval, log)
	cfg.HistoryLimit = envutil.GetEnvAsInt("ENGAGEMENT_HISTORY_LIMIT", cfg.HistoryLimit, log)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Session.MaxConcurrent < 1 {
		return fmt.Errorf("session.max_concurrent must be >= 1, got %d", c.Session.MaxConcurrent)
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be positive, got %s", c.Session.IdleTimeout)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive, got %s", c.Session.SweepInterval)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be >= 1, got %d", c.HistoryLimit)
	}
	if !(c.Risk.Severe >= c.Risk.High && c.Risk.High >= c.Risk.Medium) {
		return fmt.Errorf("risk thresholds must be ordered severe >= high >= medium")
	}
	return nil
}
