package config

import (
	"fmt"
	"os"
	"time"

	"github.com/attestd/attest/internal/scoring"
	"github.com/attestd/attest/internal/settings"
)

const (
	EnvSettingsScoringMode   = "ATTEST_SETTINGS_SCORING_MODE"
	EnvSettingsFailurePolicy = "ATTEST_SETTINGS_FAILURE_POLICY"
	EnvSettingsCacheTTL      = "ATTEST_SETTINGS_CACHE_TTL"
)

// SettingsConfig holds the system-default scoring settings and the resolver
// cache TTL. Org-level overrides layer on top of these at resolve time.
type SettingsConfig struct {
	ScoringMode         string `toml:"scoring_mode"`
	FailurePolicy       string `toml:"failure_policy"`
	NumericScoreVisible bool   `toml:"numeric_score_visible"`
	CacheTTL            string `toml:"cache_ttl"`
}

// Defaults returns the parsed system-default settings.
func (c *SettingsConfig) Defaults() settings.Defaults {
	mode, _ := scoring.ParseMode(c.ScoringMode)
	policy, _ := scoring.ParseFailurePolicy(c.FailurePolicy)

	return settings.Defaults{
		ScoringMode:         mode,
		FailurePolicy:       policy,
		NumericScoreVisible: c.NumericScoreVisible,
	}
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *SettingsConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SettingsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SettingsConfig) Merge(overlay *SettingsConfig) {
	if overlay.ScoringMode != "" {
		c.ScoringMode = overlay.ScoringMode
	}
	if overlay.FailurePolicy != "" {
		c.FailurePolicy = overlay.FailurePolicy
	}
	if overlay.NumericScoreVisible {
		c.NumericScoreVisible = true
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
}

func (c *SettingsConfig) loadDefaults() {
	if c.ScoringMode == "" {
		c.ScoringMode = string(scoring.ModeBoolean)
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = string(scoring.FailAllCriteria)
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "5m"
	}
}

func (c *SettingsConfig) loadEnv() {
	if v := os.Getenv(EnvSettingsScoringMode); v != "" {
		c.ScoringMode = v
	}
	if v := os.Getenv(EnvSettingsFailurePolicy); v != "" {
		c.FailurePolicy = v
	}
	if v := os.Getenv(EnvSettingsCacheTTL); v != "" {
		c.CacheTTL = v
	}
}

func (c *SettingsConfig) validate() error {
	if _, err := scoring.ParseMode(c.ScoringMode); err != nil {
		return fmt.Errorf("invalid scoring_mode %q: %w", c.ScoringMode, err)
	}
	if _, err := scoring.ParseFailurePolicy(c.FailurePolicy); err != nil {
		return fmt.Errorf("invalid failure_policy %q: %w", c.FailurePolicy, err)
	}
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	return nil
}
