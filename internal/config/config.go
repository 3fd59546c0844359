package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/attestd/attest/internal/inference"
	"github.com/attestd/attest/internal/retrieval"
	"github.com/attestd/attest/internal/worker"
	"github.com/attestd/attest/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAttestEnv             = "ATTEST_ENV"
	EnvAttestShutdownTimeout = "ATTEST_SHUTDOWN_TIMEOUT"
	EnvAttestVersion         = "ATTEST_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "ATTEST_DB_HOST",
	Port:            "ATTEST_DB_PORT",
	Name:            "ATTEST_DB_NAME",
	User:            "ATTEST_DB_USER",
	Password:        "ATTEST_DB_PASSWORD",
	SSLMode:         "ATTEST_DB_SSL_MODE",
	MaxOpenConns:    "ATTEST_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ATTEST_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ATTEST_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ATTEST_DB_CONN_TIMEOUT",
}

var inferenceEnv = &inference.Env{
	Provider:          "ATTEST_INFERENCE_PROVIDER",
	Model:             "ATTEST_INFERENCE_MODEL",
	APIKey:            "ATTEST_INFERENCE_API_KEY",
	RequestsPerSecond: "ATTEST_INFERENCE_RPS",
}

var retrievalEnv = &retrieval.Env{
	BaseURL: "ATTEST_RETRIEVAL_BASE_URL",
	Timeout: "ATTEST_RETRIEVAL_TIMEOUT",
}

var workerEnv = &worker.Env{
	Workers:       "ATTEST_WORKER_COUNT",
	FanOut:        "ATTEST_WORKER_FAN_OUT",
	MaxAttempts:   "ATTEST_WORKER_MAX_ATTEMPTS",
	SweepSchedule: "ATTEST_WORKER_SWEEP_SCHEDULE",
}

// Config is the root configuration for the Attest service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Inference       inference.Config `toml:"inference"`
	Retrieval       retrieval.Config `toml:"retrieval"`
	Worker          worker.Config    `toml:"worker"`
	Settings        SettingsConfig   `toml:"settings"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the ATTEST_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAttestEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Inference.Merge(&overlay.Inference)
	c.Retrieval.Merge(&overlay.Retrieval)
	c.Worker.Merge(&overlay.Worker)
	c.Settings.Merge(&overlay.Settings)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Inference.Finalize(inferenceEnv); err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	if err := c.Retrieval.Finalize(retrievalEnv); err != nil {
		return fmt.Errorf("retrieval: %w", err)
	}
	if err := c.Worker.Finalize(workerEnv); err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	if err := c.Settings.Finalize(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvAttestShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvAttestVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvAttestEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
