package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/attestd/attest/internal/config"
	"github.com/attestd/attest/internal/scoring"
)

const baseConfig = `shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "5m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "attest"
user = "attest"
password = "attest"
ssl_mode = "disable"

[inference]
provider = "anthropic"
model = "claude-sonnet-4-20250514"
max_tokens = 2048

[retrieval]
base_url = "http://localhost:9200"
top_k = 8

[worker]
workers = 4
fan_out = 3
max_attempts = 3

[settings]
scoring_mode = "categorical"
failure_policy = "any_criterion"
numeric_score_visible = true
cache_ttl = "10m"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `[server]
port = 9090

[database]
host = "prodhost"

[worker]
workers = 12
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Inference.MaxTokens != 2048 {
		t.Errorf("inference max_tokens: got %d, want 2048", cfg.Inference.MaxTokens)
	}
	if cfg.Retrieval.TopK != 8 {
		t.Errorf("retrieval top_k: got %d, want 8", cfg.Retrieval.TopK)
	}
	if cfg.Settings.ScoringMode != string(scoring.ModeCategorical) {
		t.Errorf("settings scoring_mode: got %s, want categorical", cfg.Settings.ScoringMode)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("ATTEST_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Worker.Workers != 12 {
		t.Errorf("workers: got %d, want 12 (from overlay)", cfg.Worker.Workers)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("ATTEST_VERSION", "2.0.0")
	t.Setenv("ATTEST_SERVER_PORT", "3000")
	t.Setenv("ATTEST_WORKER_COUNT", "8")
	t.Setenv("ATTEST_INFERENCE_API_KEY", "sk-test")
	t.Setenv("ATTEST_SETTINGS_SCORING_MODE", "boolean")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Worker.Workers != 8 {
		t.Errorf("workers: got %d, want 8", cfg.Worker.Workers)
	}
	if cfg.Inference.APIKey != "sk-test" {
		t.Error("inference api key not taken from environment")
	}
	if cfg.Settings.ScoringMode != string(scoring.ModeBoolean) {
		t.Errorf("settings scoring_mode: got %s, want boolean", cfg.Settings.ScoringMode)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("ATTEST_DB_NAME", "testdb")
	t.Setenv("ATTEST_DB_USER", "testuser")
	t.Setenv("ATTEST_RETRIEVAL_BASE_URL", "http://localhost:9200")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Worker.Workers != 4 {
		t.Errorf("workers default: got %d, want 4", cfg.Worker.Workers)
	}
	if cfg.Settings.ScoringMode != string(scoring.ModeBoolean) {
		t.Errorf("settings scoring_mode default: got %s, want boolean", cfg.Settings.ScoringMode)
	}
	if cfg.Settings.FailurePolicy != string(scoring.FailAllCriteria) {
		t.Errorf("settings failure_policy default: got %s, want all_criteria", cfg.Settings.FailurePolicy)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `shutdown_timeout = [`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("ATTEST_SETTINGS_SCORING_MODE", "percentile")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for unknown scoring mode")
	}
}

func TestEnvDefault(t *testing.T) {
	cfg := &config.Config{}
	if got := cfg.Env(); got != "local" {
		t.Errorf("env default: got %s, want local", got)
	}

	t.Setenv("ATTEST_ENV", "production")
	if got := cfg.Env(); got != "production" {
		t.Errorf("env: got %s, want production", got)
	}
}
