package inference

import (
	"errors"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Supported providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ErrUnknownProvider indicates an unrecognized provider name in configuration.
var ErrUnknownProvider = errors.New("unknown inference provider")

// Config holds inference provider parameters.
// APIKey is never read from TOML; it comes exclusively from the environment.
type Config struct {
	Provider          string  `toml:"provider" validate:"required,oneof=anthropic openai"`
	Model             string  `toml:"model" validate:"required"`
	MaxTokens         int     `toml:"max_tokens" validate:"min=50,max=8192"`
	Temperature       float64 `toml:"temperature" validate:"min=0,max=1"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"min=0"`
	Burst             int     `toml:"burst" validate:"min=0"`
	// PromptCostPerMTok / CompletionCostPerMTok are optional USD prices per
	// million tokens used for estimated-cost accounting. Zero disables the
	// estimate (logged as null).
	PromptCostPerMTok     float64 `toml:"prompt_cost_per_mtok" validate:"min=0"`
	CompletionCostPerMTok float64 `toml:"completion_cost_per_mtok" validate:"min=0"`

	APIKey string `toml:"-"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider          string
	Model             string
	APIKey            string
	RequestsPerSecond string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.RequestsPerSecond != 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
	if overlay.PromptCostPerMTok != 0 {
		c.PromptCostPerMTok = overlay.PromptCostPerMTok
	}
	if overlay.CompletionCostPerMTok != 0 {
		c.CompletionCostPerMTok = overlay.CompletionCostPerMTok
	}
}

// Params returns the invocation parameters derived from the config.
func (c *Config) Params() Params {
	return Params{
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAnthropic
	}
	if c.Model == "" {
		c.Model = "claude-sonnet-4-20250514"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 2
	}
	if c.Burst == 0 {
		c.Burst = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.RequestsPerSecond != "" {
		if v := os.Getenv(env.RequestsPerSecond); v != "" {
			if rps, err := strconv.ParseFloat(v, 64); err == nil {
				c.RequestsPerSecond = rps
			}
		}
	}
}

func (c *Config) validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// EstimatedCost computes the USD cost of an invocation from configured
// per-million-token prices. Returns nil when pricing is not configured.
func (c *Config) EstimatedCost(usage Usage) *float64 {
	if c.PromptCostPerMTok == 0 && c.CompletionCostPerMTok == 0 {
		return nil
	}
	cost := float64(usage.PromptTokens)/1e6*c.PromptCostPerMTok +
		float64(usage.CompletionTokens)/1e6*c.CompletionCostPerMTok
	return &cost
}
