// Package inference abstracts the external scoring oracle behind a single
// client contract. Provider adapters translate SDK-specific failures into a
// categorized ProviderError at the boundary; everything downstream reasons
// about the category alone.
package inference

import (
	"context"
	"time"
)

// Params carries the model parameters for a single invocation.
type Params struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// Usage reports the token accounting for one invocation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Completion is the structured result of a successful invocation.
type Completion struct {
	Text    string        `json:"text"`
	Usage   Usage         `json:"usage"`
	Latency time.Duration `json:"latency"`
}

// Client invokes the scoring model with a fully-rendered prompt.
// Implementations return *ProviderError for categorized failures.
type Client interface {
	Invoke(ctx context.Context, prompt string, params Params) (*Completion, error)
}

// New constructs the configured provider client, wrapped with the shared
// request rate limiter.
func New(cfg *Config) (Client, error) {
	var client Client

	switch cfg.Provider {
	case ProviderAnthropic:
		client = newAnthropicClient(cfg)
	case ProviderOpenAI:
		client = newOpenAIClient(cfg)
	default:
		return nil, ErrUnknownProvider
	}

	return withRateLimit(client, cfg.RequestsPerSecond, cfg.Burst), nil
}
