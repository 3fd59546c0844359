package inference

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicClient struct {
	client anthropic.Client
}

func newAnthropicClient(cfg *Config) *anthropicClient {
	return &anthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
	}
}

func (c *anthropicClient) Invoke(ctx context.Context, prompt string, params Params) (*Completion, error) {
	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(params.Model),
		MaxTokens:   int64(params.MaxTokens),
		Temperature: anthropic.Float(params.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, c.wrapError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(content.Text)
		}
	}

	if text.Len() == 0 {
		return nil, &ProviderError{
			Category: CategoryUnknown,
			Provider: ProviderAnthropic,
			Message:  "no text blocks in completion",
			Wrapped:  ErrEmptyCompletion,
		}
	}

	return &Completion{
		Text: text.String(),
		Usage: Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
		},
		Latency: time.Since(start),
	}, nil
}

func (c *anthropicClient) wrapError(err error) *ProviderError {
	pe := &ProviderError{
		Category: CategoryUnknown,
		Provider: ProviderAnthropic,
		Wrapped:  err,
	}

	if errors.Is(err, context.DeadlineExceeded) {
		pe.Category = CategoryTimeout
		return pe
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return pe
	}

	pe.StatusCode = apiErr.StatusCode
	pe.Message = apiErr.Error()
	pe.Category = categorizeStatus(apiErr.StatusCode)

	// Bedrock-backed models reject direct model ids with a 400 naming the
	// required inference profile.
	if pe.Category == CategoryUnknown && apiErr.StatusCode == 400 &&
		strings.Contains(pe.Message, "inference profile") {
		pe.Category = CategoryProfileRequired
	}

	return pe
}
