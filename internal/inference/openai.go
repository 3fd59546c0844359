package inference

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type openAIClient struct {
	client *openai.Client
}

func newOpenAIClient(cfg *Config) *openAIClient {
	return &openAIClient{
		client: openai.NewClient(cfg.APIKey),
	}
}

func (c *openAIClient) Invoke(ctx context.Context, prompt string, params Params) (*Completion, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       params.Model,
		MaxTokens:   params.MaxTokens,
		Temperature: float32(params.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, c.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{
			Category: CategoryUnknown,
			Provider: ProviderOpenAI,
			Message:  "no completion choices returned",
			Wrapped:  ErrEmptyCompletion,
		}
	}

	return &Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
		Latency: time.Since(start),
	}, nil
}

func (c *openAIClient) wrapError(err error) *ProviderError {
	pe := &ProviderError{
		Category: CategoryUnknown,
		Provider: ProviderOpenAI,
		Wrapped:  err,
	}

	if errors.Is(err, context.DeadlineExceeded) {
		pe.Category = CategoryTimeout
		return pe
	}

	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return pe
	}

	pe.StatusCode = apiErr.HTTPStatusCode
	pe.Message = apiErr.Message
	pe.Category = categorizeStatus(apiErr.HTTPStatusCode)

	// The OpenAI API distinguishes billing exhaustion from throttling via the
	// structured error code on the same 429 status.
	if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
		pe.Category = CategoryQuotaExceeded
	}

	return pe
}
