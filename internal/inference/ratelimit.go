package inference

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimitedClient serializes invocations behind a shared token bucket so
// that concurrent criterion fan-out cannot exceed the provider's request
// budget. Waiting respects the caller's context.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

func withRateLimit(inner Client, rps float64, burst int) Client {
	if rps <= 0 {
		return inner
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *rateLimitedClient) Invoke(ctx context.Context, prompt string, params Params) (*Completion, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{
			Category: CategoryTimeout,
			Provider: "rate_limiter",
			Message:  "context ended while waiting for request slot",
			Wrapped:  err,
		}
	}
	return c.inner.Invoke(ctx, prompt, params)
}
