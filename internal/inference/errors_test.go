package inference

import (
	"errors"
	"fmt"
	"testing"
)

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Category
	}{
		{401, CategoryAccessDenied},
		{403, CategoryAccessDenied},
		{402, CategorySubscriptionRequired},
		{404, CategoryModelNotFound},
		{408, CategoryTimeout},
		{504, CategoryTimeout},
		{429, CategoryRateLimitExceeded},
		{500, CategoryUnknown},
		{418, CategoryUnknown},
	}

	for _, tc := range tests {
		if got := categorizeStatus(tc.status); got != tc.want {
			t.Errorf("categorizeStatus(%d) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  ProviderError
		want bool
	}{
		{"rate limit", ProviderError{Category: CategoryRateLimitExceeded}, true},
		{"timeout", ProviderError{Category: CategoryTimeout}, true},
		{"quota", ProviderError{Category: CategoryQuotaExceeded}, true},
		{"unknown server error", ProviderError{Category: CategoryUnknown, StatusCode: 503}, true},
		{"unknown transport error", ProviderError{Category: CategoryUnknown}, true},
		{"unknown client error", ProviderError{Category: CategoryUnknown, StatusCode: 422}, false},
		{"access denied", ProviderError{Category: CategoryAccessDenied, StatusCode: 403}, false},
		{"model not found", ProviderError{Category: CategoryModelNotFound, StatusCode: 404}, false},
		{"profile required", ProviderError{Category: CategoryProfileRequired, StatusCode: 400}, false},
		{"subscription required", ProviderError{Category: CategorySubscriptionRequired, StatusCode: 402}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Retryable(); got != tc.want {
				t.Errorf("Retryable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	pe := &ProviderError{Category: CategoryRateLimitExceeded, Provider: "anthropic"}

	if got := CategoryOf(pe); got != CategoryRateLimitExceeded {
		t.Errorf("CategoryOf = %s, want rate_limit_exceeded", got)
	}

	wrapped := fmt.Errorf("invoke criterion: %w", pe)
	if got := CategoryOf(wrapped); got != CategoryRateLimitExceeded {
		t.Errorf("CategoryOf(wrapped) = %s, want rate_limit_exceeded", got)
	}

	if got := CategoryOf(errors.New("plain")); got != CategoryUnknown {
		t.Errorf("CategoryOf(plain) = %s, want unknown", got)
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	pe := &ProviderError{Category: CategoryUnknown, Wrapped: inner}

	if !errors.Is(pe, inner) {
		t.Error("errors.Is should reach the wrapped error")
	}
}
