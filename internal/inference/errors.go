package inference

import (
	"errors"
	"fmt"
)

// Category classifies a provider failure at the client boundary.
// Categories are produced where the SDK error is in hand, never inferred
// downstream from free text.
type Category string

// Provider error categories.
const (
	CategoryProfileRequired      Category = "inference_profile_required"
	CategoryRateLimitExceeded    Category = "rate_limit_exceeded"
	CategoryModelNotFound        Category = "model_not_found"
	CategoryAccessDenied         Category = "access_denied"
	CategoryTimeout              Category = "timeout"
	CategoryQuotaExceeded        Category = "quota_exceeded"
	CategorySubscriptionRequired Category = "subscription_required"
	CategoryUnknown              Category = "unknown"
)

// ErrEmptyCompletion indicates the provider returned no usable content blocks.
var ErrEmptyCompletion = errors.New("empty completion from provider")

// ProviderError represents a categorized failure from an inference provider.
type ProviderError struct {
	Category   Category
	Provider   string
	StatusCode int
	Message    string
	Wrapped    error
}

func (e *ProviderError) Error() string {
	base := fmt.Sprintf("%s error [%s]", e.Provider, e.Category)
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		base += ": " + e.Message
	}
	if e.Wrapped != nil {
		base += fmt.Sprintf(": %v", e.Wrapped)
	}
	return base
}

// Unwrap returns the underlying SDK error for errors.Is / errors.As chains.
func (e *ProviderError) Unwrap() error {
	return e.Wrapped
}

// Retryable reports whether a failed invocation should be retried.
// Rate limits, timeouts, quota exhaustion, and unclassified server-side
// failures are transient; the rest are configuration problems that retrying
// cannot fix.
func (e *ProviderError) Retryable() bool {
	switch e.Category {
	case CategoryRateLimitExceeded, CategoryTimeout, CategoryQuotaExceeded:
		return true
	case CategoryUnknown:
		return e.StatusCode == 0 || e.StatusCode >= 500
	default:
		return false
	}
}

// CategoryOf extracts the category from an error chain.
// Returns CategoryUnknown for errors that are not ProviderErrors.
func CategoryOf(err error) Category {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryUnknown
}

// categorizeStatus maps an HTTP status code to an error category.
// Shared by providers whose SDKs surface status codes.
func categorizeStatus(status int) Category {
	switch status {
	case 401, 403:
		return CategoryAccessDenied
	case 402:
		return CategorySubscriptionRequired
	case 404:
		return CategoryModelNotFound
	case 408, 504:
		return CategoryTimeout
	case 429:
		return CategoryRateLimitExceeded
	default:
		return CategoryUnknown
	}
}
