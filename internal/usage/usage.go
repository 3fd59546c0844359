// Package usage records per-invocation token usage, latency, cost, and
// categorized failures. Recording is strictly best-effort: a failed write is
// reported to the process log and swallowed, because accounting must never be
// able to abort the evaluation pipeline.
package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const maxMessageLength = 2000

// Entry is one usage record for an inference attempt, successful or not.
type Entry struct {
	EvaluationID     uuid.UUID
	CriterionID      uuid.UUID
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
	Success          bool
	EstimatedCost    *float64
}

// Failure is one categorized error record. CriterionID is nil for
// configuration-level failures that precede per-criterion work.
type Failure struct {
	EvaluationID uuid.UUID
	CriterionID  *uuid.UUID
	Category     string
	Message      string
	Attempt      int
}

// Recorder is the write contract for usage and error accounting.
// Implementations must not return errors to callers.
type Recorder interface {
	LogUsage(ctx context.Context, e Entry)
	LogError(ctx context.Context, f Failure)
}

func truncate(s string) string {
	if len(s) <= maxMessageLength {
		return s
	}
	return s[:maxMessageLength]
}
