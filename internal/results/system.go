package results

import (
	"context"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/scoring"
)

// System defines the public contract for criterion result operations.
type System interface {
	Handler() *Handler

	Find(ctx context.Context, id uuid.UUID) (*CriterionResult, error)
	ListByEvaluation(ctx context.Context, evaluationID uuid.UUID) ([]CriterionResult, error)
	Upsert(ctx context.Context, cmd UpsertCommand) (*CriterionResult, error)
	Override(ctx context.Context, id uuid.UUID, cmd OverrideCommand) (*CriterionResult, error)
	History(ctx context.Context, id uuid.UUID) ([]EditHistoryEntry, error)
	ScoringInputs(ctx context.Context, evaluationID uuid.UUID) ([]scoring.Item, error)
	Recompute(ctx context.Context, evaluationID uuid.UUID) (*float64, error)
}
