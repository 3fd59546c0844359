package evaluations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/results"
	"github.com/attestd/attest/pkg/pagination"
)

// System defines the public contract for evaluation domain operations.
// The handler takes the result system as a collaborator so the polling
// endpoint can return results alongside the evaluation in one response.
type System interface {
	Handler(res results.System) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Evaluation], error)

	Find(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	CreateDraft(ctx context.Context, cmd CreateCommand) (*Evaluation, error)
	Configure(ctx context.Context, id uuid.UUID, cmd ConfigureCommand) (*Evaluation, error)
	Claim(ctx context.Context, id uuid.UUID, workerID string) (*Evaluation, error)
	Finalize(ctx context.Context, id uuid.UUID, status Status, aggregate *float64) error
	Progress(ctx context.Context, id uuid.UUID) (*Progress, error)
	ReclaimStale(ctx context.Context, olderThan time.Duration) (int, error)
}
