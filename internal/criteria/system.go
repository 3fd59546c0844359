package criteria

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for criteria set reads.
type System interface {
	Handler() *Handler

	FindSet(ctx context.Context, id uuid.UUID) (*Set, error)
}
