// Package retrieval defines the context provider contract: grounded text
// chunks with citation references for a document and criterion pair. The
// provider itself is an external collaborator; this package carries its
// interface, error wrapping, and an HTTP client implementation.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrRetrieval wraps any context provider failure. Orchestrator retry policy
// keys off this sentinel.
var ErrRetrieval = errors.New("context retrieval failed")

// Chunk is one grounded text excerpt with its opaque citation locator.
type Chunk struct {
	Text string `json:"text"`
	Ref  string `json:"chunk_ref"`
}

// Provider returns grounding chunks for a criterion against a document.
type Provider interface {
	Retrieve(ctx context.Context, documentID uuid.UUID, criterionText string, topK int) ([]Chunk, error)
}

// wrap tags an underlying failure with the retrieval sentinel.
func wrap(err error) error {
	return fmt.Errorf("%w: %w", ErrRetrieval, err)
}
