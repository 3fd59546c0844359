// Package evaluations implements the evaluation domain: the top-level job
// entity, its persisted state machine, the worker claim protocol, and the
// polling read surface. An evaluation is one document scored against one
// criteria set; all cross-worker coordination happens through conditional
// updates on its row.
package evaluations

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/scoring"
)

// Status represents an evaluation's position in its lifecycle.
type Status string

// Evaluation lifecycle states.
const (
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var statuses = []Status{
	StatusDraft,
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

// transitions enumerates every legal forward edge. The sweeper's
// processing -> pending reclaim is the single sanctioned backward edge.
var transitions = map[Status][]Status{
	StatusDraft:      {StatusPending},
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusPending},
}

// ParseStatus validates a string as a known evaluation status.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known status value.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// Evaluation represents one document scored against one criteria set.
// DocumentID, DocTypeID, and CriteriaSetID are all-or-nothing: set together
// by Configure, nil only while the evaluation is a draft. ScoringMode and
// FailurePolicy are resolved-config snapshots taken at configure time.
// OrgID records which organization was resolved; nil means system defaults.
type Evaluation struct {
	ID             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	Status         Status                 `json:"status"`
	DocumentID     *uuid.UUID             `json:"document_id"`
	DocTypeID      *uuid.UUID             `json:"doc_type_id"`
	CriteriaSetID  *uuid.UUID             `json:"criteria_set_id"`
	OrgID          *uuid.UUID             `json:"org_id"`
	ScoringMode    *scoring.Mode          `json:"scoring_mode"`
	FailurePolicy  *scoring.FailurePolicy `json:"failure_policy"`
	ClaimedBy      *string                `json:"claimed_by"`
	ClaimedAt      *time.Time             `json:"claimed_at"`
	CompletedCount int                    `json:"completed_criteria_count"`
	TotalCount     int                    `json:"total_criteria_count"`
	AggregateScore *float64               `json:"aggregate_score"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ConfigureCommand carries the one-shot configuration for a draft.
// OrgID selects the organization whose resolved settings are snapshotted;
// the zero UUID resolves to system defaults.
type ConfigureCommand struct {
	DocumentID    uuid.UUID `json:"document_id" validate:"required"`
	DocTypeID     uuid.UUID `json:"doc_type_id" validate:"required"`
	CriteriaSetID uuid.UUID `json:"criteria_set_id" validate:"required"`
	OrgID         uuid.UUID `json:"org_id"`
}

// CreateCommand carries the data needed to create a new draft.
type CreateCommand struct {
	Name string `json:"name" validate:"required"`
}

// Progress reports completion-derived progress for a polling client.
// Percent is derived purely from the row counters; no separate bookkeeping.
type Progress struct {
	Percent        float64 `json:"percent"`
	CompletedCount int     `json:"completed_count"`
	TotalCount     int     `json:"total_count"`
}

// ProgressOf derives the progress view from an evaluation's counters.
func ProgressOf(e *Evaluation) Progress {
	p := Progress{
		CompletedCount: e.CompletedCount,
		TotalCount:     e.TotalCount,
	}
	if e.TotalCount > 0 {
		p.Percent = float64(e.CompletedCount) / float64(e.TotalCount) * 100
	}
	return p
}
