// Package results implements the criterion result domain: the per-criterion
// assessment rows written by the worker holding an evaluation's claim, the
// immutable edit history behind human overrides, and the explicit aggregate
// recompute. Exactly one row exists per (evaluation, criterion) pair,
// enforced by upsert on that key.
package results

import (
	"time"

	"github.com/google/uuid"
)

// Status represents a criterion result's state.
type Status string

// Criterion result states. Skipped marks items never attempted because the
// evaluation was cancelled between iterations.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Terminal reports whether the result can no longer change through the
// pipeline (human overrides remain possible for completed and failed).
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusSkipped
}

// Overridable reports whether a human may override the result. In-flight and
// skipped results cannot be edited.
func (s Status) Overridable() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Citation is an immutable reference into the source document.
type Citation struct {
	DocumentID uuid.UUID `json:"document_id"`
	ChunkRef   string    `json:"chunk_ref"`
	Excerpt    string    `json:"excerpt"`
}

// CriterionResult is one criterion's assessment within an evaluation.
// RawScore is mode-dependent ("pass"/"fail" or a band label);
// NormalizedScore is always on the 0-100 scale.
type CriterionResult struct {
	ID                uuid.UUID  `json:"id"`
	EvaluationID      uuid.UUID  `json:"evaluation_id"`
	CriterionID       uuid.UUID  `json:"criterion_id"`
	Status            Status     `json:"status"`
	RawScore          *string    `json:"raw_score"`
	NormalizedScore   *float64   `json:"normalized_score"`
	Justification     string     `json:"justification"`
	Citations         []Citation `json:"citations"`
	AttemptCount      int        `json:"attempt_count"`
	LastErrorCategory *string    `json:"last_error_category"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EditHistoryEntry is one append-only audit record. The earliest entry for a
// result always preserves the original AI-produced value.
type EditHistoryEntry struct {
	ID                    uuid.UUID `json:"id"`
	CriterionResultID     uuid.UUID `json:"criterion_result_id"`
	PreviousScore         *float64  `json:"previous_score"`
	PreviousJustification string    `json:"previous_justification"`
	NewScore              *float64  `json:"new_score"`
	NewJustification      string    `json:"new_justification"`
	EditedBy              string    `json:"edited_by"`
	EditedAt              time.Time `json:"edited_at"`
}

// UpsertCommand carries a terminal outcome for one criterion, written by the
// orchestrator. Exactly one upsert per pair transitions the row out of
// pending and increments the evaluation's completed counter.
type UpsertCommand struct {
	EvaluationID      uuid.UUID
	CriterionID       uuid.UUID
	Status            Status
	RawScore          *string
	NormalizedScore   *float64
	Justification     string
	Citations         []Citation
	AttemptCount      int
	LastErrorCategory *string
}

// OverrideCommand carries a human edit to a terminal result.
type OverrideCommand struct {
	Score         *float64 `json:"score"`
	Justification string   `json:"justification" validate:"required"`
	EditedBy      string   `json:"edited_by" validate:"required"`
}

// snapshotEntry captures the pre-edit state of a result as the history entry
// an override appends before mutating the row.
func snapshotEntry(current *CriterionResult, cmd OverrideCommand) EditHistoryEntry {
	return EditHistoryEntry{
		CriterionResultID:     current.ID,
		PreviousScore:         current.NormalizedScore,
		PreviousJustification: current.Justification,
		NewScore:              cmd.Score,
		NewJustification:      cmd.Justification,
		EditedBy:              cmd.EditedBy,
	}
}
