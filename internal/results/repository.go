package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/scoring"
	"github.com/attestd/attest/pkg/repository"
)

const columns = `id, evaluation_id, criterion_id, status, raw_score, normalized_score,
	justification, citations, attempt_count, last_error_category, created_at, updated_at`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a criterion result repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "results"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*CriterionResult, error) {
	q := fmt.Sprintf("SELECT %s FROM criterion_results WHERE id = $1", columns)

	res, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanResult)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &res, nil
}

func (r *repo) ListByEvaluation(ctx context.Context, evaluationID uuid.UUID) ([]CriterionResult, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM criterion_results
		WHERE evaluation_id = $1
		ORDER BY created_at`, columns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{evaluationID}, scanResult)
	if err != nil {
		return nil, fmt.Errorf("query criterion results: %w", err)
	}
	return items, nil
}

// Upsert writes a terminal outcome for one (evaluation, criterion) pair and
// increments the evaluation's completed counter in the same transaction.
// The conflict update is guarded by the row's current status, so redelivered
// work that re-attempts an already-terminal criterion is a no-op: no second
// row, no double increment.
func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*CriterionResult, error) {
	citationsJSON, err := json.Marshal(cmd.Citations)
	if err != nil {
		return nil, fmt.Errorf("marshal citations: %w", err)
	}

	upsertQ := fmt.Sprintf(`
		INSERT INTO criterion_results(
			id, evaluation_id, criterion_id, status, raw_score, normalized_score,
			justification, citations, attempt_count, last_error_category
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (evaluation_id, criterion_id) DO UPDATE SET
			status = EXCLUDED.status,
			raw_score = EXCLUDED.raw_score,
			normalized_score = EXCLUDED.normalized_score,
			justification = EXCLUDED.justification,
			citations = EXCLUDED.citations,
			attempt_count = EXCLUDED.attempt_count,
			last_error_category = EXCLUDED.last_error_category,
			updated_at = NOW()
		WHERE criterion_results.status = 'pending'
		RETURNING %s`, columns)

	upsertArgs := []any{
		uuid.New(),
		cmd.EvaluationID,
		cmd.CriterionID,
		string(cmd.Status),
		cmd.RawScore,
		cmd.NormalizedScore,
		cmd.Justification,
		citationsJSON,
		cmd.AttemptCount,
		cmd.LastErrorCategory,
	}

	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (CriterionResult, error) {
		result, err := repository.QueryOne(ctx, tx, upsertQ, upsertArgs, scanResult)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Already terminal: duplicate delivery. Return the existing
				// row without touching the counter.
				return repository.QueryOne(
					ctx, tx,
					fmt.Sprintf(`SELECT %s FROM criterion_results
						WHERE evaluation_id = $1 AND criterion_id = $2`, columns),
					[]any{cmd.EvaluationID, cmd.CriterionID},
					scanResult,
				)
			}
			return CriterionResult{}, fmt.Errorf("upsert criterion result: %w", err)
		}

		// Skipped items are accounted for in the row but not in progress.
		if cmd.Status == StatusCompleted || cmd.Status == StatusFailed {
			if err := repository.ExecExpectOne(
				ctx, tx,
				`UPDATE evaluations
				SET completed_criteria = completed_criteria + 1, updated_at = NOW()
				WHERE id = $1`,
				cmd.EvaluationID,
			); err != nil {
				return CriterionResult{}, fmt.Errorf("increment completed count: %w", err)
			}
		}

		return result, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &res, nil
}

// Override appends the pre-edit snapshot to the history, then replaces the
// result's current value. The original AI output is therefore always
// reconstructible as the earliest history entry.
func (r *repo) Override(ctx context.Context, id uuid.UUID, cmd OverrideCommand) (*CriterionResult, error) {
	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (CriterionResult, error) {
		lockQ := fmt.Sprintf("SELECT %s FROM criterion_results WHERE id = $1 FOR UPDATE", columns)

		current, err := repository.QueryOne(ctx, tx, lockQ, []any{id}, scanResult)
		if err != nil {
			return CriterionResult{}, err
		}

		if !current.Status.Overridable() {
			return CriterionResult{}, fmt.Errorf("%w: status is %s", ErrResultInFlight, current.Status)
		}

		entry := snapshotEntry(&current, cmd)
		if err := repository.ExecExpectOne(
			ctx, tx,
			`INSERT INTO edit_history(
				id, criterion_result_id, previous_score, previous_justification,
				new_score, new_justification, edited_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(),
			entry.CriterionResultID,
			entry.PreviousScore,
			entry.PreviousJustification,
			entry.NewScore,
			entry.NewJustification,
			entry.EditedBy,
		); err != nil {
			return CriterionResult{}, fmt.Errorf("append edit history: %w", err)
		}

		// The raw label reflects model output; once a human edits the
		// score it no longer applies, so it is cleared rather than left
		// to contradict the new value.
		updateQ := fmt.Sprintf(`
			UPDATE criterion_results
			SET normalized_score = $2, justification = $3, raw_score = NULL, updated_at = NOW()
			WHERE id = $1
			RETURNING %s`, columns)

		return repository.QueryOne(ctx, tx, updateQ, []any{id, cmd.Score, cmd.Justification}, scanResult)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"criterion result overridden",
		"id", id,
		"edited_by", cmd.EditedBy,
	)
	return &res, nil
}

func (r *repo) History(ctx context.Context, id uuid.UUID) ([]EditHistoryEntry, error) {
	q := `
		SELECT id, criterion_result_id, previous_score, previous_justification,
			new_score, new_justification, edited_by, edited_at
		FROM edit_history
		WHERE criterion_result_id = $1
		ORDER BY edited_at, id`

	entries, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanHistoryEntry)
	if err != nil {
		return nil, fmt.Errorf("query edit history: %w", err)
	}
	return entries, nil
}

// ScoringInputs loads the persisted per-criterion scoring view for one
// evaluation: terminal status, normalized score, and the item weight from
// the snapshot criteria set.
func (r *repo) ScoringInputs(ctx context.Context, evaluationID uuid.UUID) ([]scoring.Item, error) {
	q := `
		SELECT cr.status, cr.normalized_score, ci.weight
		FROM criterion_results cr
		JOIN criteria_items ci ON ci.id = cr.criterion_id
		WHERE cr.evaluation_id = $1`

	items, err := repository.QueryMany(ctx, r.db, q, []any{evaluationID}, scanScoringItem)
	if err != nil {
		return nil, fmt.Errorf("query scoring inputs: %w", err)
	}
	return items, nil
}

// Recompute recalculates the parent evaluation's aggregate from the
// persisted results under its snapshot scoring settings. Only ever invoked
// explicitly; human overrides never shift the aggregate on their own.
func (r *repo) Recompute(ctx context.Context, evaluationID uuid.UUID) (*float64, error) {
	items, err := r.ScoringInputs(ctx, evaluationID)
	if err != nil {
		return nil, err
	}

	aggregate, err := scoring.Aggregate(items)
	if err != nil {
		return nil, err
	}

	if err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE evaluations
		SET aggregate_score = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('completed', 'failed')`,
		evaluationID,
		aggregate,
	); err != nil {
		return nil, repository.MapError(err, ErrNoEvaluation, ErrDuplicate)
	}

	r.logger.Info("aggregate recomputed", "evaluation_id", evaluationID, "aggregate", aggregate)
	return &aggregate, nil
}

func scanScoringItem(s repository.Scanner) (scoring.Item, error) {
	var (
		item       scoring.Item
		status     string
		normalized *float64
	)
	if err := s.Scan(&status, &normalized, &item.Weight); err != nil {
		return item, err
	}
	item.Status = scoring.ItemStatus(status)
	if normalized != nil {
		item.Normalized = *normalized
	}
	return item, nil
}
