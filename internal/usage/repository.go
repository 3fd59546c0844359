package usage

import (
	"context"
	"database/sql"
	"log/slog"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Recorder backed by the usage_log and error_log tables.
func New(db *sql.DB, logger *slog.Logger) Recorder {
	return &repo{
		db:     db,
		logger: logger.With("system", "usage"),
	}
}

func (r *repo) LogUsage(ctx context.Context, e Entry) {
	q := `
		INSERT INTO usage_log(evaluation_id, criterion_id, prompt_tokens, completion_tokens, latency_ms, success, estimated_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(
		ctx, q,
		e.EvaluationID,
		e.CriterionID,
		e.PromptTokens,
		e.CompletionTokens,
		e.Latency.Milliseconds(),
		e.Success,
		e.EstimatedCost,
	)
	if err != nil {
		r.logger.Warn(
			"usage log write failed",
			"evaluation_id", e.EvaluationID,
			"criterion_id", e.CriterionID,
			"error", err,
		)
	}
}

func (r *repo) LogError(ctx context.Context, f Failure) {
	q := `
		INSERT INTO error_log(evaluation_id, criterion_id, category, message, attempt)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(
		ctx, q,
		f.EvaluationID,
		f.CriterionID,
		f.Category,
		truncate(f.Message),
		f.Attempt,
	)
	if err != nil {
		r.logger.Warn(
			"error log write failed",
			"evaluation_id", f.EvaluationID,
			"category", f.Category,
			"error", err,
		)
	}
}
