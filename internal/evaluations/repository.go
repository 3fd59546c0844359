package evaluations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/criteria"
	"github.com/attestd/attest/internal/queue"
	"github.com/attestd/attest/internal/results"
	"github.com/attestd/attest/internal/settings"
	"github.com/attestd/attest/pkg/pagination"
	"github.com/attestd/attest/pkg/repository"
)

const columns = `id, name, status, document_id, doc_type_id, criteria_set_id, org_id,
	scoring_mode, failure_policy, claimed_by, claimed_at,
	completed_criteria, total_criteria, aggregate_score, created_at, updated_at`

type repo struct {
	db         *sql.DB
	criteria   criteria.System
	resolver   *settings.Resolver
	queue      queue.Queue
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an evaluation repository implementing the System interface.
func New(
	db *sql.DB,
	crit criteria.System,
	resolver *settings.Resolver,
	q queue.Queue,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		criteria:   crit,
		resolver:   resolver,
		queue:      q,
		logger:     logger.With("system", "evaluations"),
		pagination: pagination,
	}
}

func (r *repo) Handler(res results.System) *Handler {
	return NewHandler(r, res, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Evaluation], error) {
	page.Normalize(r.pagination)

	where, args := filters.clauses()

	var total int
	countQ := "SELECT COUNT(*) FROM evaluations" + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count evaluations: %w", err)
	}

	pageQ := fmt.Sprintf(
		"SELECT %s FROM evaluations%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		columns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.PageSize, page.Offset())

	evals, err := repository.QueryMany(ctx, r.db, pageQ, args, scanEvaluation)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}

	result := pagination.NewPageResult(evals, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	q := fmt.Sprintf("SELECT %s FROM evaluations WHERE id = $1", columns)

	e, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanEvaluation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) CreateDraft(ctx context.Context, cmd CreateCommand) (*Evaluation, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrEmptyName
	}

	q := fmt.Sprintf(`
		INSERT INTO evaluations(id, name)
		VALUES ($1, $2)
		RETURNING %s`, columns)

	e, err := repository.QueryOne(ctx, r.db, q, []any{uuid.New(), cmd.Name}, scanEvaluation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("evaluation drafted", "id", e.ID, "name", e.Name)
	return &e, nil
}

// Configure performs the one-shot draft -> pending transition. The status
// flip, the config snapshot, and the job enqueue commit in one transaction,
// so a successful configure produces exactly one queued job.
func (r *repo) Configure(ctx context.Context, id uuid.UUID, cmd ConfigureCommand) (*Evaluation, error) {
	resolved, err := r.resolver.Resolve(ctx, cmd.OrgID)
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}

	set, err := r.criteria.FindSet(ctx, cmd.CriteriaSetID)
	if err != nil {
		return nil, fmt.Errorf("load criteria set: %w", err)
	}

	q := fmt.Sprintf(`
		UPDATE evaluations
		SET status = 'pending',
		    document_id = $2,
		    doc_type_id = $3,
		    criteria_set_id = $4,
		    org_id = $5,
		    scoring_mode = $6,
		    failure_policy = $7,
		    total_criteria = $8,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING %s`, columns)

	var orgID *uuid.UUID
	if cmd.OrgID != uuid.Nil {
		orgID = &cmd.OrgID
	}

	args := []any{
		id,
		cmd.DocumentID,
		cmd.DocTypeID,
		cmd.CriteriaSetID,
		orgID,
		string(resolved.ScoringMode),
		string(resolved.FailurePolicy),
		len(set.Items),
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Evaluation, error) {
		ev, err := repository.QueryOne(ctx, tx, q, args, scanEvaluation)
		if err != nil {
			return Evaluation{}, err
		}

		if err := r.queue.Enqueue(ctx, tx, id); err != nil {
			return Evaluation{}, fmt.Errorf("enqueue job: %w", err)
		}

		return ev, nil
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.configureConflict(ctx, id)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"evaluation configured",
		"id", e.ID,
		"criteria_set_id", cmd.CriteriaSetID,
		"scoring_mode", resolved.ScoringMode,
		"total_criteria", e.TotalCount,
	)
	return &e, nil
}

// configureConflict distinguishes a missing evaluation from a non-draft one
// after the guarded update matched zero rows.
func (r *repo) configureConflict(ctx context.Context, id uuid.UUID) error {
	current, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: status is %s", ErrNotDraft, current.Status)
}

// Claim is the single-flight mechanism: an atomic conditional update guarded
// by the current status. Concurrent claims race at the database; exactly one
// matches, the rest observe zero rows and receive ErrClaimConflict.
func (r *repo) Claim(ctx context.Context, id uuid.UUID, workerID string) (*Evaluation, error) {
	q := fmt.Sprintf(`
		UPDATE evaluations
		SET status = 'processing',
		    claimed_by = $2,
		    claimed_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING %s`, columns)

	e, err := repository.QueryOne(ctx, r.db, q, []any{id, workerID}, scanEvaluation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClaimConflict
		}
		return nil, err
	}

	r.logger.Info("evaluation claimed", "id", id, "worker", workerID)
	return &e, nil
}

func (r *repo) Finalize(ctx context.Context, id uuid.UUID, status Status, aggregate *float64) error {
	if status != StatusCompleted && status != StatusFailed {
		return fmt.Errorf("%w: cannot finalize to %s", ErrInvalidStatus, status)
	}

	q := `
		UPDATE evaluations
		SET status = $2, aggregate_score = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'processing'`

	err := repository.ExecExpectOne(ctx, r.db, q, id, string(status), aggregate)
	if err == nil {
		r.logger.Info("evaluation finalized", "id", id, "status", status)
		return nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("finalize evaluation: %w", err)
	}

	// A late duplicate finalize against an already-terminal evaluation is a
	// logged no-op.
	current, findErr := r.Find(ctx, id)
	if findErr != nil {
		return findErr
	}
	if current.Status.Terminal() {
		r.logger.Warn(
			"duplicate finalize ignored",
			"id", id,
			"status", current.Status,
			"requested", status,
		)
		return nil
	}

	return fmt.Errorf("%w: finalize from %s", ErrInvalidStatus, current.Status)
}

func (r *repo) Progress(ctx context.Context, id uuid.UUID) (*Progress, error) {
	e, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	p := ProgressOf(e)
	return &p, nil
}

// ReclaimStale resets evaluations stuck in processing past the staleness
// window back to pending and re-enqueues them. Only rows with no recent
// criterion result writes qualify — a slow but live worker keeps its claim.
func (r *repo) ReclaimStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	q := `
		UPDATE evaluations
		SET status = 'pending',
		    claimed_by = NULL,
		    claimed_at = NULL,
		    updated_at = NOW()
		WHERE status = 'processing'
		  AND claimed_at < $1
		  AND NOT EXISTS (
			SELECT 1 FROM criterion_results cr
			WHERE cr.evaluation_id = evaluations.id
			  AND cr.updated_at >= $1
		  )
		RETURNING id`

	ids, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]uuid.UUID, error) {
		reclaimed, err := repository.QueryMany(ctx, tx, q, []any{cutoff}, scanID)
		if err != nil {
			return nil, err
		}

		for _, id := range reclaimed {
			if err := r.queue.Enqueue(ctx, tx, id); err != nil {
				return nil, fmt.Errorf("re-enqueue %s: %w", id, err)
			}
		}

		return reclaimed, nil
	})
	if err != nil {
		return 0, fmt.Errorf("reclaim stale evaluations: %w", err)
	}

	for _, id := range ids {
		r.logger.Warn("stale claim reclaimed", "id", id, "older_than", olderThan)
	}

	return len(ids), nil
}

func scanID(s repository.Scanner) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.Scan(&id)
	return id, err
}
