// Package worker implements the evaluation processing side: a pool of
// stateless workers consuming the job queue, the per-criterion assessment
// orchestrator, and the sweeper that reclaims stale claims. Workers hold no
// state of their own; ownership of an evaluation lives entirely in the claim
// row, so any worker can pick up any job.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/criteria"
	"github.com/attestd/attest/internal/evaluations"
	"github.com/attestd/attest/internal/metrics"
	"github.com/attestd/attest/internal/queue"
	"github.com/attestd/attest/internal/scoring"
	"github.com/attestd/attest/internal/usage"
)

// EvaluationStore is the subset of the evaluation system the pool drives.
type EvaluationStore interface {
	Claim(ctx context.Context, id uuid.UUID, workerID string) (*evaluations.Evaluation, error)
	Finalize(ctx context.Context, id uuid.UUID, status evaluations.Status, aggregate *float64) error
	ReclaimStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// CriteriaStore loads the criteria set a claimed evaluation snapshotted.
type CriteriaStore interface {
	FindSet(ctx context.Context, id uuid.UUID) (*criteria.Set, error)
}

// ResultReader supplies the persisted scoring view the pool finalizes from.
type ResultReader interface {
	ScoringInputs(ctx context.Context, evaluationID uuid.UUID) ([]scoring.Item, error)
}

// Pool runs N workers against the job queue until its context is cancelled.
type Pool struct {
	cfg      Config
	queue    queue.Queue
	evals    EvaluationStore
	criteria CriteriaStore
	orch     *Orchestrator
	results  ResultReader
	recorder usage.Recorder
	host     string
	logger   *slog.Logger
}

// NewPool wires a worker pool over the queue and evaluation systems.
func NewPool(
	cfg Config,
	q queue.Queue,
	evals EvaluationStore,
	crit CriteriaStore,
	orch *Orchestrator,
	res ResultReader,
	recorder usage.Recorder,
	logger *slog.Logger,
) *Pool {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.NewString()[:8]
	}

	return &Pool{
		cfg:      cfg,
		queue:    q,
		evals:    evals,
		criteria: crit,
		orch:     orch,
		results:  res,
		recorder: recorder,
		host:     host,
		logger:   logger.With("system", "worker"),
	}
}

// Run starts the configured number of workers and blocks until the context
// is cancelled and every worker has drained.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for i := range p.cfg.Workers {
		workerID := fmt.Sprintf("%s-%d", p.host, i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx, workerID)
		}()
	}

	wg.Wait()
	p.logger.Info("worker pool drained")
}

func (p *Pool) work(ctx context.Context, workerID string) {
	logger := p.logger.With("worker", workerID)
	logger.Info("worker started")

	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := p.queue.Receive(ctx, p.cfg.Visibility)
		if err != nil {
			if !errors.Is(err, queue.ErrEmpty) && ctx.Err() == nil {
				logger.Warn("queue receive failed", "error", err)
			}
			if !p.idle(ctx) {
				return
			}
			continue
		}

		p.handle(ctx, workerID, logger, msg)
	}
}

// handle processes one leased message end to end. The message is deleted
// only once the evaluation reached a terminal row state; any interruption
// before that leaves the lease to expire and the message to redeliver.
func (p *Pool) handle(ctx context.Context, workerID string, logger *slog.Logger, msg *queue.Message) {
	eval, err := p.evals.Claim(ctx, msg.EvaluationID, workerID)
	if err != nil {
		if errors.Is(err, evaluations.ErrClaimConflict) {
			// Another worker owns it, or it already finished: the
			// duplicate delivery is spent.
			p.ack(ctx, logger, msg)
			return
		}
		logger.Error("claim failed", "evaluation_id", msg.EvaluationID, "error", err)
		return
	}

	logger.Info(
		"evaluation claimed",
		"evaluation_id", eval.ID,
		"receive_count", msg.ReceiveCount,
	)

	set, err := p.criteria.FindSet(ctx, *eval.CriteriaSetID)
	if err != nil {
		if errors.Is(err, criteria.ErrNotFound) || errors.Is(err, criteria.ErrEmptySet) {
			// The snapshot references a set that no longer loads; nothing
			// a retry can fix.
			p.recorder.LogError(ctx, usage.Failure{
				EvaluationID: eval.ID,
				Category:     "configuration_error",
				Message:      err.Error(),
			})
			p.finalize(ctx, logger, eval, evaluations.StatusFailed, nil)
			p.ack(ctx, logger, msg)
			return
		}
		// A transient read failure; the lease expires and the message
		// redelivers.
		logger.Error("criteria load failed", "evaluation_id", eval.ID, "error", err)
		return
	}

	if _, err := p.orch.Process(ctx, eval, set); err != nil {
		logger.Error(
			"processing interrupted, leaving message for redelivery",
			"evaluation_id", eval.ID,
			"error", err,
		)
		return
	}

	// Finalize from the persisted rows, not the in-memory run: after a
	// redelivery the surviving rows of an earlier attempt are part of the
	// evaluation's outcome too. Cancellation still finalizes early, so the
	// read must outlive the worker context.
	persisted, err := p.results.ScoringInputs(context.WithoutCancel(ctx), eval.ID)
	if err != nil {
		logger.Error(
			"scoring inputs read failed, leaving message for redelivery",
			"evaluation_id", eval.ID,
			"error", err,
		)
		return
	}

	status := evaluations.StatusCompleted
	if scoring.Outcome(*eval.FailurePolicy, persisted) == scoring.ItemFailed {
		status = evaluations.StatusFailed
	}

	var aggregate *float64
	if score, err := scoring.Aggregate(persisted); err == nil {
		aggregate = &score
	}

	if !p.finalize(ctx, logger, eval, status, aggregate) {
		return
	}
	p.ack(ctx, logger, msg)
}

// finalize commits the terminal transition, reporting whether the message
// may be acknowledged.
func (p *Pool) finalize(
	ctx context.Context,
	logger *slog.Logger,
	eval *evaluations.Evaluation,
	status evaluations.Status,
	aggregate *float64,
) bool {
	ctx = context.WithoutCancel(ctx)
	if err := p.evals.Finalize(ctx, eval.ID, status, aggregate); err != nil {
		logger.Error("finalize failed", "evaluation_id", eval.ID, "error", err)
		return false
	}

	metrics.EvaluationsProcessed.WithLabelValues(string(status)).Inc()
	logger.Info(
		"evaluation finalized",
		"evaluation_id", eval.ID,
		"status", status,
		"aggregate", aggregate,
	)
	return true
}

func (p *Pool) ack(ctx context.Context, logger *slog.Logger, msg *queue.Message) {
	if err := p.queue.Delete(context.WithoutCancel(ctx), msg.ID); err != nil {
		// Lease expiry redelivers; the claim CAS absorbs the duplicate.
		logger.Warn("message ack failed", "message_id", msg.ID, "error", err)
	}
}

// idle waits one poll interval, reporting false when the context ended.
func (p *Pool) idle(ctx context.Context) bool {
	timer := time.NewTimer(p.cfg.PollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
