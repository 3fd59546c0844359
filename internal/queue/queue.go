// Package queue implements a durable at-least-once job queue on the
// relational store. Workers lease messages with FOR UPDATE SKIP LOCKED and a
// visibility timeout; an unacknowledged message becomes receivable again when
// its lease expires. Delivery is at-least-once by design — the evaluation
// claim CAS makes duplicate delivery harmless.
package queue

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/attestd/attest/pkg/repository"
)

// ErrEmpty signals that no message is currently receivable.
var ErrEmpty = errors.New("queue is empty")

// Message is one leased job: evaluate the referenced evaluation.
type Message struct {
	ID           uuid.UUID `json:"id"`
	EvaluationID uuid.UUID `json:"evaluation_id"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
	ReceiveCount int       `json:"receive_count"`
}

// Queue is the job transport contract between the configure path and the
// worker pool.
type Queue interface {
	// Enqueue inserts a job inside the caller's transaction so the enqueue
	// commits atomically with the evaluation's status transition.
	Enqueue(ctx context.Context, tx repository.Executor, evaluationID uuid.UUID) error
	// Receive leases the next available message for the visibility window.
	// Returns ErrEmpty when nothing is receivable.
	Receive(ctx context.Context, visibility time.Duration) (*Message, error)
	// Delete acknowledges a message, removing it permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgQueue struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Queue backed by the jobs table.
func New(db *sql.DB, logger *slog.Logger) Queue {
	return &pgQueue{
		db:     db,
		logger: logger.With("system", "queue"),
	}
}

func (q *pgQueue) Enqueue(ctx context.Context, tx repository.Executor, evaluationID uuid.UUID) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO jobs(id, evaluation_id) VALUES ($1, $2)`,
		uuid.New(),
		evaluationID,
	)
	return err
}

func (q *pgQueue) Receive(ctx context.Context, visibility time.Duration) (*Message, error) {
	query := `
		UPDATE jobs
		SET locked_until = NOW() + $1::interval,
		    receive_count = receive_count + 1
		WHERE id = (
			SELECT id FROM jobs
			WHERE available_at <= NOW()
			  AND (locked_until IS NULL OR locked_until < NOW())
			ORDER BY enqueued_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, evaluation_id, enqueued_at, receive_count`

	interval := visibility.String()

	m, err := repository.QueryOne(ctx, q.db, query, []any{interval}, scanMessage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmpty
		}
		return nil, err
	}

	return &m, nil
}

func (q *pgQueue) Delete(ctx context.Context, id uuid.UUID) error {
	return repository.ExecExpectOne(
		ctx, q.db,
		"DELETE FROM jobs WHERE id = $1",
		id,
	)
}

func scanMessage(s repository.Scanner) (Message, error) {
	var m Message
	err := s.Scan(&m.ID, &m.EvaluationID, &m.EnqueuedAt, &m.ReceiveCount)
	return m, err
}
