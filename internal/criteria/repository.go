package criteria

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/attestd/attest/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a criteria repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "criteria"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) FindSet(ctx context.Context, id uuid.UUID) (*Set, error) {
	setQ := `
		SELECT id, name, created_at
		FROM criteria_sets
		WHERE id = $1`

	set, err := repository.QueryOne(ctx, r.db, setQ, []any{id}, scanSet)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	itemsQ := `
		SELECT id, set_id, position, weight, criterion_text, criterion_type
		FROM criteria_items
		WHERE set_id = $1
		ORDER BY position`

	items, err := repository.QueryMany(ctx, r.db, itemsQ, []any{id}, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query criteria items: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrEmptySet
	}

	set.Items = items
	return &set, nil
}

func scanSet(s repository.Scanner) (Set, error) {
	var set Set
	err := s.Scan(&set.ID, &set.Name, &set.CreatedAt)
	return set, err
}

func scanItem(s repository.Scanner) (Item, error) {
	var item Item
	err := s.Scan(
		&item.ID,
		&item.SetID,
		&item.Position,
		&item.Weight,
		&item.Text,
		&item.Type,
	)
	return item, err
}
