package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/attestd/attest/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the org_settings table.
func NewStore(db *sql.DB, logger *slog.Logger) Store {
	return &repo{
		db:     db,
		logger: logger.With("system", "settings"),
	}
}

func (r *repo) FindOverride(ctx context.Context, orgID uuid.UUID) (*Override, error) {
	q := `
		SELECT org_id, scoring_mode, failure_policy, numeric_score_visible, prompt_templates, updated_at
		FROM org_settings
		WHERE org_id = $1`

	o, err := repository.QueryOne(ctx, r.db, q, []any{orgID}, scanOverride)
	if err != nil {
		return nil, repository.MapError(err, ErrOverrideNotFound, ErrOverrideNotFound)
	}
	return &o, nil
}

func scanOverride(s repository.Scanner) (Override, error) {
	var (
		o         Override
		templates []byte
	)
	err := s.Scan(
		&o.OrgID,
		&o.ScoringMode,
		&o.FailurePolicy,
		&o.NumericScoreVisible,
		&templates,
		&o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	if len(templates) > 0 {
		if err := json.Unmarshal(templates, &o.TemplateOverrides); err != nil {
			return o, fmt.Errorf("decode prompt templates: %w", err)
		}
	}
	return o, nil
}
