package evaluations

import (
	"fmt"
	"net/url"

	"github.com/attestd/attest/internal/scoring"
	"github.com/attestd/attest/pkg/repository"
)

// Filters contains optional filtering criteria for evaluation queries.
// Nil fields are ignored. Status uses exact matching; Name uses
// case-insensitive contains matching.
type Filters struct {
	Status *string `json:"status,omitempty"`
	Name   *string `json:"name,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	return f
}

// clauses renders the filters as a WHERE fragment with positional args.
func (f Filters) clauses() (string, []any) {
	var (
		where string
		args  []any
	)

	add := func(clause string, arg any) {
		args = append(args, arg)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}

	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.Name != nil {
		add("name ILIKE '%%' || $%d || '%%'", *f.Name)
	}

	return where, args
}

func scanEvaluation(s repository.Scanner) (Evaluation, error) {
	var (
		e             Evaluation
		scoringMode   *string
		failurePolicy *string
	)

	err := s.Scan(
		&e.ID,
		&e.Name,
		&e.Status,
		&e.DocumentID,
		&e.DocTypeID,
		&e.CriteriaSetID,
		&e.OrgID,
		&scoringMode,
		&failurePolicy,
		&e.ClaimedBy,
		&e.ClaimedAt,
		&e.CompletedCount,
		&e.TotalCount,
		&e.AggregateScore,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return e, err
	}

	e.ScoringMode = parseModePtr(scoringMode)
	e.FailurePolicy = parsePolicyPtr(failurePolicy)
	return e, nil
}

func parseModePtr(s *string) *scoring.Mode {
	if s == nil {
		return nil
	}
	mode, err := scoring.ParseMode(*s)
	if err != nil {
		return nil
	}
	return &mode
}

func parsePolicyPtr(s *string) *scoring.FailurePolicy {
	if s == nil {
		return nil
	}
	policy, err := scoring.ParseFailurePolicy(*s)
	if err != nil {
		return nil
	}
	return &policy
}
