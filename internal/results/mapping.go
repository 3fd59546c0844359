package results

import (
	"encoding/json"
	"fmt"

	"github.com/attestd/attest/pkg/repository"
)

func scanResult(s repository.Scanner) (CriterionResult, error) {
	var (
		r         CriterionResult
		status    string
		citations []byte
	)

	if err := s.Scan(
		&r.ID,
		&r.EvaluationID,
		&r.CriterionID,
		&status,
		&r.RawScore,
		&r.NormalizedScore,
		&r.Justification,
		&citations,
		&r.AttemptCount,
		&r.LastErrorCategory,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return r, err
	}

	r.Status = Status(status)
	if len(citations) > 0 {
		if err := json.Unmarshal(citations, &r.Citations); err != nil {
			return r, fmt.Errorf("unmarshal citations: %w", err)
		}
	}

	return r, nil
}

func scanHistoryEntry(s repository.Scanner) (EditHistoryEntry, error) {
	var e EditHistoryEntry

	if err := s.Scan(
		&e.ID,
		&e.CriterionResultID,
		&e.PreviousScore,
		&e.PreviousJustification,
		&e.NewScore,
		&e.NewJustification,
		&e.EditedBy,
		&e.EditedAt,
	); err != nil {
		return e, err
	}

	return e, nil
}
