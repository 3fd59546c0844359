package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/attestd/attest/pkg/repository"
)

var (
	errMissing   = errors.New("evaluation not found")
	errDuplicate = errors.New("evaluation already exists")
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows maps to not found", sql.ErrNoRows, errMissing},
		{"wrapped no rows maps to not found", fmt.Errorf("find: %w", sql.ErrNoRows), errMissing},
		{"unique violation maps to duplicate", &pgconn.PgError{Code: "23505"}, errDuplicate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapError(tc.in, errMissing, errDuplicate)
			if tc.want == nil {
				if got != nil {
					t.Errorf("MapError() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Errorf("MapError() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("connection reset")
	if got := repository.MapError(original, errMissing, errDuplicate); got != original {
		t.Errorf("MapError() = %v, want original error", got)
	}

	fkErr := &pgconn.PgError{Code: "23503"}
	if got := repository.MapError(fkErr, errMissing, errDuplicate); got != error(fkErr) {
		t.Errorf("MapError() rewrote a non-duplicate pg error: %v", got)
	}
}
