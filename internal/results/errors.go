package results

import (
	"errors"
	"net/http"
)

// Domain errors for criterion result operations.
var (
	ErrNotFound  = errors.New("criterion result not found")
	ErrDuplicate = errors.New("criterion result already exists")
	// ErrResultInFlight rejects overrides against results that are still
	// pending or were skipped; only completed and failed results carry a
	// value a human can supersede.
	ErrResultInFlight = errors.New("criterion result is not overridable")
	ErrNoEvaluation   = errors.New("evaluation not found for result")
)

// MapHTTPStatus maps result domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoEvaluation) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrResultInFlight) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
