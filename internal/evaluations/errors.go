package evaluations

import (
	"errors"
	"net/http"
)

// Domain errors for evaluation operations.
var (
	ErrNotFound      = errors.New("evaluation not found")
	ErrDuplicate     = errors.New("evaluation already exists")
	ErrInvalidStatus = errors.New("invalid evaluation status")
	ErrEmptyName     = errors.New("evaluation name cannot be empty")
	// ErrNotDraft rejects configuration of an evaluation that has already
	// been configured. Configure is one-shot; callers must not retry.
	ErrNotDraft = errors.New("evaluation is not a draft")
	// ErrClaimConflict signals a lost claim race. It is an internal control
	// signal, not a failure: the losing worker acknowledges the message and
	// exits cleanly.
	ErrClaimConflict = errors.New("evaluation already claimed")
)

// MapHTTPStatus maps evaluation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrNotDraft) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrEmptyName) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
