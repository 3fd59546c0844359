package criteria

import (
	"errors"
	"net/http"
)

// Domain errors for criteria set reads.
var (
	ErrNotFound = errors.New("criteria set not found")
	ErrEmptySet = errors.New("criteria set has no items")
)

// MapHTTPStatus maps criteria domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptySet) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
