package scoring

import "errors"

// Sentinel errors for scoring operations.
var (
	ErrInvalidMode    = errors.New("invalid scoring mode")
	ErrInvalidPolicy  = errors.New("invalid failure policy")
	ErrMalformedScore = errors.New("malformed score in completion")
	ErrOutOfBand      = errors.New("score outside the configured bands")
	ErrNoResults      = errors.New("no scorable results")
)
