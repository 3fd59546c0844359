// Package scoring implements the two result semantics an evaluation can be
// configured with (boolean pass/fail and five-band categorical) and the
// weighted aggregation of per-criterion results into an overall score.
package scoring

import (
	"encoding/json"
	"slices"
)

// Mode represents the scoring semantics snapshotted onto an evaluation
// when it is configured.
type Mode string

// Valid scoring modes.
const (
	ModeBoolean     Mode = "boolean"
	ModeCategorical Mode = "categorical"
)

var modes = []Mode{
	ModeBoolean,
	ModeCategorical,
}

// Modes returns the list of valid scoring modes.
func Modes() []Mode {
	return modes
}

// ParseMode validates a string as a known scoring mode.
// Returns ErrInvalidMode if the value is not recognized.
func ParseMode(s string) (Mode, error) {
	v := Mode(s)
	if !slices.Contains(modes, v) {
		return "", ErrInvalidMode
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known mode value.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseMode(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// FailurePolicy controls when per-criterion failures fail the whole
// evaluation. The planning record disagrees with itself here, so the
// policy is configurable and snapshotted alongside the scoring mode.
type FailurePolicy string

// Valid failure policies.
const (
	// FailAllCriteria fails the evaluation only when every attempted
	// criterion ended in failure. This is the default.
	FailAllCriteria FailurePolicy = "all_criteria"
	// FailAnyCriterion fails the evaluation as soon as any criterion
	// exhausts its attempts.
	FailAnyCriterion FailurePolicy = "any_criterion"
)

var policies = []FailurePolicy{
	FailAllCriteria,
	FailAnyCriterion,
}

// ParseFailurePolicy validates a string as a known failure policy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	v := FailurePolicy(s)
	if !slices.Contains(policies, v) {
		return "", ErrInvalidPolicy
	}
	return v, nil
}
