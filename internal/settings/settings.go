// Package settings implements the configuration resolver: system defaults
// merged with optional organization-level field overrides into a fully
// populated snapshot. Resolution is field-level last-write-wins, never
// whole-object replacement, and a resolved snapshot is never partially empty.
package settings

import (
	"time"

	"github.com/google/uuid"

	"github.com/attestd/attest/internal/scoring"
)

// Resolved is a fully populated configuration snapshot for one organization.
type Resolved struct {
	ScoringMode         scoring.Mode          `json:"scoring_mode"`
	FailurePolicy       scoring.FailurePolicy `json:"failure_policy"`
	NumericScoreVisible bool                  `json:"numeric_score_visible"`
	// TemplateOverrides maps criterion types to org-supplied prompt template
	// bodies. Types without an override render with the system template.
	TemplateOverrides map[string]string `json:"template_overrides,omitempty"`
}

// Override is the persisted org-level record. Nil fields inherit the system
// default for that field; an empty template map supplies no overrides.
type Override struct {
	OrgID               uuid.UUID         `json:"org_id"`
	ScoringMode         *string           `json:"scoring_mode"`
	FailurePolicy       *string           `json:"failure_policy"`
	NumericScoreVisible *bool             `json:"numeric_score_visible"`
	TemplateOverrides   map[string]string `json:"template_overrides,omitempty"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Defaults holds the system-level base values every resolution starts from.
type Defaults struct {
	ScoringMode         scoring.Mode
	FailurePolicy       scoring.FailurePolicy
	NumericScoreVisible bool
}

// merge applies an override's non-nil fields on top of the defaults.
// Unparseable persisted values fall back to the default rather than
// producing a partially-defined snapshot.
func merge(base Defaults, o *Override) Resolved {
	resolved := Resolved{
		ScoringMode:         base.ScoringMode,
		FailurePolicy:       base.FailurePolicy,
		NumericScoreVisible: base.NumericScoreVisible,
	}

	if o == nil {
		return resolved
	}

	if o.ScoringMode != nil {
		if mode, err := scoring.ParseMode(*o.ScoringMode); err == nil {
			resolved.ScoringMode = mode
		}
	}
	if o.FailurePolicy != nil {
		if policy, err := scoring.ParseFailurePolicy(*o.FailurePolicy); err == nil {
			resolved.FailurePolicy = policy
		}
	}
	if o.NumericScoreVisible != nil {
		resolved.NumericScoreVisible = *o.NumericScoreVisible
	}
	if len(o.TemplateOverrides) > 0 {
		resolved.TemplateOverrides = o.TemplateOverrides
	}

	return resolved
}
