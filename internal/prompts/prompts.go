// Package prompts implements prompt template resolution and rendering for
// criterion assessment. Each criterion type maps to a template; org-level
// overrides from the configuration resolver win over the built-in system
// templates. Rendering substitutes the criterion text and retrieved document
// context, and can append a stricter formatting instruction for the
// validation retry.
package prompts

import "errors"

// Sentinel errors for prompt operations.
var (
	ErrUnknownType  = errors.New("no template for criterion type")
	ErrEmptyContext = errors.New("document context is empty")
)

// RenderContext carries the substitution values for one criterion assessment.
type RenderContext struct {
	CriterionText   string
	DocumentContext string
	ScoringMode     string
	// Strict appends the reinforced output-format instruction used when the
	// first completion failed validation.
	Strict bool
}
