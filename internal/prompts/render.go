package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

// Renderer resolves and executes prompt templates per criterion type.
// Overrides come from the configuration resolver's snapshot; the zero map
// renders every type with the system templates.
type Renderer struct {
	overrides map[string]string
}

// NewRenderer creates a Renderer with the given org template overrides.
func NewRenderer(overrides map[string]string) *Renderer {
	return &Renderer{overrides: overrides}
}

// WithOverrides derives a Renderer applying the given org templates on top
// of the system set. An empty map returns the receiver unchanged.
func (r *Renderer) WithOverrides(overrides map[string]string) *Renderer {
	if len(overrides) == 0 {
		return r
	}
	return NewRenderer(overrides)
}

// Render produces the full prompt for a criterion type. Unknown types fall
// back to the default template; a type is unknown only when neither an
// override nor a system template exists for it.
func (r *Renderer) Render(criterionType string, rc RenderContext) (string, error) {
	if strings.TrimSpace(rc.DocumentContext) == "" {
		return "", ErrEmptyContext
	}

	body, err := r.lookup(criterionType)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(criterionType).Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", criterionType, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, rc); err != nil {
		return "", fmt.Errorf("render template %q: %w", criterionType, err)
	}

	if rc.Strict {
		sb.WriteString(strictInstruction)
	}

	return sb.String(), nil
}

func (r *Renderer) lookup(criterionType string) (string, error) {
	if body, ok := r.overrides[criterionType]; ok && body != "" {
		return body, nil
	}
	if body, ok := systemTemplates[criterionType]; ok {
		return body, nil
	}
	if body, ok := systemTemplates[DefaultType]; ok {
		return body, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, criterionType)
}
