package prompts_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/attestd/attest/internal/prompts"
)

func renderContext() prompts.RenderContext {
	return prompts.RenderContext{
		CriterionText:   "The document names a data protection officer.",
		DocumentContext: "[c1]\nSection 4 designates J. Doe as DPO.",
		ScoringMode:     "boolean",
	}
}

func TestRenderSubstitution(t *testing.T) {
	r := prompts.NewRenderer(nil)

	got, err := r.Render(prompts.DefaultType, renderContext())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if !strings.Contains(got, "data protection officer") {
		t.Error("rendered prompt missing criterion text")
	}
	if !strings.Contains(got, "Section 4 designates") {
		t.Error("rendered prompt missing document context")
	}
	if !strings.Contains(got, `"verdict": "pass" or "fail"`) {
		t.Error("boolean mode should request a verdict field")
	}
}

func TestRenderCategoricalFormat(t *testing.T) {
	r := prompts.NewRenderer(nil)
	rc := renderContext()
	rc.ScoringMode = "categorical"

	got, err := r.Render(prompts.DefaultType, rc)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if !strings.Contains(got, `"score": 0-100`) {
		t.Error("categorical mode should request a score field")
	}
	if strings.Contains(got, `"verdict": "pass" or "fail"`) {
		t.Error("categorical mode should not request a verdict field")
	}
}

func TestRenderStrictAppendsInstruction(t *testing.T) {
	r := prompts.NewRenderer(nil)

	base, err := r.Render(prompts.DefaultType, renderContext())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	rc := renderContext()
	rc.Strict = true
	strict, err := r.Render(prompts.DefaultType, rc)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if !strings.HasPrefix(strict, base) {
		t.Error("strict prompt should extend the base prompt")
	}
	if !strings.Contains(strict, "ONLY the JSON object") {
		t.Error("strict prompt missing reinforced instruction")
	}
	if strings.Contains(base, "ONLY the JSON object") {
		t.Error("base prompt should not carry the strict instruction")
	}
}

func TestRenderLookupOrder(t *testing.T) {
	t.Run("override wins over system template", func(t *testing.T) {
		r := prompts.NewRenderer(map[string]string{
			"regulatory": "Custom: {{.CriterionText}}\nContext: {{.DocumentContext}}",
		})

		got, err := r.Render("regulatory", renderContext())
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.HasPrefix(got, "Custom:") {
			t.Errorf("override template not used: %q", got[:40])
		}
	})

	t.Run("unknown type falls back to default", func(t *testing.T) {
		r := prompts.NewRenderer(nil)

		got, err := r.Render("financial", renderContext())
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(got, "compliance analyst") {
			t.Error("fallback to default template failed")
		}
	})
}

func TestRenderEmptyContext(t *testing.T) {
	r := prompts.NewRenderer(nil)
	rc := renderContext()
	rc.DocumentContext = "   "

	if _, err := r.Render(prompts.DefaultType, rc); !errors.Is(err, prompts.ErrEmptyContext) {
		t.Errorf("error = %v, want ErrEmptyContext", err)
	}
}
