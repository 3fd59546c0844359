package formatting_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/attestd/attest/pkg/formatting"
)

type verdictPayload struct {
	Verdict       string   `json:"verdict"`
	Justification string   `json:"justification"`
	CitedRefs     []string `json:"cited_refs"`
}

func TestParseDirectJSON(t *testing.T) {
	content := `{"verdict": "pass", "justification": "section 3 covers retention", "cited_refs": ["p3-c1"]}`

	got, err := formatting.Parse[verdictPayload](content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Verdict != "pass" {
		t.Errorf("Verdict = %q, want %q", got.Verdict, "pass")
	}
	if len(got.CitedRefs) != 1 || got.CitedRefs[0] != "p3-c1" {
		t.Errorf("CitedRefs = %v, want [p3-c1]", got.CitedRefs)
	}
}

func TestParseFencedJSON(t *testing.T) {
	content := "```json\n{\"verdict\": \"fail\", \"justification\": \"no retention clause\"}\n```"

	got, err := formatting.Parse[verdictPayload](content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Verdict != "fail" {
		t.Errorf("Verdict = %q, want %q", got.Verdict, "fail")
	}
}

func TestParseFencedWithoutLanguage(t *testing.T) {
	content := "```\n{\"verdict\": \"pass\", \"justification\": \"ok\"}\n```"

	got, err := formatting.Parse[verdictPayload](content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Verdict != "pass" {
		t.Errorf("Verdict = %q, want %q", got.Verdict, "pass")
	}
}

func TestParseFenceWithSurroundingProse(t *testing.T) {
	content := "Here is my assessment:\n\n```json\n{\"verdict\": \"pass\", \"justification\": \"covered\"}\n```\n\nLet me know if you need more detail."

	got, err := formatting.Parse[verdictPayload](content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Justification != "covered" {
		t.Errorf("Justification = %q, want %q", got.Justification, "covered")
	}
}

func TestParseFailure(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"prose only", "The document satisfies the criterion."},
		{"empty", ""},
		{"broken fence", "```json\n{\"verdict\": \"pass\"\n```"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := formatting.Parse[verdictPayload](tc.content)
			if !errors.Is(err, formatting.ErrParseFailed) {
				t.Errorf("Parse() error = %v, want ErrParseFailed", err)
			}
			if tc.content != "" && !strings.Contains(err.Error(), strings.TrimSpace(tc.content)) {
				t.Errorf("error %q does not carry the offending content", err)
			}
		})
	}
}
