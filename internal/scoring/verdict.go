package scoring

import (
	"fmt"
	"strings"
)

// Verdict is the structured payload expected from the scoring model.
// Boolean-mode completions carry Verdict ("pass"/"fail"); categorical-mode
// completions carry Score and/or Band. CitedRefs reference chunk locators
// returned by the context provider.
type Verdict struct {
	Verdict       string   `json:"verdict,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	Band          string   `json:"band,omitempty"`
	Justification string   `json:"justification"`
	CitedRefs     []string `json:"cited_refs,omitempty"`
}

// Interpreted is a validated verdict normalized onto the 0-100 scale.
// RawScore preserves the mode-dependent value ("pass"/"fail" or band label).
type Interpreted struct {
	RawScore   string
	Normalized float64
}

// Interpret validates a verdict against the scoring mode and normalizes it.
// Boolean verdicts must parse to pass or fail. Categorical verdicts must fall
// in one of the five fixed bands; a band without an explicit score maps to the
// band midpoint. Violations are validation failures the orchestrator retries
// once with a stricter instruction.
func Interpret(mode Mode, v Verdict) (Interpreted, error) {
	switch mode {
	case ModeBoolean:
		return interpretBoolean(v)
	case ModeCategorical:
		return interpretCategorical(v)
	default:
		return Interpreted{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

func interpretBoolean(v Verdict) (Interpreted, error) {
	switch strings.ToLower(strings.TrimSpace(v.Verdict)) {
	case "pass", "true", "yes":
		return Interpreted{RawScore: "pass", Normalized: 100}, nil
	case "fail", "false", "no":
		return Interpreted{RawScore: "fail", Normalized: 0}, nil
	default:
		return Interpreted{}, fmt.Errorf("%w: verdict %q is not pass/fail", ErrMalformedScore, v.Verdict)
	}
}

func interpretCategorical(v Verdict) (Interpreted, error) {
	if v.Score != nil {
		band, err := BandFor(*v.Score)
		if err != nil {
			return Interpreted{}, err
		}
		return Interpreted{RawScore: band.Label, Normalized: *v.Score}, nil
	}

	if v.Band != "" {
		band, err := BandByLabel(strings.TrimSpace(v.Band))
		if err != nil {
			return Interpreted{}, err
		}
		return Interpreted{RawScore: band.Label, Normalized: band.Midpoint}, nil
	}

	return Interpreted{}, fmt.Errorf("%w: categorical verdict carries neither score nor band", ErrMalformedScore)
}
