package results

import (
	"testing"

	"github.com/google/uuid"
)

func TestStatusOverridable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusPending, false},
		{StatusSkipped, false},
	}

	for _, tc := range tests {
		if got := tc.status.Overridable(); got != tc.want {
			t.Errorf("%s.Overridable() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("pending should not be terminal")
	}
	for _, s := range []Status{StatusCompleted, StatusFailed, StatusSkipped} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestSnapshotEntry(t *testing.T) {
	score := 90.0
	current := &CriterionResult{
		ID:              uuid.New(),
		NormalizedScore: &score,
		Justification:   "model reasoning",
	}

	newScore := 40.0
	entry := snapshotEntry(current, OverrideCommand{
		Score:         &newScore,
		Justification: "reviewer disagrees",
		EditedBy:      "auditor@example.com",
	})

	if entry.CriterionResultID != current.ID {
		t.Errorf("CriterionResultID = %s, want %s", entry.CriterionResultID, current.ID)
	}
	if entry.PreviousScore == nil || *entry.PreviousScore != 90.0 {
		t.Errorf("PreviousScore = %v, want 90", entry.PreviousScore)
	}
	if entry.PreviousJustification != "model reasoning" {
		t.Errorf("PreviousJustification = %q", entry.PreviousJustification)
	}
	if entry.NewScore == nil || *entry.NewScore != 40.0 {
		t.Errorf("NewScore = %v, want 40", entry.NewScore)
	}
	if entry.EditedBy != "auditor@example.com" {
		t.Errorf("EditedBy = %q", entry.EditedBy)
	}
}

func TestSnapshotEntryPreservesNilScore(t *testing.T) {
	current := &CriterionResult{ID: uuid.New(), Justification: "failed before scoring"}

	entry := snapshotEntry(current, OverrideCommand{
		Justification: "manual pass",
		EditedBy:      "auditor@example.com",
	})

	if entry.PreviousScore != nil {
		t.Errorf("PreviousScore = %v, want nil", entry.PreviousScore)
	}
}
