package scoring

import "math"

// ItemStatus mirrors the terminal states a criterion result can reach.
type ItemStatus string

// Per-item terminal states considered during aggregation.
const (
	ItemCompleted ItemStatus = "completed"
	ItemFailed    ItemStatus = "failed"
	ItemSkipped   ItemStatus = "skipped"
)

// Item is the scoring view of one persisted criterion result.
type Item struct {
	Weight     float64
	Status     ItemStatus
	Normalized float64
}

// Aggregate computes the weighted overall score from terminal criterion
// results. Completed items contribute weight x normalized score; failed items
// count in the denominator with zero contribution (they are reported as "not
// scored" in the per-criterion view); skipped items are excluded entirely.
// Returns ErrNoResults when nothing was attempted.
func Aggregate(items []Item) (float64, error) {
	var sum, weight float64

	for _, item := range items {
		switch item.Status {
		case ItemCompleted:
			sum += item.Weight * item.Normalized
			weight += item.Weight
		case ItemFailed:
			weight += item.Weight
		}
	}

	if weight == 0 {
		return 0, ErrNoResults
	}

	return math.Round(sum/weight*100) / 100, nil
}

// Outcome decides the evaluation's terminal status from its terminal items
// under the snapshot failure policy. An evaluation with no attempted items
// fails; otherwise FailAllCriteria fails only when every attempted item
// failed, and FailAnyCriterion fails when at least one did.
func Outcome(policy FailurePolicy, items []Item) ItemStatus {
	var completed, failed int
	for _, item := range items {
		switch item.Status {
		case ItemCompleted:
			completed++
		case ItemFailed:
			failed++
		}
	}

	if completed+failed == 0 {
		return ItemFailed
	}

	switch policy {
	case FailAnyCriterion:
		if failed > 0 {
			return ItemFailed
		}
	default:
		if completed == 0 {
			return ItemFailed
		}
	}

	return ItemCompleted
}
