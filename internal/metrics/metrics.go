// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluationsProcessed counts finalized evaluations by terminal status.
	EvaluationsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attest",
		Name:      "evaluations_processed_total",
		Help:      "Evaluations finalized, by terminal status.",
	}, []string{"status"})

	// CriterionOutcomes counts persisted criterion results by status.
	CriterionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attest",
		Name:      "criterion_outcomes_total",
		Help:      "Criterion results persisted, by status.",
	}, []string{"status"})

	// ProviderErrors counts categorized inference provider failures.
	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attest",
		Name:      "provider_errors_total",
		Help:      "Inference provider failures, by error category.",
	}, []string{"category"})

	// InferenceLatency observes wall-clock latency of model invocations.
	InferenceLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "attest",
		Name:      "inference_latency_seconds",
		Help:      "Latency of scoring model invocations.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	// StaleReclaims counts evaluations the sweeper returned to pending.
	StaleReclaims = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attest",
		Name:      "stale_reclaims_total",
		Help:      "Stuck processing evaluations reset to pending.",
	})
)
