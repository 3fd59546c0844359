package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/attestd/attest/internal/criteria"
	"github.com/attestd/attest/internal/evaluations"
	"github.com/attestd/attest/internal/inference"
	"github.com/attestd/attest/internal/metrics"
	"github.com/attestd/attest/internal/prompts"
	"github.com/attestd/attest/internal/results"
	"github.com/attestd/attest/internal/retrieval"
	"github.com/attestd/attest/internal/scoring"
	"github.com/attestd/attest/internal/settings"
	"github.com/attestd/attest/internal/usage"
	"github.com/attestd/attest/pkg/formatting"
)

// Failure categories recorded for non-provider pipeline errors. Provider
// failures carry their own category from the inference boundary.
const (
	categoryRetrieval  = "retrieval_error"
	categoryTemplate   = "template_error"
	categoryValidation = "validation_error"
)

// ResultStore is the subset of the result system the orchestrator writes to.
type ResultStore interface {
	Upsert(ctx context.Context, cmd results.UpsertCommand) (*results.CriterionResult, error)
}

// SettingsResolver supplies the org configuration snapshot, carrying any
// per-org prompt template overrides.
type SettingsResolver interface {
	Resolve(ctx context.Context, orgID uuid.UUID) (settings.Resolved, error)
}

// Orchestrator runs the per-criterion assessment pipeline for one claimed
// evaluation: retrieve context, render the prompt, invoke the model, parse
// and validate the verdict, persist the outcome. Criteria are independent;
// one criterion exhausting its retries never aborts the others. Only a
// persistence failure is fatal to the evaluation attempt.
type Orchestrator struct {
	cfg       Config
	retrieval retrieval.Provider
	renderer  *prompts.Renderer
	client    inference.Client
	inference *inference.Config
	results   ResultStore
	recorder  usage.Recorder
	settings  SettingsResolver
	topK      int
	logger    *slog.Logger
}

// NewOrchestrator wires the assessment pipeline collaborators. A nil
// resolver renders every evaluation with the system templates.
func NewOrchestrator(
	cfg Config,
	provider retrieval.Provider,
	renderer *prompts.Renderer,
	client inference.Client,
	infCfg *inference.Config,
	store ResultStore,
	recorder usage.Recorder,
	resolver SettingsResolver,
	topK int,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		retrieval: provider,
		renderer:  renderer,
		client:    client,
		inference: infCfg,
		results:   store,
		recorder:  recorder,
		settings:  resolver,
		topK:      topK,
		logger:    logger.With("system", "orchestrator"),
	}
}

// Process assesses every item in the set with bounded concurrency and
// returns the scoring inputs for aggregation. Items not attempted because
// the context was cancelled are persisted as skipped. A non-nil error means
// a persistence failure interrupted the run; the caller must leave the job
// message unacknowledged so the evaluation is redelivered.
func (o *Orchestrator) Process(
	ctx context.Context,
	eval *evaluations.Evaluation,
	set *criteria.Set,
) ([]scoring.Item, error) {
	items := make([]scoring.Item, len(set.Items))
	renderer := o.rendererFor(ctx, eval)

	g := new(errgroup.Group)
	g.SetLimit(o.cfg.FanOut)

	for i, item := range set.Items {
		g.Go(func() error {
			if ctx.Err() != nil {
				return o.skip(ctx, eval, item, &items[i])
			}
			return o.processItem(ctx, eval, item, renderer, &items[i])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// rendererFor resolves the evaluation org's template overrides into a
// renderer for this run. Resolution failure falls back to the system
// templates rather than blocking the evaluation.
func (o *Orchestrator) rendererFor(ctx context.Context, eval *evaluations.Evaluation) *prompts.Renderer {
	if eval.OrgID == nil || o.settings == nil {
		return o.renderer
	}

	resolved, err := o.settings.Resolve(ctx, *eval.OrgID)
	if err != nil {
		o.logger.Warn(
			"settings resolve failed, rendering with system templates",
			"evaluation_id", eval.ID,
			"org_id", *eval.OrgID,
			"error", err,
		)
		return o.renderer
	}
	return o.renderer.WithOverrides(resolved.TemplateOverrides)
}

// processItem runs the retry loop for one criterion and persists its
// terminal outcome. Returns an error only when persistence fails.
func (o *Orchestrator) processItem(
	ctx context.Context,
	eval *evaluations.Evaluation,
	item criteria.Item,
	renderer *prompts.Renderer,
	out *scoring.Item,
) error {
	mode := *eval.ScoringMode

	var (
		strict       bool
		attempts     int
		lastCategory string
	)

	for attempts < o.cfg.MaxAttempts {
		attempts++
		if attempts > 1 {
			if err := o.backoff(ctx, attempts); err != nil {
				break
			}
		}

		outcome, category, err := o.attempt(ctx, eval, item, renderer, mode, strict)
		if err == nil {
			return o.persistSuccess(ctx, eval, item, outcome, attempts, out)
		}

		lastCategory = category
		o.recorder.LogError(ctx, usage.Failure{
			EvaluationID: eval.ID,
			CriterionID:  &item.ID,
			Category:     category,
			Message:      err.Error(),
			Attempt:      attempts,
		})

		if category == categoryValidation {
			// One reinforced-format retry, then the item is exhausted.
			if strict {
				break
			}
			strict = true
			continue
		}
		if category == categoryTemplate {
			// Template resolution cannot heal between attempts.
			break
		}
		var perr *inference.ProviderError
		if errors.As(err, &perr) && !perr.Retryable() {
			break
		}
	}

	return o.persistFailure(ctx, eval, item, lastCategory, attempts, out)
}

// itemOutcome carries everything a successful attempt produced.
type itemOutcome struct {
	interpreted scoring.Interpreted
	verdict     scoring.Verdict
	citations   []results.Citation
}

// attempt runs one pass of the pipeline for a criterion. The returned
// category classifies the failure for the error log and the retry policy.
func (o *Orchestrator) attempt(
	ctx context.Context,
	eval *evaluations.Evaluation,
	item criteria.Item,
	renderer *prompts.Renderer,
	mode scoring.Mode,
	strict bool,
) (*itemOutcome, string, error) {
	chunks, err := o.retrieval.Retrieve(ctx, *eval.DocumentID, item.Text, o.topK)
	if err != nil {
		return nil, categoryRetrieval, err
	}

	prompt, err := renderer.Render(item.Type, prompts.RenderContext{
		CriterionText:   item.Text,
		DocumentContext: joinChunks(chunks),
		ScoringMode:     string(mode),
		Strict:          strict,
	})
	if err != nil {
		return nil, categoryTemplate, err
	}

	completion, err := o.client.Invoke(ctx, prompt, o.inference.Params())
	if err != nil {
		category := string(inference.CategoryOf(err))
		metrics.ProviderErrors.WithLabelValues(category).Inc()
		o.recorder.LogUsage(ctx, usage.Entry{
			EvaluationID: eval.ID,
			CriterionID:  item.ID,
			Success:      false,
		})
		return nil, category, err
	}

	metrics.InferenceLatency.Observe(completion.Latency.Seconds())
	o.recorder.LogUsage(ctx, usage.Entry{
		EvaluationID:     eval.ID,
		CriterionID:      item.ID,
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
		Latency:          completion.Latency,
		Success:          true,
		EstimatedCost:    o.inference.EstimatedCost(completion.Usage),
	})

	verdict, err := formatting.Parse[scoring.Verdict](completion.Text)
	if err != nil {
		return nil, categoryValidation, fmt.Errorf("parse verdict: %w", err)
	}

	interpreted, err := scoring.Interpret(mode, verdict)
	if err != nil {
		return nil, categoryValidation, err
	}

	return &itemOutcome{
		interpreted: interpreted,
		verdict:     verdict,
		citations:   citationsFor(*eval.DocumentID, chunks, verdict.CitedRefs),
	}, "", nil
}

func (o *Orchestrator) persistSuccess(
	ctx context.Context,
	eval *evaluations.Evaluation,
	item criteria.Item,
	outcome *itemOutcome,
	attempt int,
	out *scoring.Item,
) error {
	raw := outcome.interpreted.RawScore
	normalized := outcome.interpreted.Normalized

	if _, err := o.results.Upsert(ctx, results.UpsertCommand{
		EvaluationID:    eval.ID,
		CriterionID:     item.ID,
		Status:          results.StatusCompleted,
		RawScore:        &raw,
		NormalizedScore: &normalized,
		Justification:   outcome.verdict.Justification,
		Citations:       outcome.citations,
		AttemptCount:    attempt,
	}); err != nil {
		return fmt.Errorf("persist criterion result: %w", err)
	}

	metrics.CriterionOutcomes.WithLabelValues(string(results.StatusCompleted)).Inc()
	*out = scoring.Item{
		Weight:     item.Weight,
		Status:     scoring.ItemCompleted,
		Normalized: normalized,
	}
	return nil
}

func (o *Orchestrator) persistFailure(
	ctx context.Context,
	eval *evaluations.Evaluation,
	item criteria.Item,
	category string,
	attempt int,
	out *scoring.Item,
) error {
	var lastCategory *string
	if category != "" {
		lastCategory = &category
	}

	// A cancelled context must not block recording the exhausted outcome.
	if _, err := o.results.Upsert(context.WithoutCancel(ctx), results.UpsertCommand{
		EvaluationID:      eval.ID,
		CriterionID:       item.ID,
		Status:            results.StatusFailed,
		AttemptCount:      attempt,
		LastErrorCategory: lastCategory,
	}); err != nil {
		return fmt.Errorf("persist criterion failure: %w", err)
	}

	metrics.CriterionOutcomes.WithLabelValues(string(results.StatusFailed)).Inc()
	o.logger.Warn(
		"criterion exhausted",
		"evaluation_id", eval.ID,
		"criterion_id", item.ID,
		"category", category,
		"attempts", attempt,
	)
	*out = scoring.Item{Weight: item.Weight, Status: scoring.ItemFailed}
	return nil
}

func (o *Orchestrator) skip(
	ctx context.Context,
	eval *evaluations.Evaluation,
	item criteria.Item,
	out *scoring.Item,
) error {
	if _, err := o.results.Upsert(context.WithoutCancel(ctx), results.UpsertCommand{
		EvaluationID: eval.ID,
		CriterionID:  item.ID,
		Status:       results.StatusSkipped,
	}); err != nil {
		return fmt.Errorf("persist skipped criterion: %w", err)
	}

	metrics.CriterionOutcomes.WithLabelValues(string(results.StatusSkipped)).Inc()
	*out = scoring.Item{Weight: item.Weight, Status: scoring.ItemSkipped}
	return nil
}

// backoff waits the exponential delay with jitter before the next attempt.
func (o *Orchestrator) backoff(ctx context.Context, attempt int) error {
	delay := o.cfg.BackoffBase << (attempt - 2)
	if delay > o.cfg.BackoffMax {
		delay = o.cfg.BackoffMax
	}
	delay += time.Duration(rand.Int64N(int64(delay)/2 + 1))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func joinChunks(chunks []retrieval.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[%s]\n%s", c.Ref, c.Text)
	}
	return strings.Join(parts, "\n\n")
}

// citationsFor resolves the verdict's cited refs against the retrieved
// chunks. Refs the model invented are dropped.
func citationsFor(documentID uuid.UUID, chunks []retrieval.Chunk, refs []string) []results.Citation {
	byRef := make(map[string]retrieval.Chunk, len(chunks))
	for _, c := range chunks {
		byRef[c.Ref] = c
	}

	citations := make([]results.Citation, 0, len(refs))
	for _, ref := range refs {
		chunk, ok := byRef[ref]
		if !ok {
			continue
		}
		citations = append(citations, results.Citation{
			DocumentID: documentID,
			ChunkRef:   ref,
			Excerpt:    chunk.Text,
		})
	}
	return citations
}
