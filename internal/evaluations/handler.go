package evaluations

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/attestd/attest/internal/results"
	"github.com/attestd/attest/pkg/handlers"
	"github.com/attestd/attest/pkg/pagination"
	"github.com/attestd/attest/pkg/routes"
)

// Handler provides HTTP endpoints for evaluation operations.
type Handler struct {
	sys        System
	results    results.System
	validate   *validator.Validate
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given systems and logger.
func NewHandler(
	sys System,
	res results.System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		results:    res,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger.With("handler", "evaluations"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for evaluation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/evaluations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/{id}/configure", Handler: h.Configure},
			{Method: "GET", Pattern: "/{id}/progress", Handler: h.Progress},
			{Method: "GET", Pattern: "/{id}/results", Handler: h.Results},
			{Method: "POST", Pattern: "/{id}/recompute", Handler: h.Recompute},
		},
	}
}

// List returns a paginated, filtered page of evaluations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create registers a new draft evaluation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.validate.Struct(cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	e, err := h.sys.CreateDraft(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, e)
}

// PollResponse is the composite payload for the polling endpoint: the
// evaluation with derived progress and whatever results exist so far.
type PollResponse struct {
	Evaluation *Evaluation               `json:"evaluation"`
	Progress   Progress                  `json:"progress"`
	Results    []results.CriterionResult `json:"results"`
}

// Find returns an evaluation together with its progress and current results,
// sized for client polling during processing.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	e, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	res, err := h.results.ListByEvaluation(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, results.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PollResponse{
		Evaluation: e,
		Progress:   ProgressOf(e),
		Results:    res,
	})
}

// Configure applies the one-shot configuration to a draft and enqueues it.
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd ConfigureCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.validate.Struct(cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	e, err := h.sys.Configure(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// Progress returns the completion counters for an evaluation.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	p, err := h.sys.Progress(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Results returns all criterion results for an evaluation.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	res, err := h.results.ListByEvaluation(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, results.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Recompute recalculates the aggregate score from the persisted results,
// typically after human overrides.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	aggregate, err := h.results.Recompute(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, results.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"evaluation_id":   id,
		"aggregate_score": aggregate,
	})
}
