package criteria

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/attestd/attest/pkg/handlers"
	"github.com/attestd/attest/pkg/routes"
)

// Handler provides HTTP endpoints for criteria set reads.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "criteria"),
	}
}

// Routes returns the route group definition for criteria endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/criteria-sets",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// Find returns a criteria set with its ordered items.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	set, err := h.sys.FindSet(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, set)
}
