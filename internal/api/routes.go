package api

import (
	"net/http"

	"github.com/attestd/attest/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Evaluations.Handler(domain.Results).Routes(),
		domain.Results.Handler().Routes(),
		domain.Criteria.Handler().Routes(),
	)
}
