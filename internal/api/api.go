// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/attestd/attest/internal/config"
	"github.com/attestd/attest/internal/infrastructure"
	"github.com/attestd/attest/pkg/middleware"
	"github.com/attestd/attest/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned Domain carries the shared systems the worker pool runs on.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, domain, nil
}
