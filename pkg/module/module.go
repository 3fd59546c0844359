// Package module mounts self-contained HTTP surfaces under single-level
// path prefixes, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/attestd/attest/pkg/middleware"
)

// Module pairs a path prefix with an inner router and middleware stack.
// Requests are dispatched with the prefix stripped, so the inner router's
// patterns stay prefix-agnostic.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module for a single-level prefix such as "/api". An empty,
// slashless, or multi-level prefix panics: prefixes are wiring constants,
// not runtime input.
func New(prefix string, router http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Prefix returns the mount path.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Handler returns the inner router wrapped in the middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Serve dispatches req to the inner router with the module prefix removed
// from the path.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	stripped := strippedRequest(req, m.prefix)
	m.Handler().ServeHTTP(w, stripped)
}

// strippedRequest shallow-copies req with the prefix cut from its URL path.
// The original request is left untouched for upstream handlers.
func strippedRequest(req *http.Request, prefix string) *http.Request {
	path := req.URL.Path[len(prefix):]
	if path == "" {
		path = "/"
	}

	clone := new(http.Request)
	*clone = *req
	clone.URL = new(url.URL)
	*clone.URL = *req.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""
	return clone
}

func checkPrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
