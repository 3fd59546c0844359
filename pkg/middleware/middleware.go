// Package middleware carries the HTTP middleware stack and the cross-cutting
// handlers (request logging, CORS) modules attach to it.
package middleware

import "net/http"

// System is an ordered middleware stack. The first Use is the outermost
// wrapper and therefore runs first.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	entries []func(http.Handler) http.Handler
}

// New returns an empty stack.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw func(http.Handler) http.Handler) {
	s.entries = append(s.entries, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.entries) - 1; i >= 0; i-- {
		handler = s.entries[i](handler)
	}
	return handler
}
