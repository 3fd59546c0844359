package routes

import "net/http"

// Route binds one HTTP method and ServeMux pattern to a handler. An empty
// Pattern registers the route at its group's prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
