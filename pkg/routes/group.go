// Package routes declares HTTP route tables as data: nested groups of
// method/pattern/handler triples registered onto a ServeMux in one call.
package routes

import "net/http"

// Group collects routes under a shared prefix. Children nest, with their
// prefixes appended to the parent's.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register walks the groups and registers every route with its full
// "METHOD /prefix/pattern" key on mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		register(mux, "", g)
	}
}

func register(mux *http.ServeMux, parent string, g Group) {
	prefix := parent + g.Prefix
	for _, rt := range g.Routes {
		mux.HandleFunc(rt.Method+" "+prefix+rt.Pattern, rt.Handler)
	}
	for _, child := range g.Children {
		register(mux, prefix, child)
	}
}
