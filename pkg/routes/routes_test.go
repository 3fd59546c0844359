package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attestd/attest/pkg/routes"
)

func handlerReturning(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/evaluations",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: handlerReturning(http.StatusOK)},
			{Method: http.MethodPost, Pattern: "", Handler: handlerReturning(http.StatusCreated)},
			{Method: http.MethodGet, Pattern: "/{id}/progress", Handler: handlerReturning(http.StatusOK)},
		},
	})

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/evaluations", http.StatusOK},
		{http.MethodPost, "/evaluations", http.StatusCreated},
		{http.MethodGet, "/evaluations/7c9e/progress", http.StatusOK},
		{http.MethodDelete, "/evaluations", http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != tc.want {
				t.Errorf("status: got %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/results",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/{id}", Handler: handlerReturning(http.StatusOK)},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}",
				Routes: []routes.Route{
					{Method: http.MethodGet, Pattern: "/history", Handler: handlerReturning(http.StatusOK)},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/7c9e/history", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want %d", rec.Code, http.StatusOK)
	}
}
