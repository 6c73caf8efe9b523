package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// withURLParam returns a copy of r carrying a chi route context with the
// given URL parameter set, as the router would when dispatching a match.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
