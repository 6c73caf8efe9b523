package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// contextKey avoids collisions with keys other packages put on the context.
type contextKey string

// RequestIDKey is the context key for the per-request correlation id.
const RequestIDKey contextKey = "request_id"

// GetRequestIDFromContext retrieves the request ID from context.
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// BridgeRequestID copies the request id chi's own RequestID middleware
// generated into this package's context key, so handlers can read it via
// GetRequestIDFromContext regardless of which middleware stack set it.
// Must run after chimiddleware.RequestID in the chain.
func BridgeRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestID(r.Context(), chimiddleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
