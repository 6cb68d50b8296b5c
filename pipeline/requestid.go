package pipeline

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the request ID across services.
const HeaderRequestID = "X-Request-ID"

type contextKey struct{ name string }

var requestIDKey = contextKey{"request-id"}

// RequestID returns middleware that honors an inbound X-Request-ID header
// or generates a fresh ID, sets it on the response, and stashes it in the
// request context for handlers and the access log.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(HeaderRequestID, id)
			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request ID stashed by the RequestID
// middleware, or "" when the middleware is not in the chain.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
