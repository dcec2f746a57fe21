// Package requestid tags every trigger request with an ID so one
// notification can be followed from the HTTP log to the send attempts
// and audit rows it produced.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header carries the ID between services. The POS and scheduling
// services forward it when they trigger a notification, tying the
// send back to the originating action.
const Header = "X-Request-ID"

// maxInboundLength caps a caller-supplied ID. Longer values are
// discarded to keep log lines bounded.
const maxInboundLength = 64

type ctxKey struct{}

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID, or "" when the context carries
// none.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware assigns each request its ID. A usable inbound Header
// value is kept; a missing or oversized one is replaced with a fresh
// UUID v4. The ID is echoed on the response and stored in the request
// context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > maxInboundLength {
			id = uuid.New().String()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
