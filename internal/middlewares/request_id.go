package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDHeader carries the correlation ID between the client, the server
// and the log stream.
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with a correlation ID. A client may
// carry its own ID through X-Request-ID as long as it parses as a UUID;
// anything else is replaced so log fields stay well formed.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestID(r)
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestID echoes a well-formed client ID or mints a fresh one
func requestID(r *http.Request) string {
	if raw := r.Header.Get(RequestIDHeader); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			return parsed.String()
		}
	}
	return uuid.New().String()
}

// GetRequestID returns the correlation ID stored by RequestIDMiddleware, or
// "" outside of a request
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
