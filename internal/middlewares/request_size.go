package middlewares

import (
	"net/http"
	"strconv"
)

// RequestSizeLimitMiddleware rejects request bodies larger than maxBytes.
// A declared Content-Length over the limit is refused up front; chunked
// uploads without one are cut off by the wrapped reader once they cross it.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				w.Write([]byte(`{"error":"request body exceeds ` + strconv.FormatInt(maxBytes, 10) + ` bytes"}`))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
