package middleware

import (
	"net/http"

	"github.com/farmassist/auth-service/internal/transport/http/response"
)

const defaultMaxBodyBytes int64 = 1 << 20

// BodyLimit caps request bodies. Declared oversize bodies are rejected up front;
// undeclared ones fail while decoding.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.ErrorBody{
					Error: response.ErrorPayload{
						Code:      "payload_too_large",
						Message:   "request body too large",
						RequestID: response.RequestIDFromContext(r),
					},
				})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
