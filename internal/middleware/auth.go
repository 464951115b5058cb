package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the static secret credential.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth validates the X-API-Key header against the configured secret.
// Absence yields 401, mismatch 403. Health/root endpoints are mounted
// outside the guarded group, so no path exemptions are needed here.
func APIKeyAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				http.Error(w, "missing API key", http.StatusUnauthorized)
				return
			}

			// constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				http.Error(w, "invalid API key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
