package auth

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyMiddleware returns HTTP middleware that enforces API key
// authentication on every request.
//
// Behaviour:
//   - If mode != "apikey" or key == "", all requests are allowed (pass-through).
//   - Otherwise the middleware reads the value of header from the request and
//     compares it to key in constant time.
//   - A missing, empty, or incorrect key responds 401 Unauthorized.
func APIKeyMiddleware(mode, header, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Non-apikey modes or unconfigured key → allow everything.
			if mode != "apikey" || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(header)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				http.Error(w, "invalid api key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
