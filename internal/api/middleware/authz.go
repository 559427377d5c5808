package middleware

import (
	"net/http"

	"github.com/somyu/user-service/internal/api/response"
)

// RequireAuthenticated returns middleware that rejects anonymous
// requests with 401. It runs after Authenticate and is the first stage
// allowed to fail a request.
func RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			if GetIdentity(r.Context()) == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that rejects identities lacking all of
// the allowed roles with 403. Anonymous requests get 401.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			identity := GetIdentity(r.Context())
			if identity == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", requestID)
				return
			}

			for _, role := range identity.Roles {
				if allowed[role] {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		})
	}
}
