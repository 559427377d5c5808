package middleware

import (
	"log/slog"
	"net/http"

	"github.com/somyu/user-service/internal/api/response"
)

// Recovery is middleware that recovers from panics in handlers and
// returns a 500 error. It sits outermost so no request can tear down
// the server.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(r.Context())
				slog.Error("panic recovered", "error", err, "method", r.Method, "path", r.URL.Path, "requestId", requestID)
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
