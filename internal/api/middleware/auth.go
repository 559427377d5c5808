package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/somyu/user-service/internal/auth"
	"github.com/somyu/user-service/internal/token"
	"github.com/somyu/user-service/internal/user"
)

const identityKey contextKey = "identity"

const bearerScheme = "Bearer"

// Authenticate is middleware that resolves a Bearer token from the
// Authorization header into an Identity in the request context. It is
// total: it never writes a response and never lets an error escape. A
// missing, malformed, expired or otherwise unverifiable token leaves
// the request anonymous; rejecting anonymous requests is the job of
// RequireAuthenticated and RequireRole, not of this stage.
func Authenticate(codec *token.Codec, store user.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity := resolveIdentity(r, codec, store); identity != nil {
				ctx := context.WithValue(r.Context(), identityKey, identity)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveIdentity returns nil when the request cannot be authenticated,
// for any reason. Token-level failures are only distinguishable in the
// debug log.
func resolveIdentity(r *http.Request, codec *token.Codec, store user.Store) (identity *auth.Identity) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic while resolving identity", "error", rec, "path", r.URL.Path)
			identity = nil
		}
	}()

	raw := bearerToken(r)
	if raw == "" {
		return nil
	}

	claims, err := codec.ParseAndVerify(raw, time.Now())
	if err != nil {
		slog.Debug("rejected bearer token", "error", err)
		return nil
	}
	if claims.Subject == "" {
		return nil
	}

	roles := claims.Roles
	if len(roles) == 0 {
		// Tokens issued without a roles claim fall back to the stored
		// roles. A failed lookup leaves the request anonymous; it
		// inherits the request's deadline via its context.
		u, err := store.FindByEmail(r.Context(), claims.Subject)
		if err != nil {
			slog.Debug("role lookup failed for token subject", "subject", claims.Subject, "error", err)
			return nil
		}
		if !u.Enabled {
			return nil
		}
		roles = u.Roles
	}

	return &auth.Identity{Subject: claims.Subject, Roles: roles}
}

// bearerToken extracts the token from an "Authorization: Bearer x"
// header, or returns "".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetIdentity retrieves the authenticated Identity from the request
// context, or nil for anonymous requests.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}
