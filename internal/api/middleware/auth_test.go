package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somyu/user-service/internal/api/middleware"
	"github.com/somyu/user-service/internal/auth"
	"github.com/somyu/user-service/internal/token"
	"github.com/somyu/user-service/internal/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newCodec(t *testing.T) *token.Codec {
	t.Helper()

	c, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	return c
}

// identityCapture records the identity seen by the downstream handler.
func identityCapture(captured **auth.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = middleware.GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func serveWithAuth(t *testing.T, codec *token.Codec, store user.Store, authorization string) (*httptest.ResponseRecorder, *auth.Identity) {
	t.Helper()

	var captured *auth.Identity
	handler := middleware.Authenticate(codec, store)(identityCapture(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	return w, captured
}

func TestAuthenticate_NoHeader(t *testing.T) {
	w, identity := serveWithAuth(t, newCodec(t), user.NewMemoryStore(), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, identity)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	codec := newCodec(t)
	tok, err := codec.Issue("ada@example.com", []string{user.RoleUser}, time.Now())
	require.NoError(t, err)

	w, identity := serveWithAuth(t, codec, user.NewMemoryStore(), "Bearer "+tok)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, identity)
	assert.Equal(t, "ada@example.com", identity.Subject)
	assert.Equal(t, []string{user.RoleUser}, identity.Roles)
}

func TestAuthenticate_NeverRejects(t *testing.T) {
	codec := newCodec(t)

	expired, err := codec.Issue("ada@example.com", []string{user.RoleUser}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	otherCodec, err := token.NewCodec("ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)
	forged, err := otherCodec.Issue("ada@example.com", []string{user.RoleAdmin}, time.Now())
	require.NoError(t, err)

	cases := map[string]string{
		"garbage token":      "Bearer not.a.token",
		"binary garbage":     "Bearer \x00\x01\x02",
		"empty bearer value": "Bearer ",
		"wrong scheme":       "Basic dXNlcjpwYXNz",
		"no scheme":          "sometoken",
		"expired token":      "Bearer " + expired,
		"forged signature":   "Bearer " + forged,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w, identity := serveWithAuth(t, codec, user.NewMemoryStore(), header)

			// The request continues downstream as anonymous, never errors.
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Nil(t, identity)
		})
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	codec := newCodec(t)
	tok, err := codec.Issue("ada@example.com", []string{user.RoleUser}, time.Now())
	require.NoError(t, err)

	w, identity := serveWithAuth(t, codec, user.NewMemoryStore(), "bearer "+tok)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, identity)
	assert.Equal(t, "ada@example.com", identity.Subject)
}

func TestAuthenticate_EmptyRolesFallsBackToStore(t *testing.T) {
	codec := newCodec(t)
	store := user.NewMemoryStore()

	u := &user.User{
		ID:           uuid.New(),
		FullName:     "Ada L",
		Email:        "ada@example.com",
		PasswordHash: "$2a$04$notarealhash",
		Roles:        []string{user.RoleAdmin, user.RoleUser},
		Enabled:      true,
	}
	require.NoError(t, store.Create(context.Background(), u))

	tok, err := codec.Issue("ada@example.com", nil, time.Now())
	require.NoError(t, err)

	w, identity := serveWithAuth(t, codec, store, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, identity)
	assert.Equal(t, []string{user.RoleAdmin, user.RoleUser}, identity.Roles)
}

func TestAuthenticate_EmptyRolesUnknownSubject(t *testing.T) {
	codec := newCodec(t)

	tok, err := codec.Issue("ghost@example.com", nil, time.Now())
	require.NoError(t, err)

	w, identity := serveWithAuth(t, codec, user.NewMemoryStore(), "Bearer "+tok)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, identity)
}

func TestAuthenticate_EmptyRolesDisabledSubject(t *testing.T) {
	codec := newCodec(t)
	store := user.NewMemoryStore()

	u := &user.User{
		FullName:     "Ada L",
		Email:        "ada@example.com",
		PasswordHash: "$2a$04$notarealhash",
		Roles:        []string{user.RoleUser},
		Enabled:      true,
	}
	require.NoError(t, store.Create(context.Background(), u))
	require.NoError(t, store.SetEnabled(u.ID, false))

	tok, err := codec.Issue("ada@example.com", nil, time.Now())
	require.NoError(t, err)

	w, identity := serveWithAuth(t, codec, store, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, identity)
}

// brokenStore fails every operation, simulating an unreachable database.
type brokenStore struct{}

var errStoreDown = errors.New("store unavailable")

func (brokenStore) Create(context.Context, *user.User) error { return errStoreDown }
func (brokenStore) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, errStoreDown
}
func (brokenStore) FindByID(context.Context, uuid.UUID) (*user.User, error) {
	return nil, errStoreDown
}
func (brokenStore) ExistsByEmail(context.Context, string) (bool, error) { return false, errStoreDown }
func (brokenStore) CountAll(context.Context) (int, error)               { return 0, errStoreDown }

func TestAuthenticate_StoreFailureDegradesToAnonymous(t *testing.T) {
	codec := newCodec(t)

	tok, err := codec.Issue("ada@example.com", nil, time.Now())
	require.NoError(t, err)

	w, identity := serveWithAuth(t, codec, brokenStore{}, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, identity)
}

// panicStore panics on lookup; the authenticator must contain it.
type panicStore struct{ brokenStore }

func (panicStore) FindByEmail(context.Context, string) (*user.User, error) {
	panic("store blew up")
}

func TestAuthenticate_PanicDegradesToAnonymous(t *testing.T) {
	codec := newCodec(t)

	tok, err := codec.Issue("ada@example.com", nil, time.Now())
	require.NoError(t, err)

	w, identity := serveWithAuth(t, codec, panicStore{}, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, identity)
}
