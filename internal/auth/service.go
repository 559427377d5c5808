package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/somyu/user-service/internal/token"
	"github.com/somyu/user-service/internal/user"
)

// ErrEmailAlreadyUsed is returned when registering with an email that
// already has an account.
var ErrEmailAlreadyUsed = errors.New("email is already registered")

// ErrInvalidCredentials is returned for every login failure: unknown
// email, disabled account, wrong password. Callers must not be able to
// tell which, to avoid email enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service provides registration and login operations.
type Service struct {
	store  user.Store
	hasher Hasher
	codec  *token.Codec
}

// NewService creates a new auth Service.
func NewService(store user.Store, hasher Hasher, codec *token.Codec) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		codec:  codec,
	}
}

// NormalizeEmail trims and lower-cases an email address. Emails are
// normalized once at the boundary so every store lookup and uniqueness
// check sees the same form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new enabled user with the USER role. The password
// is hashed before the user is constructed; the raw form is never
// stored. A duplicate email fails with ErrEmailAlreadyUsed, whether it
// is caught by the pre-insert check or by the store's unique index.
func (s *Service) Register(ctx context.Context, fullName, email, rawPassword string) (*user.User, error) {
	email = NormalizeEmail(email)

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &user.User{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{user.RoleUser},
		Enabled:      true,
	}

	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return u, nil
}

// LoginResult is the non-secret summary returned alongside an issued
// token.
type LoginResult struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	Roles     []string
	ExpiresIn time.Duration
}

// Login verifies credentials and issues a token carrying the user's
// current roles. Unknown email, disabled account and wrong password all
// fail with the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, rawPassword string, now time.Time) (*LoginResult, error) {
	email = NormalizeEmail(email)

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !u.Enabled {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(rawPassword, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tok, err := s.codec.Issue(u.Email, u.Roles, now)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &LoginResult{
		Token:     tok,
		UserID:    u.ID,
		Email:     u.Email,
		Roles:     u.Roles,
		ExpiresIn: s.codec.TTL(),
	}, nil
}

// BootstrapAdmin creates the initial admin account if the users table
// is empty. Returns the generated password (only displayed once); empty
// string if users already exist.
func (s *Service) BootstrapAdmin(ctx context.Context) (string, error) {
	count, err := s.store.CountAll(ctx)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return "", nil
	}

	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating admin password: %w", err)
	}
	rawPassword := base64.RawURLEncoding.EncodeToString(b)

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("hashing admin password: %w", err)
	}

	u := &user.User{
		FullName:     "Administrator",
		Email:        "admin@localhost",
		PasswordHash: hash,
		Roles:        []string{user.RoleAdmin, user.RoleUser},
		Enabled:      true,
	}

	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			// Lost a race against another instance bootstrapping.
			return "", nil
		}
		return "", fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("Admin account created", "email", u.Email, "password", rawPassword)

	return rawPassword, nil
}
