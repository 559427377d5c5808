package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user record is not found.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned when creating a user whose email already
// exists. The store's unique index is the authoritative uniqueness
// check; callers treat this the same as a pre-insert duplicate.
var ErrEmailTaken = errors.New("email already taken")

// Store provides operations on the users table.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountAll(ctx context.Context) (int, error)
}
