package user

import (
	"time"

	"github.com/google/uuid"
)

// Role tags. Every registered user gets RoleUser; RoleAdmin is only
// assigned through bootstrap or manual promotion.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a row in the users table. Email is stored normalized
// (trimmed, lower-cased) and is unique. PasswordHash never leaves the
// service in API responses.
type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash string
	Roles        []string
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
