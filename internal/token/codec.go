// Package token issues and verifies the signed access tokens that carry
// a user's identity between requests. Tokens are self-contained HS256
// JWTs; nothing is persisted and nothing can be revoked before expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum signing secret length in bytes.
// HS256 requires key material of at least the hash output size.
const MinSecretLen = 32

var (
	// ErrMalformed is returned when a token does not have the expected structure.
	ErrMalformed = errors.New("token is malformed")

	// ErrInvalidSignature is returned when a token's signature does not verify.
	ErrInvalidSignature = errors.New("token signature is invalid")

	// ErrExpired is returned when a token's signature verifies but its
	// expiry has passed.
	ErrExpired = errors.New("token is expired")
)

// Claims are the verified contents of an issued token. Roles is a
// snapshot taken at issuance; it is not re-checked against the store
// while the token lives.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed tokens with a fixed secret and TTL.
// It is immutable after construction and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec. Secrets shorter than MinSecretLen bytes are
// a configuration error and are rejected.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	if ttl <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for subject, valid from now until
// now + TTL. The roles claim is embedded only when roles is non-empty.
func (c *Codec) Issue(subject string, roles []string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	if len(roles) > 0 {
		claims.Roles = roles
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseAndVerify checks tokenString's signature and expiry against now
// and returns its claims. The signature is verified before any claim is
// trusted; the parser only validates expiry after verification succeeds.
// Failures map to ErrMalformed, ErrInvalidSignature or ErrExpired, all
// terminal for the token.
func (c *Codec) ParseAndVerify(tokenString string, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrMalformed
		}
	}

	return claims, nil
}
