// Package user models the external authentication collaborator. Accounts are
// created and destroyed elsewhere; this core only resolves a session token to
// an identity.
package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no user matches the given token hash.
var ErrNotFound = errors.New("user not found")

// User is the signed-in identity that owns coupons and cart items.
// TokenHash is the stored SHA-256 hash of the session token, kept for the
// API layer's constant-time comparison.
type User struct {
	ID        string
	Email     string
	TokenHash string
}

// Repository provides session token lookups.
type Repository interface {
	FindByTokenHash(ctx context.Context, hash string) (*User, error)
}
