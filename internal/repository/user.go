package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelgenz/booking-api/internal/domain/user"
)

const findUserByTokenHashSQL = `SELECT id, email, token_hash FROM users WHERE token_hash = $1`

var _ user.Repository = (*UserRepository)(nil)

// UserRepository provides session token lookups backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByTokenHash looks up a user by the SHA-256 hash of their session token.
// The stored hash is returned alongside the identity so the caller can do a
// constant-time comparison.
func (r *UserRepository) FindByTokenHash(ctx context.Context, hash string) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, findUserByTokenHashSQL, hash).Scan(&u.ID, &u.Email, &u.TokenHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("finding user by token hash: %w", err)
	}
	return &u, nil
}
