package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/travelgenz/booking-api/internal/domain/user"
)

// userKey is the context key for the authenticated user.
type userKey struct{}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey{}).(*user.User)
	return u, ok
}

// authenticate resolves the bearer session token to a user by hashing it,
// looking up the hash, and performing a constant-time comparison to prevent
// timing side-channels. It returns nil when the request carries no valid
// session.
func (h *Handler) authenticate(r *http.Request) *user.User {
	token := bearerToken(r)
	if token == "" {
		return nil
	}

	sum := sha256.Sum256([]byte(token))
	hexHash := hex.EncodeToString(sum[:])

	u, err := h.users.FindByTokenHash(r.Context(), hexHash)
	if err != nil {
		return nil
	}

	stored, err := hex.DecodeString(u.TokenHash)
	if err != nil {
		return nil
	}
	if subtle.ConstantTimeCompare(sum[:], stored) != 1 {
		return nil
	}
	return u
}

// authed wraps a handler that requires a signed-in user. Without one the
// request is rejected with 401 before any business logic runs.
func (h *Handler) authed(next func(w http.ResponseWriter, r *http.Request, u *user.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := h.authenticate(r)
		if u == nil {
			writeError(w, http.StatusUnauthorized, "sign in to continue")
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, u)
		next(w, r.WithContext(ctx), u)
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
