package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Validator checks whether a coupon code is usable by a given user. Validate
// is a pure read: it never mutates the coupon, so the UI may call it both for
// the wheel auto-apply path and the manual apply-button path.
type Validator struct {
	repo Repository
	now  func() time.Time
}

// NewValidator creates a Validator backed by the given Repository.
func NewValidator(repo Repository) *Validator {
	return &Validator{repo: repo, now: time.Now}
}

// Validate normalizes the code, looks it up for the owner, and checks the
// used flag, expiry, and that the discount label carries a percentage.
func (v *Validator) Validate(ctx context.Context, code, ownerID string) (*ValidCoupon, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	code = strings.ToUpper(strings.TrimSpace(code))

	c, err := v.repo.FindForOwner(ctx, code, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	if c.Used {
		return nil, ErrAlreadyUsed
	}
	if c.ExpiresAt.Before(v.now()) {
		return nil, ErrExpired
	}

	pct, err := ExtractPercent(c.DiscountLabel)
	if err != nil {
		return nil, err
	}

	return &ValidCoupon{Coupon: *c, Percent: pct}, nil
}
