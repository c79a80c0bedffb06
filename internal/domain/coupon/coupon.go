package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// CodePrefix starts every wheel-issued coupon code.
const CodePrefix = "TRAVELGENZ"

var (
	// ErrUnauthenticated is returned when an operation requires a signed-in user.
	ErrUnauthenticated = errors.New("user not authenticated")
	// ErrNotFound is returned when no coupon matches the code for the user.
	ErrNotFound = errors.New("coupon not found")
	// ErrAlreadyUsed is returned when the coupon has been consumed before.
	ErrAlreadyUsed = errors.New("coupon already used")
	// ErrExpired is returned when the coupon is past its expiry.
	ErrExpired = errors.New("coupon expired")
	// ErrNotPercentage is returned when the discount label carries no "N%"
	// token. Only percentage coupons are supported; anything else is rejected
	// rather than silently misapplied.
	ErrNotPercentage = errors.New("coupon is not a percentage discount")
	// ErrSpinNotAvailable is returned when the wheel was already spun today.
	ErrSpinNotAvailable = errors.New("wheel already spun today")
)

// Coupon is a single-use percentage discount owned by a user. Bulk-ingested
// promo codes have an empty OwnerID and validate for any signed-in user.
type Coupon struct {
	Code          string
	OwnerID       string
	DiscountLabel string
	OfferTitle    string
	ExpiresAt     time.Time
	Used          bool
	UsedAt        *time.Time
	CreatedAt     time.Time
}

// ValidCoupon pairs a usable coupon with the percentage extracted from its
// discount label.
type ValidCoupon struct {
	Coupon  Coupon
	Percent int64
}

// Label is the human string recorded on every cart item the coupon touches,
// e.g. "TRAVELGENZ1A2B3C (20% off)".
func (v ValidCoupon) Label() string {
	return v.Coupon.Code + " (" + v.Coupon.DiscountLabel + ")"
}

// Offer is one segment of the discount wheel.
type Offer struct {
	ID            string
	Title         string
	DiscountLabel string
	Weight        int
}

// Repository provides coupon persistence. MarkUsed must be guarded so a
// coupon is consumed at most once; implementations return ErrAlreadyUsed
// when the flag was already set.
type Repository interface {
	Insert(ctx context.Context, c *Coupon) error
	FindForOwner(ctx context.Context, code, ownerID string) (*Coupon, error)
	MarkUsed(ctx context.Context, code string, at time.Time) error
	ListOffers(ctx context.Context) ([]Offer, error)
}
