// Package discount applies a validated coupon across a user's cart. The
// aggregate discount is distributed proportionally to each item's price,
// which by construction reduces every item by exactly the coupon's
// percentage of its own price.
package discount

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/travelgenz/booking-api/internal/domain/cart"
	"github.com/travelgenz/booking-api/internal/domain/coupon"
)

// ErrAlreadyDiscounted is returned when any draft item already carries a
// discount. Discounts are cart-wide and mutually exclusive, not stackable.
var ErrAlreadyDiscounted = errors.New("a discount is already applied to the cart")

var hundred = decimal.NewFromInt(100)

// Summary reports the outcome of a cart-wide coupon application.
type Summary struct {
	// Deferred is true when the cart had nothing to discount; the coupon is
	// kept for later and stays unused.
	Deferred   bool
	CouponCode string
	Percent    int64
	// Aggregate is the total amount removed from the cart.
	Aggregate decimal.Decimal
	// ItemsDiscounted counts items whose update write succeeded.
	ItemsDiscounted int
	// ItemsVerified counts items confirmed to carry the coupon label on
	// re-read. A value below ItemsDiscounted means the post-write check
	// could not see every update.
	ItemsVerified int
}

// Applicator distributes one coupon's discount across every draft item of a
// cart and consumes the coupon.
type Applicator struct {
	coupons coupon.Repository
	carts   cart.Repository
	now     func() time.Time
}

// NewApplicator creates an Applicator backed by the given repositories.
func NewApplicator(coupons coupon.Repository, carts cart.Repository) *Applicator {
	return &Applicator{coupons: coupons, carts: carts, now: time.Now}
}

// Apply distributes vc's discount across the owner's draft items and marks
// the coupon used. The item updates are independent best-effort writes; on
// partial failure the Summary still reports what was applied and the write
// error is returned alongside it, so callers can log it and re-read the
// cart. The coupon is consumed only when at least one price actually
// changed.
func (a *Applicator) Apply(ctx context.Context, vc coupon.ValidCoupon, ownerID string) (*Summary, error) {
	if ownerID == "" {
		return nil, coupon.ErrUnauthenticated
	}

	items, err := a.carts.ListDrafts(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	cartTotal := decimal.Zero
	for i := range items {
		if items[i].Discounted() {
			return nil, ErrAlreadyDiscounted
		}
		cartTotal = cartTotal.Add(items[i].TotalPrice)
	}

	sum := &Summary{CouponCode: vc.Coupon.Code, Percent: vc.Percent}

	// Empty or zero-priced carts leave the coupon saved for later: a coupon
	// is consumed only at the moment it actually changes a price.
	if len(items) == 0 || cartTotal.IsZero() {
		sum.Deferred = true
		return sum, nil
	}

	pct := decimal.NewFromInt(vc.Percent)
	label := vc.Label()

	// N independent writes, fanned out. No shared-context cancellation: one
	// failed item must not abort the rest of the best-effort batch.
	var applied atomic.Int64
	var g errgroup.Group
	for i := range items {
		it := items[i]
		g.Go(func() error {
			before := it.TotalPrice
			discounted := before.Sub(before.Mul(pct).Div(hundred)).Round(2)
			if err := a.carts.UpdateDiscount(ctx, it.ID, discounted, before, label); err != nil {
				return errors.Wrapf(err, "discount item %s", it.ID)
			}
			applied.Add(1)
			return nil
		})
	}
	writeErr := g.Wait()

	if applied.Load() == 0 {
		// Nothing changed, nothing consumed.
		return nil, errors.Wrap(writeErr, "apply discount")
	}

	sum.ItemsDiscounted = int(applied.Load())
	sum.Aggregate = cartTotal.Mul(pct).Div(hundred).Round(2)

	// At least one price moved, so the coupon is consumed now. MarkUsed is
	// guarded store-side, keeping consumption at-most-once.
	if err := a.coupons.MarkUsed(ctx, vc.Coupon.Code, a.now()); err != nil && !errors.Is(err, coupon.ErrAlreadyUsed) {
		return sum, errors.Wrap(err, "consume coupon")
	}

	// Post-write verification: re-read the drafts and count rows that carry
	// the label. There is no rollback; a mismatch surfaces to the caller.
	sum.ItemsVerified = a.verify(ctx, ownerID, label)

	return sum, writeErr
}

func (a *Applicator) verify(ctx context.Context, ownerID, label string) int {
	items, err := a.carts.ListDrafts(ctx, ownerID)
	if err != nil {
		return 0
	}
	n := 0
	for i := range items {
		if items[i].AppliedCouponLabel != nil && *items[i].AppliedCouponLabel == label {
			n++
		}
	}
	return n
}
