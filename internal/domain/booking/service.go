package booking

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/travelgenz/booking-api/internal/domain/cart"
	"github.com/travelgenz/booking-api/internal/domain/coupon"
	"github.com/travelgenz/booking-api/internal/domain/discount"
	"github.com/travelgenz/booking-api/internal/domain/travel"
)

var hundred = decimal.NewFromInt(100)

// Service finalizes bookings: it converts a cart draft (or a fresh package
// selection) into a booked record, optionally applying a single-item coupon.
type Service struct {
	carts     cart.Repository
	packages  travel.Repository
	coupons   coupon.Repository
	validator *coupon.Validator
	now       func() time.Time
}

// NewService creates a booking Service with the required domain dependencies.
func NewService(
	carts cart.Repository,
	packages travel.Repository,
	coupons coupon.Repository,
	validator *coupon.Validator,
) *Service {
	return &Service{
		carts:     carts,
		packages:  packages,
		coupons:   coupons,
		validator: validator,
		now:       time.Now,
	}
}

// Submit finalizes a booking. The write is a single insert or update, so no
// partial state is committed on failure. When a coupon was applied, it is
// consumed after the booking write succeeds; a failed consumption is
// returned alongside the booked item so the caller can log it.
func (s *Service) Submit(ctx context.Context, req Request) (*cart.Item, error) {
	if req.OwnerID == "" {
		return nil, coupon.ErrUnauthenticated
	}
	if strings.TrimSpace(req.ContactPhone) == "" {
		return nil, ErrMissingContact
	}

	item, fresh, err := s.resolveItem(ctx, req)
	if err != nil {
		return nil, err
	}

	var applied *coupon.ValidCoupon
	if req.CouponCode != "" {
		// Discounts are mutually exclusive here too: a draft already carrying
		// a cart-wide discount keeps its captured pre-discount price and does
		// not get a second coupon stacked on top.
		if item.Discounted() {
			return nil, discount.ErrAlreadyDiscounted
		}
		vc, err := s.validator.Validate(ctx, req.CouponCode, req.OwnerID)
		if err != nil {
			return nil, err
		}
		before := item.TotalPrice
		discounted := before.Sub(before.Mul(decimal.NewFromInt(vc.Percent)).Div(hundred)).Round(2)
		label := vc.Label()

		item.PriceBeforeDiscount = &before
		item.TotalPrice = discounted
		item.AppliedCouponLabel = &label
		applied = vc
	}

	now := s.now()
	item.ContactPhone = strings.TrimSpace(req.ContactPhone)
	item.BestTimeToConnect = req.BestTimeToConnect
	item.State = cart.StateBooked
	item.UpdatedAt = now

	if fresh {
		item.CreatedAt = now
		err = s.carts.Insert(ctx, item)
	} else {
		err = s.carts.MarkBooked(ctx, item)
	}
	if err != nil {
		return nil, errors.Wrap(err, "write booking")
	}

	if applied != nil {
		if err := s.coupons.MarkUsed(ctx, applied.Coupon.Code, now); err != nil && !errors.Is(err, coupon.ErrAlreadyUsed) {
			// The booking stands; the consumption failure is the caller's to log.
			return item, errors.Wrap(err, "consume coupon")
		}
	}
	return item, nil
}

// resolveItem loads the draft being finalized, or builds a new item from a
// package selection when booking directly from a package page.
func (s *Service) resolveItem(ctx context.Context, req Request) (item *cart.Item, fresh bool, err error) {
	if req.CartItemID != "" {
		existing, err := s.carts.GetByID(ctx, req.CartItemID)
		if err != nil {
			return nil, false, err
		}
		if existing.OwnerID != req.OwnerID {
			return nil, false, cart.ErrNotFound
		}
		if existing.State == cart.StateBooked {
			return nil, false, cart.ErrItemBooked
		}
		if req.SelectedDate != nil {
			existing.SelectedDate = req.SelectedDate
		}
		return existing, false, nil
	}

	pkg, err := s.packages.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, false, err
	}

	unitPrice, err := pkg.UnitPrice()
	if err != nil {
		return nil, false, errors.Wrapf(err, "package %s", pkg.ID)
	}

	days := req.Days
	if days == 0 {
		days = pkg.Days
	}
	members := req.MemberCount
	if members == 0 {
		members = 1
	}

	built, err := cart.Recompute(cart.Item{
		ID:           uuid.New().String(),
		OwnerID:      req.OwnerID,
		PackageID:    pkg.ID,
		WithFlights:  req.WithFlights,
		WithVisa:     req.WithVisa,
		SelectedDate: req.SelectedDate,
		State:        cart.StateDraft,
	}, unitPrice, days, members)
	if err != nil {
		return nil, false, err
	}
	if req.WithVisa {
		built.VisaCost = pkg.VisaFee
	}
	return &built, true, nil
}
