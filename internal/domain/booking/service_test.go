package booking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelgenz/booking-api/internal/domain/cart"
	"github.com/travelgenz/booking-api/internal/domain/coupon"
	"github.com/travelgenz/booking-api/internal/domain/discount"
	"github.com/travelgenz/booking-api/internal/domain/travel"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type memCartRepo struct {
	items map[string]*cart.Item
}

func newMemCartRepo(items ...*cart.Item) *memCartRepo {
	m := &memCartRepo{items: make(map[string]*cart.Item)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *memCartRepo) Insert(_ context.Context, item *cart.Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *memCartRepo) GetByID(_ context.Context, id string) (*cart.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memCartRepo) ListDrafts(_ context.Context, ownerID string) ([]cart.Item, error) {
	var out []cart.Item
	for _, it := range m.items {
		if it.OwnerID == ownerID && it.State == cart.StateDraft {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memCartRepo) UpdateQuantity(_ context.Context, item *cart.Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *memCartRepo) UpdateDiscount(_ context.Context, id string, total, before decimal.Decimal, label string) error {
	it := m.items[id]
	it.TotalPrice = total
	it.PriceBeforeDiscount = &before
	it.AppliedCouponLabel = &label
	return nil
}

func (m *memCartRepo) UpdateVisa(_ context.Context, id string, withVisa bool, visaCost decimal.Decimal) error {
	it := m.items[id]
	it.WithVisa = withVisa
	it.VisaCost = visaCost
	return nil
}

func (m *memCartRepo) MarkBooked(_ context.Context, item *cart.Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *memCartRepo) Delete(_ context.Context, id, _ string) error {
	delete(m.items, id)
	return nil
}

type memCouponRepo struct {
	coupons map[string]*coupon.Coupon
}

func newMemCouponRepo(coupons ...*coupon.Coupon) *memCouponRepo {
	m := &memCouponRepo{coupons: make(map[string]*coupon.Coupon)}
	for _, c := range coupons {
		m.coupons[c.Code] = c
	}
	return m
}

func (m *memCouponRepo) Insert(_ context.Context, c *coupon.Coupon) error {
	m.coupons[c.Code] = c
	return nil
}

func (m *memCouponRepo) FindForOwner(_ context.Context, code, ownerID string) (*coupon.Coupon, error) {
	c, ok := m.coupons[code]
	if !ok || (c.OwnerID != "" && c.OwnerID != ownerID) {
		return nil, coupon.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCouponRepo) MarkUsed(_ context.Context, code string, at time.Time) error {
	c, ok := m.coupons[code]
	if !ok {
		return coupon.ErrNotFound
	}
	if c.Used {
		return coupon.ErrAlreadyUsed
	}
	c.Used = true
	c.UsedAt = &at
	return nil
}

func (m *memCouponRepo) ListOffers(_ context.Context) ([]coupon.Offer, error) {
	return nil, nil
}

type memPackageRepo struct {
	packages map[string]*travel.Package
}

func (m *memPackageRepo) List(_ context.Context) ([]travel.Package, error) {
	var out []travel.Package
	for _, p := range m.packages {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPackageRepo) GetByID(_ context.Context, id string) (*travel.Package, error) {
	p, ok := m.packages[id]
	if !ok {
		return nil, travel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func goaPackage() *travel.Package {
	return &travel.Package{
		ID:           "goa-4d",
		Name:         "Goa Getaway",
		Destination:  "Goa",
		Days:         4,
		DisplayPrice: "₹12,000",
		VisaFee:      dec("0"),
	}
}

func newService(carts cart.Repository, coupons coupon.Repository, packages travel.Repository) *Service {
	return NewService(carts, packages, coupons, coupon.NewValidator(coupons))
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("missing phone writes nothing", func(t *testing.T) {
		carts := newMemCartRepo(&cart.Item{ID: "i1", OwnerID: "u1", State: cart.StateDraft, TotalPrice: dec("100")})
		s := newService(carts, newMemCouponRepo(), &memPackageRepo{packages: map[string]*travel.Package{"goa-4d": goaPackage()}})

		_, err := s.Submit(ctx, Request{CartItemID: "i1", OwnerID: "u1", ContactPhone: "   "})
		require.ErrorIs(t, err, ErrMissingContact)

		it, _ := carts.GetByID(ctx, "i1")
		assert.Equal(t, cart.StateDraft, it.State)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		s := newService(newMemCartRepo(), newMemCouponRepo(), &memPackageRepo{})

		_, err := s.Submit(ctx, Request{CartItemID: "i1", ContactPhone: "555-0100"})
		require.ErrorIs(t, err, coupon.ErrUnauthenticated)
	})

	t.Run("finalizes an existing draft", func(t *testing.T) {
		carts := newMemCartRepo(&cart.Item{
			ID: "i1", OwnerID: "u1", PackageID: "goa-4d",
			Days: 4, MemberCount: 2, TotalPrice: dec("96000"),
			State: cart.StateDraft,
		})
		s := newService(carts, newMemCouponRepo(), &memPackageRepo{packages: map[string]*travel.Package{"goa-4d": goaPackage()}})

		booked, err := s.Submit(ctx, Request{
			CartItemID:        "i1",
			OwnerID:           "u1",
			ContactPhone:      "555-0100",
			BestTimeToConnect: "evening",
		})
		require.NoError(t, err)
		assert.Equal(t, cart.StateBooked, booked.State)
		assert.Equal(t, "555-0100", booked.ContactPhone)
		assert.False(t, booked.UpdatedAt.IsZero())

		it, _ := carts.GetByID(ctx, "i1")
		assert.Equal(t, cart.StateBooked, it.State)
	})

	t.Run("books directly from a package page", func(t *testing.T) {
		carts := newMemCartRepo()
		s := newService(carts, newMemCouponRepo(), &memPackageRepo{packages: map[string]*travel.Package{"goa-4d": goaPackage()}})

		booked, err := s.Submit(ctx, Request{
			PackageID:    "goa-4d",
			OwnerID:      "u1",
			Days:         4,
			MemberCount:  2,
			ContactPhone: "555-0100",
		})
		require.NoError(t, err)
		assert.Equal(t, cart.StateBooked, booked.State)
		assert.True(t, booked.TotalPrice.Equal(dec("96000")), "got %s", booked.TotalPrice)
		assert.NotEmpty(t, booked.ID)

		// Inserted directly in booked state.
		it, err := carts.GetByID(ctx, booked.ID)
		require.NoError(t, err)
		assert.Equal(t, cart.StateBooked, it.State)
	})

	t.Run("single-item coupon discounts and is consumed", func(t *testing.T) {
		carts := newMemCartRepo(&cart.Item{
			ID: "i1", OwnerID: "u1", PackageID: "goa-4d",
			Days: 1, MemberCount: 1, TotalPrice: dec("1000"),
			State: cart.StateDraft,
		})
		promo := &coupon.Coupon{
			Code:          "WELCOME20",
			DiscountLabel: "20% off",
			ExpiresAt:     time.Now().AddDate(0, 0, 7),
		}
		s := newService(carts, newMemCouponRepo(promo), &memPackageRepo{packages: map[string]*travel.Package{"goa-4d": goaPackage()}})

		booked, err := s.Submit(ctx, Request{
			CartItemID:   "i1",
			OwnerID:      "u1",
			ContactPhone: "555-0100",
			CouponCode:   "welcome20",
		})
		require.NoError(t, err)
		assert.True(t, booked.TotalPrice.Equal(dec("800")), "got %s", booked.TotalPrice)
		require.NotNil(t, booked.PriceBeforeDiscount)
		assert.True(t, booked.PriceBeforeDiscount.Equal(dec("1000")))
		require.NotNil(t, booked.AppliedCouponLabel)
		assert.Equal(t, "WELCOME20 (20% off)", *booked.AppliedCouponLabel)
		assert.True(t, promo.Used, "every discounting path consumes the coupon")
	})

	t.Run("no second coupon on a discounted draft", func(t *testing.T) {
		before := dec("1000")
		label := "TRAVELGENZ1A2B3C (20% off)"
		carts := newMemCartRepo(&cart.Item{
			ID: "i1", OwnerID: "u1", PackageID: "goa-4d",
			Days: 1, MemberCount: 1,
			TotalPrice:          dec("800"),
			PriceBeforeDiscount: &before,
			AppliedCouponLabel:  &label,
			State:               cart.StateDraft,
		})
		promo := &coupon.Coupon{
			Code:          "WELCOME10",
			DiscountLabel: "10% off",
			ExpiresAt:     time.Now().AddDate(0, 0, 7),
		}
		s := newService(carts, newMemCouponRepo(promo), &memPackageRepo{packages: map[string]*travel.Package{"goa-4d": goaPackage()}})

		_, err := s.Submit(ctx, Request{
			CartItemID:   "i1",
			OwnerID:      "u1",
			ContactPhone: "555-0100",
			CouponCode:   "WELCOME10",
		})
		require.ErrorIs(t, err, discount.ErrAlreadyDiscounted)
		assert.False(t, promo.Used, "rejected coupon stays unconsumed")

		// The existing discount and its captured basis are untouched.
		it, _ := carts.GetByID(ctx, "i1")
		assert.Equal(t, cart.StateDraft, it.State)
		assert.True(t, it.TotalPrice.Equal(dec("800")))
		require.NotNil(t, it.PriceBeforeDiscount)
		assert.True(t, it.PriceBeforeDiscount.Equal(dec("1000")))
	})

	t.Run("invalid coupon blocks the booking", func(t *testing.T) {
		carts := newMemCartRepo(&cart.Item{
			ID: "i1", OwnerID: "u1", State: cart.StateDraft, TotalPrice: dec("1000"),
		})
		used := &coupon.Coupon{
			Code: "WELCOME20", DiscountLabel: "20% off",
			ExpiresAt: time.Now().AddDate(0, 0, 7), Used: true,
		}
		s := newService(carts, newMemCouponRepo(used), &memPackageRepo{})

		_, err := s.Submit(ctx, Request{
			CartItemID: "i1", OwnerID: "u1",
			ContactPhone: "555-0100", CouponCode: "WELCOME20",
		})
		require.ErrorIs(t, err, coupon.ErrAlreadyUsed)

		it, _ := carts.GetByID(ctx, "i1")
		assert.Equal(t, cart.StateDraft, it.State, "no write on validation failure")
	})

	t.Run("booked items cannot be re-finalized", func(t *testing.T) {
		carts := newMemCartRepo(&cart.Item{ID: "i1", OwnerID: "u1", State: cart.StateBooked})
		s := newService(carts, newMemCouponRepo(), &memPackageRepo{})

		_, err := s.Submit(ctx, Request{CartItemID: "i1", OwnerID: "u1", ContactPhone: "555-0100"})
		require.ErrorIs(t, err, cart.ErrItemBooked)
	})

	t.Run("someone else's draft is not found", func(t *testing.T) {
		carts := newMemCartRepo(&cart.Item{ID: "i1", OwnerID: "u2", State: cart.StateDraft})
		s := newService(carts, newMemCouponRepo(), &memPackageRepo{})

		_, err := s.Submit(ctx, Request{CartItemID: "i1", OwnerID: "u1", ContactPhone: "555-0100"})
		require.ErrorIs(t, err, cart.ErrNotFound)
	})
}
