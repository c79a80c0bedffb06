package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	coupons   map[string]*Coupon
	insertErr error
	inserted  []*Coupon
	usedCodes []string
	markErr   error
	offers    []Offer
}

func newMockRepo(coupons ...*Coupon) *mockRepo {
	m := &mockRepo{coupons: make(map[string]*Coupon)}
	for _, c := range coupons {
		m.coupons[c.Code] = c
	}
	return m
}

func (m *mockRepo) Insert(_ context.Context, c *Coupon) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, c)
	m.coupons[c.Code] = c
	return nil
}

func (m *mockRepo) FindForOwner(_ context.Context, code, ownerID string) (*Coupon, error) {
	c, ok := m.coupons[code]
	if !ok || (c.OwnerID != "" && c.OwnerID != ownerID) {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockRepo) MarkUsed(_ context.Context, code string, at time.Time) error {
	if m.markErr != nil {
		return m.markErr
	}
	c, ok := m.coupons[code]
	if !ok {
		return ErrNotFound
	}
	if c.Used {
		return ErrAlreadyUsed
	}
	c.Used = true
	c.UsedAt = &at
	m.usedCodes = append(m.usedCodes, code)
	return nil
}

func (m *mockRepo) ListOffers(_ context.Context) ([]Offer, error) {
	return m.offers, nil
}

func TestValidator_Validate(t *testing.T) {
	fixedNow := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	future := fixedNow.AddDate(0, 0, 14)
	usedAt := fixedNow.Add(-time.Hour)

	tests := []struct {
		name        string
		coupons     []*Coupon
		code        string
		ownerID     string
		wantPercent int64
		wantErr     error
	}{
		{
			name: "valid owned coupon",
			coupons: []*Coupon{{
				Code: "TRAVELGENZAAAAAA", OwnerID: "u1",
				DiscountLabel: "15% off", ExpiresAt: future,
			}},
			code: "TRAVELGENZAAAAAA", ownerID: "u1",
			wantPercent: 15,
		},
		{
			name: "code is normalized before lookup",
			coupons: []*Coupon{{
				Code: "TRAVELGENZAAAAAA", OwnerID: "u1",
				DiscountLabel: "15% off", ExpiresAt: future,
			}},
			code: "  travelgenzaaaaaa ", ownerID: "u1",
			wantPercent: 15,
		},
		{
			name:    "unknown code",
			code:    "TRAVELGENZZZZZZZ",
			ownerID: "u1",
			wantErr: ErrNotFound,
		},
		{
			name: "coupon owned by someone else",
			coupons: []*Coupon{{
				Code: "TRAVELGENZAAAAAA", OwnerID: "u2",
				DiscountLabel: "15% off", ExpiresAt: future,
			}},
			code: "TRAVELGENZAAAAAA", ownerID: "u1",
			wantErr: ErrNotFound,
		},
		{
			name: "shared promo code validates for any user",
			coupons: []*Coupon{{
				Code:          "SUMMERSALE",
				DiscountLabel: "Get 10% off", ExpiresAt: future,
			}},
			code: "SUMMERSALE", ownerID: "u1",
			wantPercent: 10,
		},
		{
			name: "already used",
			coupons: []*Coupon{{
				Code: "TRAVELGENZAAAAAA", OwnerID: "u1",
				DiscountLabel: "15% off", ExpiresAt: future,
				Used: true, UsedAt: &usedAt,
			}},
			code: "TRAVELGENZAAAAAA", ownerID: "u1",
			wantErr: ErrAlreadyUsed,
		},
		{
			name: "expired one millisecond ago",
			coupons: []*Coupon{{
				Code: "TRAVELGENZAAAAAA", OwnerID: "u1",
				DiscountLabel: "15% off",
				ExpiresAt:     fixedNow.Add(-time.Millisecond),
			}},
			code: "TRAVELGENZAAAAAA", ownerID: "u1",
			wantErr: ErrExpired,
		},
		{
			name: "expires one millisecond from now",
			coupons: []*Coupon{{
				Code: "TRAVELGENZAAAAAA", OwnerID: "u1",
				DiscountLabel: "15% off",
				ExpiresAt:     fixedNow.Add(time.Millisecond),
			}},
			code: "TRAVELGENZAAAAAA", ownerID: "u1",
			wantPercent: 15,
		},
		{
			name: "label without percentage is rejected",
			coupons: []*Coupon{{
				Code: "TRAVELGENZAAAAAA", OwnerID: "u1",
				DiscountLabel: "Free upgrade", ExpiresAt: future,
			}},
			code: "TRAVELGENZAAAAAA", ownerID: "u1",
			wantErr: ErrNotPercentage,
		},
		{
			name:    "unauthenticated",
			code:    "TRAVELGENZAAAAAA",
			ownerID: "",
			wantErr: ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(newMockRepo(tt.coupons...))
			v.now = func() time.Time { return fixedNow }

			got, err := v.Validate(context.Background(), tt.code, tt.ownerID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPercent, got.Percent)
		})
	}
}

func TestValidator_ValidateIsSideEffectFree(t *testing.T) {
	fixedNow := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newMockRepo(&Coupon{
		Code: "TRAVELGENZAAAAAA", OwnerID: "u1",
		DiscountLabel: "20% off", ExpiresAt: fixedNow.AddDate(0, 0, 30),
	})
	v := NewValidator(repo)
	v.now = func() time.Time { return fixedNow }

	// The UI calls Validate for both the auto-apply and manual paths; repeat
	// calls must keep succeeding.
	for range 3 {
		got, err := v.Validate(context.Background(), "TRAVELGENZAAAAAA", "u1")
		require.NoError(t, err)
		assert.False(t, got.Coupon.Used)
	}
	assert.Empty(t, repo.usedCodes)
}
