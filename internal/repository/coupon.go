package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelgenz/booking-api/internal/domain/coupon"
)

const (
	insertCouponSQL = `INSERT INTO coupons (code, owner_id, discount_label, offer_title, expires_at, used, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, FALSE, $6)`

	findCouponSQL = `SELECT code, owner_id, discount_label, offer_title, expires_at, used, used_at, created_at
		FROM coupons
		WHERE code = $1 AND (owner_id = $2::uuid OR owner_id IS NULL)`

	// The used = FALSE guard keeps consumption at-most-once without a
	// transaction: a second marker sees zero affected rows.
	markCouponUsedSQL = `UPDATE coupons SET used = TRUE, used_at = $2
		WHERE code = $1 AND used = FALSE`

	listOffersSQL = `SELECT id, title, discount_label, weight FROM wheel_offers ORDER BY weight DESC, id`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert persists a freshly generated coupon. Shared promo codes carry an
// empty owner, stored as NULL.
func (r *CouponRepository) Insert(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, insertCouponSQL,
		c.Code, c.OwnerID, c.DiscountLabel, c.OfferTitle, c.ExpiresAt, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting coupon %q: %w", c.Code, err)
	}
	return nil
}

// FindForOwner looks up a coupon usable by the given user: either owned by
// them or a shared NULL-owner promo code.
func (r *CouponRepository) FindForOwner(ctx context.Context, code, ownerID string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, findCouponSQL, code, ownerID)
	if err != nil {
		return nil, fmt.Errorf("finding coupon %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon %q: %w", code, err)
	}
	return &c, nil
}

// MarkUsed flips the used flag exactly once. A coupon already consumed yields
// coupon.ErrAlreadyUsed; an unknown code yields coupon.ErrNotFound.
func (r *CouponRepository) MarkUsed(ctx context.Context, code string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, markCouponUsedSQL, code, at)
	if err != nil {
		return fmt.Errorf("marking coupon %q used: %w", code, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1)`, code).Scan(&exists); err != nil {
		return fmt.Errorf("checking coupon %q: %w", code, err)
	}
	if !exists {
		return coupon.ErrNotFound
	}
	return coupon.ErrAlreadyUsed
}

// ListOffers returns the configured wheel segments, heaviest first.
func (r *CouponRepository) ListOffers(ctx context.Context) ([]coupon.Offer, error) {
	rows, err := r.pool.Query(ctx, listOffersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing wheel offers: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (coupon.Offer, error) {
		var o coupon.Offer
		err := row.Scan(&o.ID, &o.Title, &o.DiscountLabel, &o.Weight)
		return o, err
	})
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var (
		c       coupon.Coupon
		ownerID *string
	)
	err := row.Scan(
		&c.Code, &ownerID, &c.DiscountLabel, &c.OfferTitle,
		&c.ExpiresAt, &c.Used, &c.UsedAt, &c.CreatedAt,
	)
	if ownerID != nil {
		c.OwnerID = *ownerID
	}
	return c, err
}
