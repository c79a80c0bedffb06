package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/travelgenz/booking-api/internal/domain/cart"
)

const (
	cartColumns = `id, owner_id, package_id, days, member_count, with_flights, with_visa, visa_cost,
		selected_date, total_price, price_before_discount, applied_coupon_label,
		booking_state, contact_phone, best_time_to_connect, created_at, updated_at`

	insertCartItemSQL = `INSERT INTO cart_items
		(id, owner_id, package_id, days, member_count, with_flights, with_visa, visa_cost,
		 selected_date, total_price, price_before_discount, applied_coupon_label,
		 booking_state, contact_phone, best_time_to_connect, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	getCartItemSQL = `SELECT ` + cartColumns + ` FROM cart_items WHERE id = $1`

	listDraftsSQL = `SELECT ` + cartColumns + ` FROM cart_items
		WHERE owner_id = $1 AND booking_state = 'draft' ORDER BY created_at`

	updateQuantitySQL = `UPDATE cart_items
		SET days = $2, member_count = $3, total_price = $4,
		    price_before_discount = NULL, applied_coupon_label = NULL,
		    updated_at = now()
		WHERE id = $1 AND booking_state = 'draft'`

	updateDiscountSQL = `UPDATE cart_items
		SET total_price = $2, price_before_discount = $3, applied_coupon_label = $4,
		    updated_at = now()
		WHERE id = $1 AND booking_state = 'draft'`

	updateVisaSQL = `UPDATE cart_items
		SET with_visa = $2, visa_cost = $3, updated_at = now()
		WHERE id = $1 AND booking_state = 'draft'`

	markBookedSQL = `UPDATE cart_items
		SET days = $2, member_count = $3, with_flights = $4, with_visa = $5, visa_cost = $6,
		    selected_date = $7, total_price = $8, price_before_discount = $9,
		    applied_coupon_label = $10, booking_state = 'booked',
		    contact_phone = $11, best_time_to_connect = $12, updated_at = $13
		WHERE id = $1 AND booking_state = 'draft'`

	deleteCartItemSQL = `DELETE FROM cart_items
		WHERE id = $1 AND owner_id = $2 AND booking_state = 'draft'`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Every write
// targets a single row; the booking_state guard keeps ordinary cart edits off
// finalized items.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Insert persists a new cart item (draft or directly booked).
func (r *CartRepository) Insert(ctx context.Context, it *cart.Item) error {
	_, err := r.pool.Exec(ctx, insertCartItemSQL,
		it.ID, it.OwnerID, it.PackageID, it.Days, it.MemberCount,
		it.WithFlights, it.WithVisa, it.VisaCost,
		it.SelectedDate, it.TotalPrice, it.PriceBeforeDiscount, it.AppliedCouponLabel,
		string(it.State), it.ContactPhone, it.BestTimeToConnect,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting cart item %q: %w", it.ID, err)
	}
	return nil
}

// GetByID returns a single cart item.
func (r *CartRepository) GetByID(ctx context.Context, id string) (*cart.Item, error) {
	rows, err := r.pool.Query(ctx, getCartItemSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting cart item %q: %w", id, err)
	}

	it, err := pgx.CollectExactlyOneRow(rows, scanCartItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("getting cart item %q: %w", id, err)
	}
	return &it, nil
}

// ListDrafts returns the owner's editable cart items, oldest first.
func (r *CartRepository) ListDrafts(ctx context.Context, ownerID string) ([]cart.Item, error) {
	rows, err := r.pool.Query(ctx, listDraftsSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing drafts for %q: %w", ownerID, err)
	}
	return pgx.CollectRows(rows, scanCartItem)
}

// UpdateQuantity persists a reconciled item: new quantities, the recomputed
// price, and cleared discount fields, in one write.
func (r *CartRepository) UpdateQuantity(ctx context.Context, it *cart.Item) error {
	tag, err := r.pool.Exec(ctx, updateQuantitySQL, it.ID, it.Days, it.MemberCount, it.TotalPrice)
	if err != nil {
		return fmt.Errorf("updating quantity for %q: %w", it.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

// UpdateDiscount writes a discounted price with its captured pre-discount
// value and label.
func (r *CartRepository) UpdateDiscount(ctx context.Context, id string, total, before decimal.Decimal, label string) error {
	tag, err := r.pool.Exec(ctx, updateDiscountSQL, id, total, before, label)
	if err != nil {
		return fmt.Errorf("updating discount for %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

// UpdateVisa toggles the visa add-on without touching the discount fields.
func (r *CartRepository) UpdateVisa(ctx context.Context, id string, withVisa bool, visaCost decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx, updateVisaSQL, id, withVisa, visaCost)
	if err != nil {
		return fmt.Errorf("updating visa for %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

// MarkBooked finalizes a draft in a single write.
func (r *CartRepository) MarkBooked(ctx context.Context, it *cart.Item) error {
	tag, err := r.pool.Exec(ctx, markBookedSQL,
		it.ID, it.Days, it.MemberCount, it.WithFlights, it.WithVisa, it.VisaCost,
		it.SelectedDate, it.TotalPrice, it.PriceBeforeDiscount, it.AppliedCouponLabel,
		it.ContactPhone, it.BestTimeToConnect, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("booking cart item %q: %w", it.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

// Delete removes a draft owned by the given user.
func (r *CartRepository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, deleteCartItemSQL, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting cart item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var (
		it    cart.Item
		state string
	)
	err := row.Scan(
		&it.ID, &it.OwnerID, &it.PackageID, &it.Days, &it.MemberCount,
		&it.WithFlights, &it.WithVisa, &it.VisaCost,
		&it.SelectedDate, &it.TotalPrice, &it.PriceBeforeDiscount, &it.AppliedCouponLabel,
		&state, &it.ContactPhone, &it.BestTimeToConnect,
		&it.CreatedAt, &it.UpdatedAt,
	)
	it.State = cart.BookingState(state)
	return it, err
}
