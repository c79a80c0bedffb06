package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// BookingState is the lifecycle state of a cart item.
type BookingState string

const (
	// StateDraft is an editable pending selection.
	StateDraft BookingState = "draft"
	// StateBooked is a finalized request; booked items are visible but no
	// longer price-mutable by ordinary cart edits.
	StateBooked BookingState = "booked"
)

var (
	// ErrNotFound is returned when a cart item does not exist for the owner.
	ErrNotFound = errors.New("cart item not found")
	// ErrInvalidQuantity is returned when days or member count drop below 1.
	ErrInvalidQuantity = errors.New("days and member count must be at least 1")
	// ErrItemBooked is returned when an edit targets a finalized item.
	ErrItemBooked = errors.New("booked item is no longer editable")
)

// Item is a booking draft: one configured travel package in a user's cart.
// TotalPrice excludes VisaCost. PriceBeforeDiscount and AppliedCouponLabel
// are set and cleared together — they are non-nil only while a coupon
// discount is reflected in TotalPrice.
type Item struct {
	ID                  string
	OwnerID             string
	PackageID           string
	Days                int
	MemberCount         int
	WithFlights         bool
	WithVisa            bool
	VisaCost            decimal.Decimal
	SelectedDate        *time.Time
	TotalPrice          decimal.Decimal
	PriceBeforeDiscount *decimal.Decimal
	AppliedCouponLabel  *string
	State               BookingState
	ContactPhone        string
	BestTimeToConnect   string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Discounted reports whether a coupon discount is currently applied.
func (i *Item) Discounted() bool {
	return i.PriceBeforeDiscount != nil
}

// Repository provides cart item persistence. Single-item updates are assumed
// atomic at the store level; there is no multi-item transaction.
type Repository interface {
	Insert(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	ListDrafts(ctx context.Context, ownerID string) ([]Item, error)
	// UpdateQuantity persists days, member count, total price, and the
	// (cleared) discount fields from item.
	UpdateQuantity(ctx context.Context, item *Item) error
	// UpdateDiscount writes a discounted price together with the captured
	// pre-discount price and coupon label.
	UpdateDiscount(ctx context.Context, id string, total, before decimal.Decimal, label string) error
	UpdateVisa(ctx context.Context, id string, withVisa bool, visaCost decimal.Decimal) error
	// MarkBooked persists the finalized fields and flips the state to booked.
	MarkBooked(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id, ownerID string) error
}
