package booking

import (
	"time"

	"github.com/go-faster/errors"
)

// ErrMissingContact is returned when a booking request has no contact phone.
var ErrMissingContact = errors.New("contact phone is required")

// Request holds the input for finalizing a booking. Exactly one of
// CartItemID (finalize an existing draft) or PackageID (book directly from a
// package page) must be set.
type Request struct {
	CartItemID string
	PackageID  string
	OwnerID    string

	Days         int
	MemberCount  int
	WithFlights  bool
	WithVisa     bool
	SelectedDate *time.Time

	ContactPhone      string
	BestTimeToConnect string

	// CouponCode optionally applies a single-item discount inside the booking
	// dialog. It goes through the same validation and consumption rules as
	// the cart-wide path, scoped to this one price.
	CouponCode string
}
