package travel

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested travel package does not exist.
var ErrNotFound = errors.New("travel package not found")

// Package is a marketed travel package. DisplayPrice is the formatted string
// shown on the site (e.g. "₹12,000"); the numeric per-day, per-person price
// the cart math uses is derived from it via UnitPrice.
type Package struct {
	ID           string
	Name         string
	Destination  string
	Days         int
	DisplayPrice string
	VisaFee      decimal.Decimal
	ImageURL     string
}

// UnitPrice parses the numeric per-day, per-person price out of the
// formatted display price. A catalog row whose price cannot be parsed is a
// malformed store record, reported as an error at this boundary instead of
// leaking into the pricing math.
func (p Package) UnitPrice() (decimal.Decimal, error) {
	return ParseAmount(p.DisplayPrice)
}

// Repository defines read operations for the package catalog.
type Repository interface {
	List(ctx context.Context) ([]Package, error)
	GetByID(ctx context.Context, id string) (*Package, error)
}
