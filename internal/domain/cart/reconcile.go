package cart

import (
	"github.com/shopspring/decimal"
)

// Recompute reprices an item from its quantity attributes and clears any
// applied discount: a discount computed against the old quantities is invalid
// against the new ones and must not silently persist. VisaCost is never
// touched here; the visa add-on is an independent mutation.
func Recompute(item Item, unitPrice decimal.Decimal, days, members int) (Item, error) {
	if item.State == StateBooked {
		return Item{}, ErrItemBooked
	}
	if days < 1 || members < 1 {
		return Item{}, ErrInvalidQuantity
	}

	item.Days = days
	item.MemberCount = members
	item.TotalPrice = unitPrice.
		Mul(decimal.NewFromInt(int64(days))).
		Mul(decimal.NewFromInt(int64(members))).
		Round(2)
	item.PriceBeforeDiscount = nil
	item.AppliedCouponLabel = nil

	return item, nil
}
