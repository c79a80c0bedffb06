package travel

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ParseAmount extracts the numeric value from a formatted display price such
// as "₹12,000" by dropping every non-digit rune. Display prices are whole
// currency units, so no fractional part survives the stripping.
func ParseAmount(display string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range display {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero, errors.Errorf("no digits in display price %q", display)
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse display price %q", display)
	}
	return d, nil
}
