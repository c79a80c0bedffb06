package coupon

import (
	"regexp"
	"strconv"

	"github.com/go-faster/errors"
)

// percentPattern matches an integer immediately followed by a percent sign,
// e.g. the "15%" in "Get 15% off today".
var percentPattern = regexp.MustCompile(`(\d+)%`)

// ExtractPercent pulls the integer percentage out of a discount label.
// Labels without an "N%" token yield ErrNotPercentage.
func ExtractPercent(label string) (int64, error) {
	m := percentPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, ErrNotPercentage
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse percent from %q", label)
	}
	return n, nil
}
