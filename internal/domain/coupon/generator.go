package coupon

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/go-faster/errors"
)

const (
	codeSuffixLen = 6
	validityDays  = 30

	base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generator produces wheel-spin coupons. The once-per-day rate limit is
// advisory: the caller supplies its own last-spin marker, so a client that
// clears local state can spin again. That is a documented limitation, not a
// security boundary.
type Generator struct {
	repo   Repository
	now    func() time.Time
	random io.Reader
}

// NewGenerator creates a Generator backed by the given Repository.
func NewGenerator(repo Repository) *Generator {
	return &Generator{repo: repo, now: time.Now, random: rand.Reader}
}

// Spin creates a coupon for the selected wheel offer. The coupon is returned
// even when the insert fails, so the UI can always show the winning code; in
// that case the coupon is non-nil AND the error is non-nil, and the caller is
// expected to log the store failure rather than surface it.
func (g *Generator) Spin(ctx context.Context, offer Offer, ownerID string, lastSpin time.Time) (*Coupon, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	now := g.now()
	if sameCalendarDay(now, lastSpin) {
		return nil, ErrSpinNotAvailable
	}

	if _, err := ExtractPercent(offer.DiscountLabel); err != nil {
		return nil, err
	}

	suffix, err := g.randomSuffix()
	if err != nil {
		return nil, errors.Wrap(err, "generate code suffix")
	}

	c := &Coupon{
		Code:          CodePrefix + suffix,
		OwnerID:       ownerID,
		DiscountLabel: offer.DiscountLabel,
		OfferTitle:    offer.Title,
		// Calendar-day add, not 30*24h, so the expiry lands on the same wall
		// clock time across DST shifts.
		ExpiresAt: now.AddDate(0, 0, validityDays),
		CreatedAt: now,
	}

	// Code collisions are not checked; the keyspace makes a near-simultaneous
	// duplicate acceptable residual risk.
	if err := g.repo.Insert(ctx, c); err != nil {
		return c, errors.Wrap(err, "insert coupon")
	}
	return c, nil
}

func (g *Generator) randomSuffix() (string, error) {
	buf := make([]byte, codeSuffixLen)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(buf), nil
}

// sameCalendarDay reports whether a and b fall on the same calendar day in
// a's location. A zero b (no previous spin) never matches.
func sameCalendarDay(a, b time.Time) bool {
	if b.IsZero() {
		return false
	}
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
