package api

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/travelgenz/booking-api/internal/domain/cart"
	"github.com/travelgenz/booking-api/internal/domain/coupon"
	"github.com/travelgenz/booking-api/internal/domain/discount"
	"github.com/travelgenz/booking-api/internal/domain/travel"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

// encodeMoney writes the amount as a raw JSON number with two decimal places,
// preserving the exact value instead of rounding through float64.
func encodeMoney(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.StringFixed(2)))
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.Format(time.RFC3339))
}

func encodeCoupon(e *jx.Encoder, c *coupon.Coupon) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(c.Code) })
		e.Field("discountLabel", func(e *jx.Encoder) { e.Str(c.DiscountLabel) })
		e.Field("offerTitle", func(e *jx.Encoder) { e.Str(c.OfferTitle) })
		e.Field("expiresAt", func(e *jx.Encoder) { encodeTime(e, c.ExpiresAt) })
		e.Field("used", func(e *jx.Encoder) { e.Bool(c.Used) })
	})
}

func encodeValidCoupon(e *jx.Encoder, vc *coupon.ValidCoupon) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(vc.Coupon.Code) })
		e.Field("discountLabel", func(e *jx.Encoder) { e.Str(vc.Coupon.DiscountLabel) })
		e.Field("percent", func(e *jx.Encoder) { e.Int64(vc.Percent) })
		e.Field("expiresAt", func(e *jx.Encoder) { encodeTime(e, vc.Coupon.ExpiresAt) })
	})
}

func encodeOffer(e *jx.Encoder, o coupon.Offer) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(o.Title) })
		e.Field("discountLabel", func(e *jx.Encoder) { e.Str(o.DiscountLabel) })
		e.Field("weight", func(e *jx.Encoder) { e.Int(o.Weight) })
	})
}

func encodePackage(e *jx.Encoder, p travel.Package) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("destination", func(e *jx.Encoder) { e.Str(p.Destination) })
		e.Field("days", func(e *jx.Encoder) { e.Int(p.Days) })
		e.Field("displayPrice", func(e *jx.Encoder) { e.Str(p.DisplayPrice) })
		e.Field("visaFee", func(e *jx.Encoder) { encodeMoney(e, p.VisaFee) })
		e.Field("imageUrl", func(e *jx.Encoder) { e.Str(p.ImageURL) })
	})
}

func encodeCartItem(e *jx.Encoder, it cart.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(it.ID) })
		e.Field("packageId", func(e *jx.Encoder) { e.Str(it.PackageID) })
		e.Field("days", func(e *jx.Encoder) { e.Int(it.Days) })
		e.Field("memberCount", func(e *jx.Encoder) { e.Int(it.MemberCount) })
		e.Field("withFlights", func(e *jx.Encoder) { e.Bool(it.WithFlights) })
		e.Field("withVisa", func(e *jx.Encoder) { e.Bool(it.WithVisa) })
		e.Field("visaCost", func(e *jx.Encoder) { encodeMoney(e, it.VisaCost) })
		if it.SelectedDate != nil {
			e.Field("selectedDate", func(e *jx.Encoder) { e.Str(it.SelectedDate.Format("2006-01-02")) })
		}
		e.Field("totalPrice", func(e *jx.Encoder) { encodeMoney(e, it.TotalPrice) })
		if it.PriceBeforeDiscount != nil {
			e.Field("priceBeforeDiscount", func(e *jx.Encoder) { encodeMoney(e, *it.PriceBeforeDiscount) })
		}
		if it.AppliedCouponLabel != nil {
			e.Field("appliedCouponLabel", func(e *jx.Encoder) { e.Str(*it.AppliedCouponLabel) })
		}
		e.Field("state", func(e *jx.Encoder) { e.Str(string(it.State)) })
	})
}

func encodeSummary(e *jx.Encoder, s *discount.Summary) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("deferred", func(e *jx.Encoder) { e.Bool(s.Deferred) })
		e.Field("couponCode", func(e *jx.Encoder) { e.Str(s.CouponCode) })
		e.Field("percent", func(e *jx.Encoder) { e.Int64(s.Percent) })
		e.Field("aggregateDiscount", func(e *jx.Encoder) { encodeMoney(e, s.Aggregate) })
		e.Field("itemsDiscounted", func(e *jx.Encoder) { e.Int(s.ItemsDiscounted) })
		e.Field("itemsVerified", func(e *jx.Encoder) { e.Int(s.ItemsVerified) })
	})
}
