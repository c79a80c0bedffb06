package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/travelgenz/booking-api/internal/domain/booking"
	"github.com/travelgenz/booking-api/internal/domain/user"
)

type bookingRequest struct {
	CartItemID string `json:"cartItemId,omitempty"`
	PackageID  string `json:"packageId,omitempty"`

	Days         int        `json:"days,omitempty"`
	MemberCount  int        `json:"memberCount,omitempty"`
	WithFlights  bool       `json:"withFlights,omitempty"`
	WithVisa     bool       `json:"withVisa,omitempty"`
	SelectedDate *time.Time `json:"selectedDate,omitempty"`

	ContactPhone      string `json:"contactPhone"`
	BestTimeToConnect string `json:"bestTimeToConnect,omitempty"`
	CouponCode        string `json:"couponCode,omitempty"`
}

func (h *Handler) submitBooking(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	item, err := h.bookings.Submit(r.Context(), booking.Request{
		CartItemID:        req.CartItemID,
		PackageID:         req.PackageID,
		OwnerID:           u.ID,
		Days:              req.Days,
		MemberCount:       req.MemberCount,
		WithFlights:       req.WithFlights,
		WithVisa:          req.WithVisa,
		SelectedDate:      req.SelectedDate,
		ContactPhone:      req.ContactPhone,
		BestTimeToConnect: req.BestTimeToConnect,
		CouponCode:        req.CouponCode,
	})
	if err != nil {
		// The booking itself can succeed while consuming the coupon fails;
		// the item comes back non-nil then and the booking stands.
		if item == nil {
			h.respondError(w, err)
			return
		}
		h.log.Error("consume booking coupon",
			zap.String("item", item.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeCartItem(e, *item)
	})
}
