package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/travelgenz/booking-api/internal/domain/booking"
	"github.com/travelgenz/booking-api/internal/domain/cart"
	"github.com/travelgenz/booking-api/internal/domain/coupon"
	"github.com/travelgenz/booking-api/internal/domain/discount"
	"github.com/travelgenz/booking-api/internal/domain/travel"
)

// respondError maps domain errors to HTTP statuses. Business-rule rejections
// carry their own message; anything unrecognized is logged and returned as an
// opaque 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coupon.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "sign in to continue")
	case errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, travel.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, coupon.ErrAlreadyUsed),
		errors.Is(err, coupon.ErrExpired),
		errors.Is(err, coupon.ErrNotPercentage),
		errors.Is(err, coupon.ErrSpinNotAvailable),
		errors.Is(err, discount.ErrAlreadyDiscounted),
		errors.Is(err, booking.ErrMissingContact),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrItemBooked):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
