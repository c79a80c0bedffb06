// Package api exposes the booking service over HTTP with JSON bodies. All
// cart, wheel, and booking routes require a bearer session token; package
// browsing is public.
package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/travelgenz/booking-api/internal/domain/booking"
	"github.com/travelgenz/booking-api/internal/domain/cart"
	"github.com/travelgenz/booking-api/internal/domain/coupon"
	"github.com/travelgenz/booking-api/internal/domain/discount"
	"github.com/travelgenz/booking-api/internal/domain/travel"
	"github.com/travelgenz/booking-api/internal/domain/user"
)

// Handler routes API requests to the domain services.
type Handler struct {
	log *zap.Logger

	users    user.Repository
	packages travel.Repository
	coupons  coupon.Repository
	carts    cart.Repository

	generator  *coupon.Generator
	validator  *coupon.Validator
	applicator *discount.Applicator
	bookings   *booking.Service
}

// NewHandler wires the API handler with its dependencies.
func NewHandler(
	log *zap.Logger,
	users user.Repository,
	packages travel.Repository,
	coupons coupon.Repository,
	carts cart.Repository,
	generator *coupon.Generator,
	validator *coupon.Validator,
	applicator *discount.Applicator,
	bookings *booking.Service,
) *Handler {
	return &Handler{
		log:        log,
		users:      users,
		packages:   packages,
		coupons:    coupons,
		carts:      carts,
		generator:  generator,
		validator:  validator,
		applicator: applicator,
		bookings:   bookings,
	}
}

// Routes builds the API route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/packages", h.listPackages)
	mux.HandleFunc("GET /api/packages/{id}", h.getPackage)

	mux.HandleFunc("GET /api/wheel/offers", h.listOffers)
	mux.HandleFunc("POST /api/wheel/spin", h.authed(h.spin))

	mux.HandleFunc("POST /api/coupons/validate", h.authed(h.validateCoupon))

	mux.HandleFunc("GET /api/cart", h.authed(h.listCart))
	mux.HandleFunc("POST /api/cart", h.authed(h.addToCart))
	mux.HandleFunc("POST /api/cart/apply-coupon", h.authed(h.applyCoupon))
	mux.HandleFunc("POST /api/cart/{id}/quantity", h.authed(h.updateQuantity))
	mux.HandleFunc("POST /api/cart/{id}/visa", h.authed(h.updateVisa))
	mux.HandleFunc("DELETE /api/cart/{id}", h.authed(h.deleteCartItem))

	mux.HandleFunc("POST /api/bookings", h.authed(h.submitBooking))

	return mux
}
