package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/travelgenz/booking-api/internal/domain/coupon"
	"github.com/travelgenz/booking-api/internal/domain/user"
)

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.coupons.ListOffers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, o := range offers {
				encodeOffer(e, o)
			}
		})
	})
}

type spinRequest struct {
	OfferID string `json:"offerId"`
	// LastSpinAt is the client's own marker for its previous spin. The
	// once-per-day limit is advisory and enforced against this value.
	LastSpinAt *time.Time `json:"lastSpinAt,omitempty"`
}

func (h *Handler) spin(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req spinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	offers, err := h.coupons.ListOffers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	var offer *coupon.Offer
	for i := range offers {
		if offers[i].ID == req.OfferID {
			offer = &offers[i]
			break
		}
	}
	if offer == nil {
		writeError(w, http.StatusNotFound, "wheel offer not found")
		return
	}

	var lastSpin time.Time
	if req.LastSpinAt != nil {
		lastSpin = *req.LastSpinAt
	}

	c, err := h.generator.Spin(r.Context(), *offer, u.ID, lastSpin)
	if err != nil {
		// The winning code is shown even when persisting it failed; the user
		// keeps their prize and the failure is ours to chase.
		if c == nil {
			h.respondError(w, err)
			return
		}
		h.log.Error("store spin coupon",
			zap.String("code", c.Code), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCoupon(e, c)
	})
}
