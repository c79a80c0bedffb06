package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/travelgenz/booking-api/internal/domain/user"
)

type validateCouponRequest struct {
	Code string `json:"code"`
}

func (h *Handler) validateCoupon(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req validateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	vc, err := h.validator.Validate(r.Context(), req.Code, u.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeValidCoupon(e, vc)
	})
}
