package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/travelgenz/booking-api/internal/domain/cart"
	"github.com/travelgenz/booking-api/internal/domain/user"
)

func (h *Handler) listCart(w http.ResponseWriter, r *http.Request, u *user.User) {
	items, err := h.carts.ListDrafts(r.Context(), u.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range items {
				encodeCartItem(e, items[i])
			}
		})
	})
}

type addToCartRequest struct {
	PackageID    string     `json:"packageId"`
	Days         int        `json:"days,omitempty"`
	MemberCount  int        `json:"memberCount,omitempty"`
	WithFlights  bool       `json:"withFlights,omitempty"`
	WithVisa     bool       `json:"withVisa,omitempty"`
	SelectedDate *time.Time `json:"selectedDate,omitempty"`
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	pkg, err := h.packages.GetByID(r.Context(), req.PackageID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	unitPrice, err := pkg.UnitPrice()
	if err != nil {
		h.respondError(w, errors.Wrapf(err, "package %s", pkg.ID))
		return
	}

	days := req.Days
	if days == 0 {
		days = pkg.Days
	}
	members := req.MemberCount
	if members == 0 {
		members = 1
	}

	now := time.Now()
	item := cart.Item{
		ID:           uuid.New().String(),
		OwnerID:      u.ID,
		PackageID:    pkg.ID,
		WithFlights:  req.WithFlights,
		WithVisa:     req.WithVisa,
		SelectedDate: req.SelectedDate,
		State:        cart.StateDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.WithVisa {
		item.VisaCost = pkg.VisaFee
	}

	item, err = cart.Recompute(item, unitPrice, days, members)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.carts.Insert(r.Context(), &item); err != nil {
		h.respondError(w, errors.Wrap(err, "insert cart item"))
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeCartItem(e, item)
	})
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req applyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	vc, err := h.validator.Validate(r.Context(), req.Code, u.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	sum, err := h.applicator.Apply(r.Context(), *vc, u.ID)
	if err != nil {
		// A partial application still produced a summary: the coupon is
		// consumed and some prices moved. Report the state we are actually in
		// and log the write failure instead of presenting it as a clean error.
		if sum == nil {
			h.respondError(w, err)
			return
		}
		h.log.Error("partial coupon application",
			zap.String("code", sum.CouponCode),
			zap.Int("items_discounted", sum.ItemsDiscounted),
			zap.Int("items_verified", sum.ItemsVerified),
			zap.Error(err))
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeSummary(e, sum)
	})
}

type updateQuantityRequest struct {
	Days        int `json:"days"`
	MemberCount int `json:"memberCount"`
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	item, err := h.ownedItem(r, u)
	if err != nil {
		h.respondError(w, err)
		return
	}
	pkg, err := h.packages.GetByID(r.Context(), item.PackageID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	unitPrice, err := pkg.UnitPrice()
	if err != nil {
		h.respondError(w, errors.Wrapf(err, "package %s", pkg.ID))
		return
	}

	updated, err := cart.Recompute(*item, unitPrice, req.Days, req.MemberCount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	updated.UpdatedAt = time.Now()
	if err := h.carts.UpdateQuantity(r.Context(), &updated); err != nil {
		h.respondError(w, errors.Wrap(err, "update quantity"))
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCartItem(e, updated)
	})
}

type updateVisaRequest struct {
	WithVisa bool `json:"withVisa"`
}

func (h *Handler) updateVisa(w http.ResponseWriter, r *http.Request, u *user.User) {
	var req updateVisaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	item, err := h.ownedItem(r, u)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if item.State == cart.StateBooked {
		h.respondError(w, cart.ErrItemBooked)
		return
	}

	visaCost := decimal.Zero
	if req.WithVisa {
		pkg, err := h.packages.GetByID(r.Context(), item.PackageID)
		if err != nil {
			h.respondError(w, err)
			return
		}
		visaCost = pkg.VisaFee
	}

	if err := h.carts.UpdateVisa(r.Context(), item.ID, req.WithVisa, visaCost); err != nil {
		h.respondError(w, errors.Wrap(err, "update visa"))
		return
	}
	item.WithVisa = req.WithVisa
	item.VisaCost = visaCost
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCartItem(e, *item)
	})
}

func (h *Handler) deleteCartItem(w http.ResponseWriter, r *http.Request, u *user.User) {
	if err := h.carts.Delete(r.Context(), r.PathValue("id"), u.ID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedItem loads the path's cart item and hides other owners' items behind
// not-found.
func (h *Handler) ownedItem(r *http.Request, u *user.User) (*cart.Item, error) {
	item, err := h.carts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if item.OwnerID != u.ID {
		return nil, cart.ErrNotFound
	}
	return item, nil
}
