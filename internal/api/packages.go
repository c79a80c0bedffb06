package api

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) listPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packages.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, p := range packages {
				encodePackage(e, p)
			}
		})
	})
}

func (h *Handler) getPackage(w http.ResponseWriter, r *http.Request) {
	p, err := h.packages.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodePackage(e, *p)
	})
}
