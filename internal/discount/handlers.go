package discount

import (
	"net/http"

	"github.com/noah-isme/basket-api/internal/common"
)

// Handler exposes discount lookups over HTTP.
type Handler struct {
	Repo Repository
}

// Discounts lists every known discount.
func (h *Handler) Discounts(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discounts not configured", nil)
		return
	}
	discounts, err := h.Repo.List(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to list discounts", nil)
		return
	}
	common.JSONData(w, http.StatusOK, discounts)
}
