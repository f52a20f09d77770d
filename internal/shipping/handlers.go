package shipping

import (
	"net/http"

	"github.com/noah-isme/basket-api/internal/common"
)

// Handler exposes shipping rate lookups over HTTP.
type Handler struct {
	Repo Repository
}

// Rates lists every supported shipping destination with its price.
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "shipping rates not configured", nil)
		return
	}
	rates, err := h.Repo.List(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to list shipping rates", nil)
		return
	}
	common.JSONData(w, http.StatusOK, rates)
}
