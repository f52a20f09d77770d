package catalog

import (
	"net/http"

	"github.com/noah-isme/basket-api/internal/common"
)

// Handler exposes catalog lookups over HTTP.
type Handler struct {
	Repo  Repository
	Cache *Cache
}

// Products lists every product in the catalog.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	if products, ok := h.Cache.Products(r.Context()); ok {
		common.JSONData(w, http.StatusOK, products)
		return
	}
	products, err := h.Repo.List(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to list products", nil)
		return
	}
	h.Cache.StoreProducts(r.Context(), products)
	common.JSONData(w, http.StatusOK, products)
}
