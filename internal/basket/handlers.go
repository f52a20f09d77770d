package basket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/basket-api/internal/common"
	"github.com/noah-isme/basket-api/internal/discount"
	"github.com/noah-isme/basket-api/internal/obs"
	"github.com/noah-isme/basket-api/internal/shipping"
)

// Handler wires the basket service to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type itemPayload struct {
	ProductID  string `json:"productId" validate:"required"`
	Quantity   int    `json:"quantity"`
	DiscountID string `json:"discountId"`
}

type addItemsRequest struct {
	Items []itemPayload `json:"items" validate:"omitempty,dive"`
}

// Create creates a new empty basket.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	b, err := h.Svc.Create(r.Context())
	if err != nil {
		h.writeError(w, "create", err)
		return
	}
	countOp("create", "ok")
	common.JSONData(w, http.StatusCreated, b)
}

// Get returns the basket contents.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Svc.Get(r.Context(), chi.URLParam(r, "basketID"))
	if err != nil {
		h.writeError(w, "get", err)
		return
	}
	common.JSONData(w, http.StatusOK, b)
}

// AddItems merges a batch of items into the basket.
func (h *Handler) AddItems(w http.ResponseWriter, r *http.Request) {
	var payload addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil && len(payload.Items) > 0 {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required for every item", nil)
			return
		}
	}
	items := make([]Item, 0, len(payload.Items))
	for _, p := range payload.Items {
		items = append(items, Item{
			ProductID:  strings.TrimSpace(p.ProductID),
			Quantity:   p.Quantity,
			DiscountID: strings.TrimSpace(p.DiscountID),
		})
	}
	b, err := h.Svc.AddItems(r.Context(), chi.URLParam(r, "basketID"), items)
	if err != nil {
		h.writeError(w, "add_items", err)
		return
	}
	countOp("add_items", "ok")
	countItems(len(items))
	common.JSONData(w, http.StatusOK, b)
}

// RemoveItem removes a single product entry from the basket.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	b, err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "basketID"), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotInBasket) {
			countOp("remove_item", "rejected")
			common.JSONError(w, http.StatusNotFound, "PRODUCT_NOT_IN_BASKET",
				fmt.Sprintf("Product %s not found in basket", productID), nil)
			return
		}
		h.writeError(w, "remove_item", err)
		return
	}
	countOp("remove_item", "ok")
	common.JSONData(w, http.StatusOK, b)
}

// AttachDiscount attaches a basket-level discount.
func (h *Handler) AttachDiscount(w http.ResponseWriter, r *http.Request) {
	discountID := chi.URLParam(r, "discountID")
	b, err := h.Svc.AttachDiscount(r.Context(), chi.URLParam(r, "basketID"), discountID)
	if err != nil {
		if errors.Is(err, discount.ErrNotFound) {
			countOp("attach_discount", "rejected")
			common.JSONError(w, http.StatusNotFound, "DISCOUNT_NOT_FOUND",
				fmt.Sprintf("Discount not found %s.", discountID), nil)
			return
		}
		h.writeError(w, "attach_discount", err)
		return
	}
	countOp("attach_discount", "ok")
	common.JSONData(w, http.StatusOK, b)
}

// AttachShipping attaches a shipping destination.
func (h *Handler) AttachShipping(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	b, err := h.Svc.AttachShipping(r.Context(), chi.URLParam(r, "basketID"), country)
	if err != nil {
		if errors.Is(err, shipping.ErrNotFound) {
			countOp("attach_shipping", "rejected")
			common.JSONError(w, http.StatusNotFound, "SHIPPING_NOT_SUPPORTED",
				fmt.Sprintf("Shipping not supported for %s", country), nil)
			return
		}
		h.writeError(w, "attach_shipping", err)
		return
	}
	countOp("attach_shipping", "ok")
	common.JSONData(w, http.StatusOK, b)
}

// Total returns the basket total including VAT.
func (h *Handler) Total(w http.ResponseWriter, r *http.Request) {
	basketID := chi.URLParam(r, "basketID")
	total, err := h.Svc.Total(r.Context(), basketID)
	if err != nil {
		h.writeError(w, "total", err)
		return
	}
	countTotal("with_vat")
	common.JSONData(w, http.StatusOK, map[string]any{
		"basketId": basketID,
		"total":    total.StringFixed(2),
	})
}

// TotalWithoutVAT returns the basket total before VAT.
func (h *Handler) TotalWithoutVAT(w http.ResponseWriter, r *http.Request) {
	basketID := chi.URLParam(r, "basketID")
	total, err := h.Svc.TotalWithoutVAT(r.Context(), basketID)
	if err != nil {
		h.writeError(w, "total_without_vat", err)
		return
	}
	countTotal("without_vat")
	common.JSONData(w, http.StatusOK, map[string]any{
		"basketId": basketID,
		"total":    total.StringFixed(2),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		countOp(op, "not_found")
		common.JSONError(w, http.StatusNotFound, "BASKET_NOT_FOUND", "Basket not found.", nil)
	case errors.Is(err, ErrNoItems):
		countOp(op, "rejected")
		common.JSONError(w, http.StatusBadRequest, "NO_ITEMS", "No items provided.", nil)
	case errors.Is(err, ErrShippingNotSet):
		countOp(op, "rejected")
		common.JSONError(w, http.StatusConflict, "MISSING_SHIPPING_DESTINATION",
			"Add a shipping destination before calculating total.", nil)
	case errors.As(err, &validationErr):
		countOp(op, "rejected")
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", validationErr.Error(), validationErr.Messages)
	default:
		countOp(op, "error")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func countOp(op, result string) {
	if obs.BasketOpsTotal != nil {
		obs.BasketOpsTotal.WithLabelValues(op, result).Inc()
	}
}

func countItems(n int) {
	if obs.BasketItemsAdded != nil {
		obs.BasketItemsAdded.Add(float64(n))
	}
}

func countTotal(variant string) {
	if obs.BasketTotalsComputed != nil {
		obs.BasketTotalsComputed.WithLabelValues(variant).Inc()
	}
}
