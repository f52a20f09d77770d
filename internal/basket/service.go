package basket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/basket-api/internal/catalog"
	"github.com/noah-isme/basket-api/internal/discount"
	"github.com/noah-isme/basket-api/internal/pricing"
	"github.com/noah-isme/basket-api/internal/shipping"
)

// ErrNoItems is returned when an add-items call supplies an empty batch.
var ErrNoItems = errors.New("no items provided")

// ErrShippingNotSet is returned when a total is requested before a shipping
// destination was attached.
var ErrShippingNotSet = errors.New("shipping destination not set")

// ValidationError aggregates every offending item of a rejected batch.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Service validates cross-entity references before mutating basket state and
// computes totals through the pricing engine.
//
// Batch adds are all-or-nothing: the whole batch is validated first, every
// failure is reported in one combined error, and nothing is applied unless
// every item passes.
type Service struct {
	Store     Store
	Products  catalog.Repository
	Discounts discount.Repository
	Shipping  shipping.Repository
	Engine    pricing.Engine
	// VATRate is the configured VAT multiplier. Zero is a valid rate and
	// means totals carry no VAT; defaulting is the config layer's job.
	VATRate decimal.Decimal
}

// Create stores and returns a fresh empty basket.
func (s *Service) Create(ctx context.Context) (Basket, error) {
	return s.Store.Create(ctx)
}

// Get returns the basket or ErrNotFound.
func (s *Service) Get(ctx context.Context, basketID string) (Basket, error) {
	return s.Store.Get(ctx, basketID)
}

// AddItems validates and merges a batch of items into the basket.
func (s *Service) AddItems(ctx context.Context, basketID string, items []Item) (Basket, error) {
	if len(items) == 0 {
		return Basket{}, ErrNoItems
	}
	b, err := s.Store.Get(ctx, basketID)
	if err != nil {
		return Basket{}, err
	}

	var messages []string
	for _, item := range items {
		if item.Quantity <= 0 {
			messages = append(messages, fmt.Sprintf("Quantity must be greater than 0 for product %s.", item.ProductID))
			continue
		}
		if _, err := s.Products.Product(ctx, item.ProductID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				messages = append(messages, fmt.Sprintf("Product %s not found.", item.ProductID))
				continue
			}
			return Basket{}, fmt.Errorf("lookup product %s: %w", item.ProductID, err)
		}
		if item.DiscountID != "" {
			if _, err := s.Discounts.Discount(ctx, item.DiscountID); err != nil {
				if errors.Is(err, discount.ErrNotFound) {
					messages = append(messages, fmt.Sprintf("Discount %s not found.", item.DiscountID))
					continue
				}
				return Basket{}, fmt.Errorf("lookup discount %s: %w", item.DiscountID, err)
			}
		}
	}
	if len(messages) > 0 {
		return Basket{}, &ValidationError{Messages: messages}
	}

	for _, item := range items {
		b, err = s.Store.AddItem(ctx, basketID, item)
		if err != nil {
			return Basket{}, err
		}
	}
	return b, nil
}

// RemoveItem removes the entry for productID from the basket.
func (s *Service) RemoveItem(ctx context.Context, basketID, productID string) (Basket, error) {
	return s.Store.RemoveItem(ctx, basketID, productID)
}

// AttachDiscount validates the discount exists before attaching it.
func (s *Service) AttachDiscount(ctx context.Context, basketID, discountID string) (Basket, error) {
	if _, err := s.Discounts.Discount(ctx, discountID); err != nil {
		return Basket{}, err
	}
	return s.Store.SetDiscount(ctx, basketID, discountID)
}

// AttachShipping validates the destination is supported before attaching it.
func (s *Service) AttachShipping(ctx context.Context, basketID, country string) (Basket, error) {
	if _, err := s.Shipping.Rate(ctx, country); err != nil {
		return Basket{}, err
	}
	return s.Store.SetShipping(ctx, basketID, country)
}

// Total computes the basket total including VAT at the configured rate.
func (s *Service) Total(ctx context.Context, basketID string) (decimal.Decimal, error) {
	snap, err := s.snapshot(ctx, basketID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Engine.TotalWithVAT(ctx, snap, s.VATRate)
}

// TotalWithoutVAT computes the basket total before VAT.
func (s *Service) TotalWithoutVAT(ctx context.Context, basketID string) (decimal.Decimal, error) {
	snap, err := s.snapshot(ctx, basketID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Engine.Subtotal(ctx, snap)
}

// snapshot loads the basket and rejects totals until a destination is set,
// before any catalog lookup happens.
func (s *Service) snapshot(ctx context.Context, basketID string) (pricing.Snapshot, error) {
	b, err := s.Store.Get(ctx, basketID)
	if err != nil {
		return pricing.Snapshot{}, err
	}
	if strings.TrimSpace(b.ShippingTo) == "" {
		return pricing.Snapshot{}, ErrShippingNotSet
	}
	lines := make([]pricing.Line, 0, len(b.Items))
	for _, item := range b.Items {
		lines = append(lines, pricing.Line{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			DiscountID: item.DiscountID,
		})
	}
	return pricing.Snapshot{Lines: lines, DiscountID: b.DiscountID, ShipTo: b.ShippingTo}, nil
}
