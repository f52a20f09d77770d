package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/basket-api/internal/catalog"
	"github.com/noah-isme/basket-api/internal/discount"
	"github.com/noah-isme/basket-api/internal/shipping"
)

// DefaultVATRate is the flat VAT multiplier applied when no rate is configured.
var DefaultVATRate = decimal.New(20, -2)

var hundred = decimal.NewFromInt(100)

// Line is one basket entry used for pricing calculation.
type Line struct {
	ProductID  string
	Quantity   int
	DiscountID string
}

// Snapshot is the basket state the engine prices. Empty DiscountID and
// ShipTo mean no basket discount and no destination.
type Snapshot struct {
	Lines      []Line
	DiscountID string
	ShipTo     string
}

// ProductSource resolves products in batch. Absent ids are missing from the map.
type ProductSource interface {
	ProductsByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

// DiscountSource resolves discounts in batch. Absent ids are missing from the map.
type DiscountSource interface {
	DiscountsByIDs(ctx context.Context, ids []string) (map[string]discount.Discount, error)
}

// RateSource resolves the shipping rate for a destination country.
type RateSource interface {
	Rate(ctx context.Context, country string) (shipping.Rate, error)
}

// Engine computes basket totals from a snapshot plus lookups resolved at
// call time. It trusts that every referenced product exists; dangling
// discount or shipping references are tolerated and priced as absent.
type Engine struct {
	Products  ProductSource
	Discounts DiscountSource
	Rates     RateSource
}

// Subtotal computes the discounted basket total plus shipping, without VAT.
//
// Items carrying a resolvable individual discount are excluded from the
// basket-level discount; the basket discount only reduces the sum of items
// without one. Discount amounts are clamped so no item contributes below zero.
func (e Engine) Subtotal(ctx context.Context, snap Snapshot) (decimal.Decimal, error) {
	if len(snap.Lines) == 0 {
		return decimal.Zero, nil
	}

	products, err := e.Products.ProductsByIDs(ctx, productIDs(snap.Lines))
	if err != nil {
		return decimal.Zero, fmt.Errorf("resolve products: %w", err)
	}
	discounts, err := e.Discounts.DiscountsByIDs(ctx, discountIDs(snap))
	if err != nil {
		return decimal.Zero, fmt.Errorf("resolve discounts: %w", err)
	}

	shippingPrice := decimal.Zero
	if snap.ShipTo != "" {
		rate, err := e.Rates.Rate(ctx, snap.ShipTo)
		switch {
		case err == nil:
			shippingPrice = rate.Price
		case errors.Is(err, shipping.ErrNotFound):
			// dangling destination prices as free shipping
		default:
			return decimal.Zero, fmt.Errorf("resolve shipping rate: %w", err)
		}
	}

	discounted := decimal.Zero
	undiscounted := decimal.Zero
	for _, line := range snap.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			return decimal.Zero, fmt.Errorf("product %s missing from catalog", line.ProductID)
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if d, ok := discounts[line.DiscountID]; ok && line.DiscountID != "" {
			discounted = discounted.Add(lineTotal.Sub(discountAmount(lineTotal, d.Percentage)))
		} else {
			undiscounted = undiscounted.Add(lineTotal)
		}
	}

	if d, ok := discounts[snap.DiscountID]; ok && snap.DiscountID != "" {
		undiscounted = undiscounted.Sub(discountAmount(undiscounted, d.Percentage))
	}

	return discounted.Add(undiscounted).Add(shippingPrice), nil
}

// TotalWithVAT computes the subtotal and applies the VAT multiplier on top.
func (e Engine) TotalWithVAT(ctx context.Context, snap Snapshot, vatRate decimal.Decimal) (decimal.Decimal, error) {
	subtotal, err := e.Subtotal(ctx, snap)
	if err != nil {
		return decimal.Zero, err
	}
	return subtotal.Mul(decimal.NewFromInt(1).Add(vatRate)), nil
}

// discountAmount is the percentage reduction clamped to the base so a
// percentage above 100 can never produce a negative contribution.
func discountAmount(base, percentage decimal.Decimal) decimal.Decimal {
	amount := base.Mul(percentage).Div(hundred)
	if amount.GreaterThan(base) {
		return base
	}
	return amount
}

func productIDs(lines []Line) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

func discountIDs(snap Snapshot) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, line := range snap.Lines {
		add(line.DiscountID)
	}
	add(snap.DiscountID)
	return ids
}
