package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/basket-api/internal/catalog"
	"github.com/noah-isme/basket-api/internal/discount"
	"github.com/noah-isme/basket-api/internal/shipping"
)

func testEngine() Engine {
	return Engine{
		Products: catalog.NewMemoryRepository(
			catalog.Product{ID: "p1", Name: "Widget", Price: decimal.RequireFromString("10.00")},
			catalog.Product{ID: "p2", Name: "Gadget", Price: decimal.RequireFromString("20.00")},
			catalog.Product{ID: "p3", Name: "Gizmo", Price: decimal.RequireFromString("0.50")},
		),
		Discounts: discount.NewMemoryRepository(
			discount.Discount{ID: "d10", Name: "10% Off", Percentage: decimal.NewFromInt(10)},
			discount.Discount{ID: "d25", Name: "25% Off", Percentage: decimal.NewFromInt(25)},
			discount.Discount{ID: "d150", Name: "Broken", Percentage: decimal.NewFromInt(150)},
		),
		Rates: shipping.NewMemoryRepository(
			shipping.Rate{Country: "UK", Price: decimal.NewFromInt(3)},
		),
	}
}

func TestSubtotalEmptyBasket(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{DiscountID: "d25", ShipTo: "UK"}
	got, err := engine.Subtotal(context.Background(), snap)
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero subtotal for empty basket, got %s", got)
	}
}

func TestSubtotalBasketDiscountExcludesItemDiscounts(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{
		Lines: []Line{
			{ProductID: "p1", Quantity: 1, DiscountID: "d10"},
			{ProductID: "p2", Quantity: 1},
		},
		DiscountID: "d25",
		ShipTo:     "",
	}
	got, err := engine.Subtotal(context.Background(), snap)
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	// discounted item 9.00, undiscounted item 20.00 reduced by 25% to 15.00
	want := decimal.RequireFromString("24.00")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSubtotalClampsOverHundredPercent(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{
		Lines: []Line{{ProductID: "p1", Quantity: 2, DiscountID: "d150"}},
	}
	got, err := engine.Subtotal(context.Background(), snap)
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected clamped zero contribution, got %s", got)
	}
}

func TestSubtotalBasketDiscountClamped(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{
		Lines:      []Line{{ProductID: "p2", Quantity: 1}},
		DiscountID: "d150",
	}
	got, err := engine.Subtotal(context.Background(), snap)
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected basket discount clamped to zero total, got %s", got)
	}
}

func TestSubtotalDanglingDiscountIgnored(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{
		Lines: []Line{
			{ProductID: "p1", Quantity: 1, DiscountID: "gone"},
		},
		DiscountID: "also-gone",
	}
	got, err := engine.Subtotal(context.Background(), snap)
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	want := decimal.RequireFromString("10.00")
	if !got.Equal(want) {
		t.Fatalf("expected %s with dangling discounts ignored, got %s", want, got)
	}
}

func TestSubtotalShipping(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{
		Lines:  []Line{{ProductID: "p3", Quantity: 2}},
		ShipTo: "UK",
	}
	got, err := engine.Subtotal(context.Background(), snap)
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	want := decimal.RequireFromString("4.00")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSubtotalUnknownDestinationShipsFree(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{
		Lines:  []Line{{ProductID: "p3", Quantity: 1}},
		ShipTo: "ZZ",
	}
	got, err := engine.Subtotal(context.Background(), snap)
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	want := decimal.RequireFromString("0.50")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSubtotalMissingProductFails(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{Lines: []Line{{ProductID: "nope", Quantity: 1}}}
	if _, err := engine.Subtotal(context.Background(), snap); err == nil {
		t.Fatal("expected error for product missing from catalog")
	}
}

func TestTotalWithVATMultiplies(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{
		Lines: []Line{
			{ProductID: "p1", Quantity: 1, DiscountID: "d10"},
			{ProductID: "p2", Quantity: 1},
		},
		DiscountID: "d25",
	}
	rates := []string{"0", "0.20", "0.175", "1"}
	for _, raw := range rates {
		rate := decimal.RequireFromString(raw)
		subtotal, err := engine.Subtotal(context.Background(), snap)
		if err != nil {
			t.Fatalf("subtotal: %v", err)
		}
		total, err := engine.TotalWithVAT(context.Background(), snap, rate)
		if err != nil {
			t.Fatalf("total with vat %s: %v", raw, err)
		}
		want := subtotal.Mul(decimal.NewFromInt(1).Add(rate))
		if !total.Equal(want) {
			t.Fatalf("rate %s: expected %s, got %s", raw, want, total)
		}
	}
}

func TestTotalWithVATDefaultRate(t *testing.T) {
	engine := testEngine()
	snap := Snapshot{Lines: []Line{{ProductID: "p1", Quantity: 1}}}
	total, err := engine.TotalWithVAT(context.Background(), snap, DefaultVATRate)
	if err != nil {
		t.Fatalf("total with vat: %v", err)
	}
	want := decimal.RequireFromString("12.00")
	if !total.Equal(want) {
		t.Fatalf("expected %s, got %s", want, total)
	}
}
