package basket

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested basket could not be located.
var ErrNotFound = errors.New("basket not found")

// ErrProductNotInBasket indicates a removal for a product the basket does not hold.
var ErrProductNotInBasket = errors.New("product not in basket")

// Item is one productId+quantity entry within a basket, optionally carrying
// an individual discount. An empty DiscountID means no discount.
type Item struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	DiscountID string `json:"discountId,omitempty"`
}

// Basket is a client's in-progress collection of items. Empty DiscountID and
// ShippingTo mean no basket discount and no destination attached yet. Items
// hold at most one entry per product, in insertion order.
type Basket struct {
	ID         string `json:"id"`
	Items      []Item `json:"items"`
	DiscountID string `json:"discountId,omitempty"`
	ShippingTo string `json:"shippingTo,omitempty"`
}

// Store owns basket records. Implementations must serialize mutations to the
// same basket so concurrent adds for one product merge instead of racing,
// and reads must observe a consistent snapshot.
type Store interface {
	Create(ctx context.Context) (Basket, error)
	Get(ctx context.Context, id string) (Basket, error)
	// AddItem merges the item into the basket: an existing entry for the
	// same product has its quantity incremented, otherwise the item is
	// appended. Quantity validation is the caller's responsibility.
	AddItem(ctx context.Context, basketID string, item Item) (Basket, error)
	RemoveItem(ctx context.Context, basketID, productID string) (Basket, error)
	SetDiscount(ctx context.Context, basketID, discountID string) (Basket, error)
	SetShipping(ctx context.Context, basketID, country string) (Basket, error)
}

func (b Basket) clone() Basket {
	out := b
	out.Items = make([]Item, len(b.Items))
	copy(out.Items, b.Items)
	return out
}

// mergeItem applies the Store.AddItem contract to an item slice.
func mergeItem(items []Item, item Item) []Item {
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

// removeItem drops the entry for productID, reporting whether it was present.
func removeItem(items []Item, productID string) ([]Item, bool) {
	for i := range items {
		if items[i].ProductID == productID {
			return append(items[:i:i], items[i+1:]...), true
		}
	}
	return items, false
}
