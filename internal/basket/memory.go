package basket

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps baskets in process memory. A single mutex serializes
// mutations; reads return copies so callers never see a partially mutated
// item list.
type MemoryStore struct {
	mu      sync.RWMutex
	baskets map[string]*Basket
}

// NewMemoryStore constructs an empty in-memory basket store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{baskets: make(map[string]*Basket)}
}

// Create stores and returns a fresh empty basket with a generated id.
func (s *MemoryStore) Create(_ context.Context) (Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &Basket{ID: uuid.NewString(), Items: []Item{}}
	s.baskets[b.ID] = b
	return b.clone(), nil
}

// Get returns a copy of the basket or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (Basket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.baskets[id]
	if !ok {
		return Basket{}, ErrNotFound
	}
	return b.clone(), nil
}

// AddItem merges the item into the basket per the Store contract.
func (s *MemoryStore) AddItem(_ context.Context, basketID string, item Item) (Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baskets[basketID]
	if !ok {
		return Basket{}, ErrNotFound
	}
	b.Items = mergeItem(b.Items, item)
	return b.clone(), nil
}

// RemoveItem drops the entry for productID, leaving other items untouched.
func (s *MemoryStore) RemoveItem(_ context.Context, basketID, productID string) (Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baskets[basketID]
	if !ok {
		return Basket{}, ErrNotFound
	}
	items, found := removeItem(b.Items, productID)
	if !found {
		return Basket{}, ErrProductNotInBasket
	}
	b.Items = items
	return b.clone(), nil
}

// SetDiscount attaches a basket-level discount, overwriting any prior one.
func (s *MemoryStore) SetDiscount(_ context.Context, basketID, discountID string) (Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baskets[basketID]
	if !ok {
		return Basket{}, ErrNotFound
	}
	b.DiscountID = discountID
	return b.clone(), nil
}

// SetShipping attaches a shipping destination, overwriting any prior one.
func (s *MemoryStore) SetShipping(_ context.Context, basketID, country string) (Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baskets[basketID]
	if !ok {
		return Basket{}, ErrNotFound
	}
	b.ShippingTo = country
	return b.clone(), nil
}
