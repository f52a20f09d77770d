package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested product could not be located.
var ErrNotFound = errors.New("product not found")

// Product is a purchasable item resolved from the catalog.
// Products are immutable once fetched.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Repository resolves products by identifier.
type Repository interface {
	Product(ctx context.Context, id string) (Product, error)
	// ProductsByIDs returns only the products that exist; absent ids are
	// simply missing from the result map.
	ProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error)
	List(ctx context.Context) ([]Product, error)
}

type memoryRepository struct {
	products map[string]Product
	order    []string
}

// NewMemoryRepository builds an immutable in-memory product repository.
func NewMemoryRepository(products ...Product) Repository {
	repo := &memoryRepository{products: make(map[string]Product, len(products))}
	for _, p := range products {
		if _, ok := repo.products[p.ID]; !ok {
			repo.order = append(repo.order, p.ID)
		}
		repo.products[p.ID] = p
	}
	return repo
}

func (r *memoryRepository) Product(_ context.Context, id string) (Product, error) {
	product, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return product, nil
}

func (r *memoryRepository) ProductsByIDs(_ context.Context, ids []string) (map[string]Product, error) {
	found := make(map[string]Product, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			found[id] = product
		}
	}
	return found, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

// SeedProducts returns the default catalog used by the in-memory repository.
func SeedProducts() []Product {
	return []Product{
		{ID: "11111111-1111-1111-1111-111111111111", Name: "Apple", Price: decimal.RequireFromString("0.50")},
		{ID: "22222222-2222-2222-2222-222222222222", Name: "Banana", Price: decimal.RequireFromString("0.30")},
		{ID: "33333333-3333-3333-3333-333333333333", Name: "Orange", Price: decimal.RequireFromString("0.60")},
	}
}
