package discount

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested discount could not be located.
var ErrNotFound = errors.New("discount not found")

// Discount reduces an item or basket total by a percentage in [0,100].
type Discount struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Repository resolves discounts by identifier.
type Repository interface {
	Discount(ctx context.Context, id string) (Discount, error)
	// DiscountsByIDs returns only the discounts that exist; absent ids are
	// simply missing from the result map.
	DiscountsByIDs(ctx context.Context, ids []string) (map[string]Discount, error)
	List(ctx context.Context) ([]Discount, error)
}

type memoryRepository struct {
	discounts map[string]Discount
	order     []string
}

// NewMemoryRepository builds an immutable in-memory discount repository.
func NewMemoryRepository(discounts ...Discount) Repository {
	repo := &memoryRepository{discounts: make(map[string]Discount, len(discounts))}
	for _, d := range discounts {
		if _, ok := repo.discounts[d.ID]; !ok {
			repo.order = append(repo.order, d.ID)
		}
		repo.discounts[d.ID] = d
	}
	return repo
}

func (r *memoryRepository) Discount(_ context.Context, id string) (Discount, error) {
	d, ok := r.discounts[id]
	if !ok {
		return Discount{}, ErrNotFound
	}
	return d, nil
}

func (r *memoryRepository) DiscountsByIDs(_ context.Context, ids []string) (map[string]Discount, error) {
	found := make(map[string]Discount, len(ids))
	for _, id := range ids {
		if d, ok := r.discounts[id]; ok {
			found[id] = d
		}
	}
	return found, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Discount, error) {
	out := make([]Discount, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.discounts[id])
	}
	return out, nil
}

// SeedDiscounts returns the default discounts used by the in-memory repository.
func SeedDiscounts() []Discount {
	return []Discount{
		{ID: "1", Name: "5% Off", Percentage: decimal.NewFromInt(5)},
	}
}
