package shipping

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates no shipping rate exists for the requested country.
var ErrNotFound = errors.New("shipping rate not found")

// Rate is the flat delivery price for a destination country.
type Rate struct {
	Country string          `json:"country"`
	Price   decimal.Decimal `json:"price"`
}

// Repository resolves shipping rates by country code.
type Repository interface {
	Rate(ctx context.Context, country string) (Rate, error)
	List(ctx context.Context) ([]Rate, error)
}

type memoryRepository struct {
	rates map[string]Rate
	order []string
}

// NewMemoryRepository builds an immutable in-memory shipping rate repository.
func NewMemoryRepository(rates ...Rate) Repository {
	repo := &memoryRepository{rates: make(map[string]Rate, len(rates))}
	for _, rate := range rates {
		if _, ok := repo.rates[rate.Country]; !ok {
			repo.order = append(repo.order, rate.Country)
		}
		repo.rates[rate.Country] = rate
	}
	return repo
}

func (r *memoryRepository) Rate(_ context.Context, country string) (Rate, error) {
	rate, ok := r.rates[country]
	if !ok {
		return Rate{}, ErrNotFound
	}
	return rate, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Rate, error) {
	out := make([]Rate, 0, len(r.order))
	for _, country := range r.order {
		out = append(out, r.rates[country])
	}
	return out, nil
}

// SeedRates returns the default shipping rates used by the in-memory repository.
func SeedRates() []Rate {
	return []Rate{
		{Country: "UK", Price: decimal.NewFromInt(3)},
		{Country: "FR", Price: decimal.NewFromInt(5)},
		{Country: "US", Price: decimal.NewFromInt(7)},
	}
}
