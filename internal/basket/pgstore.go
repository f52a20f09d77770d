package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const basketsDDL = `
CREATE TABLE IF NOT EXISTS baskets (
    id          TEXT PRIMARY KEY,
    items       JSONB NOT NULL DEFAULT '[]',
    discount_id TEXT NOT NULL DEFAULT '',
    shipping_to TEXT NOT NULL DEFAULT '',
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// pgAPI is the slice of the pgxpool surface the store uses.
type pgAPI interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PGStore persists baskets in Postgres. Mutations take a row lock so the
// one-item-per-product merge invariant holds under concurrent writers.
type PGStore struct {
	db pgAPI
}

// NewPGStore prepares the baskets table and returns a Postgres-backed store.
func NewPGStore(ctx context.Context, db pgAPI) (*PGStore, error) {
	if db == nil {
		return nil, errors.New("nil pgx pool")
	}
	if _, err := db.Exec(ctx, basketsDDL); err != nil {
		return nil, fmt.Errorf("create baskets table: %w", err)
	}
	return &PGStore{db: db}, nil
}

// Create stores and returns a fresh empty basket with a generated id.
func (s *PGStore) Create(ctx context.Context) (Basket, error) {
	b := Basket{ID: uuid.NewString(), Items: []Item{}}
	items, err := json.Marshal(b.Items)
	if err != nil {
		return Basket{}, err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO baskets (id, items, discount_id, shipping_to) VALUES ($1, $2, $3, $4)`,
		b.ID, items, b.DiscountID, b.ShippingTo)
	if err != nil {
		return Basket{}, fmt.Errorf("insert basket: %w", err)
	}
	return b, nil
}

// Get returns the basket or ErrNotFound.
func (s *PGStore) Get(ctx context.Context, id string) (Basket, error) {
	return scanBasket(s.db.QueryRow(ctx,
		`SELECT id, items, discount_id, shipping_to FROM baskets WHERE id = $1`, id))
}

// AddItem merges the item into the basket inside a row-locking transaction.
func (s *PGStore) AddItem(ctx context.Context, basketID string, item Item) (Basket, error) {
	return s.mutate(ctx, basketID, func(b *Basket) error {
		b.Items = mergeItem(b.Items, item)
		return nil
	})
}

// RemoveItem drops the entry for productID, leaving other items untouched.
func (s *PGStore) RemoveItem(ctx context.Context, basketID, productID string) (Basket, error) {
	return s.mutate(ctx, basketID, func(b *Basket) error {
		items, found := removeItem(b.Items, productID)
		if !found {
			return ErrProductNotInBasket
		}
		b.Items = items
		return nil
	})
}

// SetDiscount attaches a basket-level discount, overwriting any prior one.
func (s *PGStore) SetDiscount(ctx context.Context, basketID, discountID string) (Basket, error) {
	return s.mutate(ctx, basketID, func(b *Basket) error {
		b.DiscountID = discountID
		return nil
	})
}

// SetShipping attaches a shipping destination, overwriting any prior one.
func (s *PGStore) SetShipping(ctx context.Context, basketID, country string) (Basket, error) {
	return s.mutate(ctx, basketID, func(b *Basket) error {
		b.ShippingTo = country
		return nil
	})
}

func (s *PGStore) mutate(ctx context.Context, basketID string, apply func(*Basket) error) (Basket, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Basket{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b, err := scanBasket(tx.QueryRow(ctx,
		`SELECT id, items, discount_id, shipping_to FROM baskets WHERE id = $1 FOR UPDATE`, basketID))
	if err != nil {
		return Basket{}, err
	}
	if err := apply(&b); err != nil {
		return Basket{}, err
	}
	items, err := json.Marshal(b.Items)
	if err != nil {
		return Basket{}, err
	}
	_, err = tx.Exec(ctx,
		`UPDATE baskets SET items = $2, discount_id = $3, shipping_to = $4, updated_at = now() WHERE id = $1`,
		b.ID, items, b.DiscountID, b.ShippingTo)
	if err != nil {
		return Basket{}, fmt.Errorf("update basket: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Basket{}, fmt.Errorf("commit: %w", err)
	}
	return b, nil
}

func scanBasket(row pgx.Row) (Basket, error) {
	var (
		b     Basket
		items []byte
	)
	if err := row.Scan(&b.ID, &items, &b.DiscountID, &b.ShippingTo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Basket{}, ErrNotFound
		}
		return Basket{}, fmt.Errorf("scan basket: %w", err)
	}
	if err := json.Unmarshal(items, &b.Items); err != nil {
		return Basket{}, fmt.Errorf("decode basket items: %w", err)
	}
	return b, nil
}
