package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const productListKey = "catalog:products"

// Cache keeps the product list in Redis to spare repeated repository scans.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Products returns the cached product list and whether the cache held one.
func (c *Cache) Products(ctx context.Context) ([]Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, productListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false
	}
	return products, true
}

// StoreProducts serialises the product list into Redis with the configured TTL.
func (c *Cache) StoreProducts(ctx context.Context, products []Product) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, productListKey, data, c.ttl).Err()
}
