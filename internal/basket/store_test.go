package basket

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	b, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, b.ID)
	require.Empty(t, b.Items)
	require.Empty(t, b.DiscountID)
	require.Empty(t, b.ShippingTo)

	got, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b, got)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreAddItemMergesQuantities(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	b, err := store.Create(ctx)
	require.NoError(t, err)

	_, err = store.AddItem(ctx, b.ID, Item{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	got, err := store.AddItem(ctx, b.ID, Item{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	require.Equal(t, 5, got.Items[0].Quantity)
}

func TestMemoryStoreAddItemPreservesOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	b, err := store.Create(ctx)
	require.NoError(t, err)

	_, err = store.AddItem(ctx, b.ID, Item{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	_, err = store.AddItem(ctx, b.ID, Item{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)
	got, err := store.AddItem(ctx, b.ID, Item{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	require.Equal(t, "p1", got.Items[0].ProductID)
	require.Equal(t, 2, got.Items[0].Quantity)
	require.Equal(t, "p2", got.Items[1].ProductID)
}

func TestMemoryStoreAddItemUnknownBasket(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.AddItem(context.Background(), "missing", Item{ProductID: "p1", Quantity: 1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRemoveItem(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	b, err := store.Create(ctx)
	require.NoError(t, err)

	_, err = store.AddItem(ctx, b.ID, Item{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	_, err = store.AddItem(ctx, b.ID, Item{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)

	got, err := store.RemoveItem(ctx, b.ID, "p1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, "p2", got.Items[0].ProductID)
}

func TestMemoryStoreRemoveMissingProductLeavesBasketUnchanged(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	b, err := store.Create(ctx)
	require.NoError(t, err)
	_, err = store.AddItem(ctx, b.ID, Item{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	_, err = store.RemoveItem(ctx, b.ID, "p2")
	require.ErrorIs(t, err, ErrProductNotInBasket)

	got, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, "p1", got.Items[0].ProductID)
}

func TestMemoryStoreSettersOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	b, err := store.Create(ctx)
	require.NoError(t, err)

	got, err := store.SetDiscount(ctx, b.ID, "d1")
	require.NoError(t, err)
	require.Equal(t, "d1", got.DiscountID)

	got, err = store.SetShipping(ctx, b.ID, "UK")
	require.NoError(t, err)
	require.Equal(t, "UK", got.ShippingTo)

	got, err = store.SetShipping(ctx, b.ID, "FR")
	require.NoError(t, err)
	require.Equal(t, "FR", got.ShippingTo)

	_, err = store.SetDiscount(ctx, "missing", "d1")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.SetShipping(ctx, "missing", "UK")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	b, err := store.Create(ctx)
	require.NoError(t, err)

	const workers = 16
	const addsPerWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < addsPerWorker; j++ {
				_, err := store.AddItem(ctx, b.ID, Item{ProductID: "p1", Quantity: 1})
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, workers*addsPerWorker, got.Items[0].Quantity)
}

func TestMemoryStoreGetReturnsStableSnapshot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	b, err := store.Create(ctx)
	require.NoError(t, err)
	_, err = store.AddItem(ctx, b.ID, Item{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	snap, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	snap.Items[0].Quantity = 99

	got, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Items[0].Quantity)
}
