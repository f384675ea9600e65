package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// This file contains unit tests for the cart store.

func newEmptyCart(t *testing.T) (*Cart, *MockCollectionStorage) {
	t.Helper()
	storage := &MockCollectionStorage{}
	cart, err := NewCart(context.Background(), zap.NewNop(), storage)
	assert.NoError(t, err)
	return cart, storage
}

// TestNewCart ensures the cart rebuilds from its persisted collection
// while dropping records it cannot trust.
func TestNewCart(t *testing.T) {
	t.Run("should pass: empty snapshot gives empty cart", func(t *testing.T) {
		cart, _ := newEmptyCart(t)
		assert.Empty(t, cart.Lines())
		assert.Equal(t, 0, cart.BadgeCount())
	})

	t.Run("should pass: valid lines keep their stored order", func(t *testing.T) {
		storage := storageWith(map[string][]json.RawMessage{
			CartKey: rawCollection(CartLine{ID: 7, Qty: 1}, CartLine{ID: 5, Qty: 2}),
		})
		cart, err := NewCart(context.Background(), zap.NewNop(), storage)
		assert.NoError(t, err)
		assert.Equal(t, []CartLine{{ID: 7, Qty: 1}, {ID: 5, Qty: 2}}, cart.Lines())
	})

	t.Run("should pass: invalid and duplicated records are dropped", func(t *testing.T) {
		storage := storageWith(map[string][]json.RawMessage{
			CartKey: append(
				rawCollection(CartLine{ID: 5, Qty: 2}, CartLine{ID: 0, Qty: 3}, CartLine{ID: 5, Qty: 9}),
				json.RawMessage(`"not a line"`),
			),
		})
		cart, err := NewCart(context.Background(), zap.NewNop(), storage)
		assert.NoError(t, err)
		assert.Equal(t, []CartLine{{ID: 5, Qty: 2}}, cart.Lines())
	})

	t.Run("should pass: stored quantity below one is clamped to one", func(t *testing.T) {
		storage := storageWith(map[string][]json.RawMessage{
			CartKey: rawCollection(CartLine{ID: 5, Qty: 0}, CartLine{ID: 7, Qty: -4}),
		})
		cart, err := NewCart(context.Background(), zap.NewNop(), storage)
		assert.NoError(t, err)
		assert.Equal(t, []CartLine{{ID: 5, Qty: 1}, {ID: 7, Qty: 1}}, cart.Lines())
	})
}

// TestCartAdd ensures adding increments existing lines and appends new ones.
func TestCartAdd(t *testing.T) {
	ctx := context.Background()
	cart, storage := newEmptyCart(t)

	assert.NoError(t, cart.Add(ctx, 5))
	assert.NoError(t, cart.Add(ctx, 7))
	assert.NoError(t, cart.Add(ctx, 5))
	assert.Equal(t, []CartLine{{ID: 5, Qty: 2}, {ID: 7, Qty: 1}}, cart.Lines())
	assert.Equal(t, 2, cart.BadgeCount())

	// a non-positive id is ignored.
	assert.NoError(t, cart.Add(ctx, 0))
	assert.NoError(t, cart.Add(ctx, -3))
	assert.Equal(t, 2, cart.BadgeCount())

	// each mutation persisted the full collection.
	assert.Equal(t, []CartLine{{ID: 5, Qty: 2}, {ID: 7, Qty: 1}}, storage.LastSaved(CartKey))
}

// TestCartSetQuantity ensures quantities are overwritten with clamping.
func TestCartSetQuantity(t *testing.T) {
	ctx := context.Background()
	cart, _ := newEmptyCart(t)
	assert.NoError(t, cart.Add(ctx, 5))

	t.Run("should pass: overwrite quantity", func(t *testing.T) {
		assert.NoError(t, cart.SetQuantity(ctx, 5, 4))
		assert.Equal(t, []CartLine{{ID: 5, Qty: 4}}, cart.Lines())
	})

	t.Run("should pass: values below one clamp to one", func(t *testing.T) {
		assert.NoError(t, cart.SetQuantity(ctx, 5, 0))
		assert.Equal(t, []CartLine{{ID: 5, Qty: 1}}, cart.Lines())
		assert.NoError(t, cart.SetQuantity(ctx, 5, -10))
		assert.Equal(t, []CartLine{{ID: 5, Qty: 1}}, cart.Lines())
	})

	t.Run("should fail: line absent from the cart", func(t *testing.T) {
		err := cart.SetQuantity(ctx, 99, 2)
		assert.ErrorIs(t, err, ErrCartLineNotFound)
	})
}

// TestCartAdjust ensures single steps apply and a decrement at one holds the
// line at one instead of dropping it.
func TestCartAdjust(t *testing.T) {
	ctx := context.Background()
	cart, _ := newEmptyCart(t)
	assert.NoError(t, cart.Add(ctx, 5))

	assert.NoError(t, cart.Adjust(ctx, 5, 1))
	assert.Equal(t, []CartLine{{ID: 5, Qty: 2}}, cart.Lines())

	assert.NoError(t, cart.Adjust(ctx, 5, -1))
	assert.Equal(t, []CartLine{{ID: 5, Qty: 1}}, cart.Lines())

	// stepping down at one keeps the line, removal is always explicit.
	assert.NoError(t, cart.Adjust(ctx, 5, -1))
	assert.Equal(t, []CartLine{{ID: 5, Qty: 1}}, cart.Lines())
	assert.Equal(t, 1, cart.BadgeCount())

	err := cart.Adjust(ctx, 99, 1)
	assert.ErrorIs(t, err, ErrCartLineNotFound)
}

// TestCartRemove ensures removal drops the line outright and a removed then
// re-added book starts fresh at the end of the cart.
func TestCartRemove(t *testing.T) {
	ctx := context.Background()
	cart, _ := newEmptyCart(t)
	assert.NoError(t, cart.Add(ctx, 5))
	assert.NoError(t, cart.Add(ctx, 5))
	assert.NoError(t, cart.Add(ctx, 7))

	assert.NoError(t, cart.Remove(ctx, 5))
	assert.Equal(t, []CartLine{{ID: 7, Qty: 1}}, cart.Lines())

	// removing an absent line succeeds and changes nothing.
	assert.NoError(t, cart.Remove(ctx, 5))
	assert.Equal(t, []CartLine{{ID: 7, Qty: 1}}, cart.Lines())

	// re-adding lands at the end with a fresh quantity.
	assert.NoError(t, cart.Add(ctx, 5))
	assert.Equal(t, []CartLine{{ID: 7, Qty: 1}, {ID: 5, Qty: 1}}, cart.Lines())
}

// TestCartSummary ensures the amounts derive from the catalog prices and
// lines without catalog entry contribute nothing.
func TestCartSummary(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog(zap.NewNop(), []Book{
		{ID: 5, Title: "Clean Architecture", Author: "Robert C. Martin", Price: 500, Genre: "Programming"},
		{ID: 7, Title: "The Phoenix Project", Author: "Gene Kim", Price: 450, Genre: "DevOps"},
	})
	cart, _ := newEmptyCart(t)
	assert.NoError(t, cart.Add(ctx, 5))
	assert.NoError(t, cart.Add(ctx, 5))
	assert.NoError(t, cart.Add(ctx, 7))

	summary := cart.Summary(catalog)
	assert.Equal(t, CartSummary{Subtotal: 1450, Shipping: 0, Tax: 0, Total: 1450}, summary)

	// a stale line is skipped, never repaired nor removed.
	assert.NoError(t, cart.Add(ctx, 999))
	summary = cart.Summary(catalog)
	assert.Equal(t, int64(1450), summary.Subtotal)
	assert.Equal(t, 3, cart.BadgeCount())
}
