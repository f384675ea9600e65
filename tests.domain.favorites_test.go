package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// This file contains unit tests for the favorites store.

// TestNewFavoriteSet ensures the set rebuilds from its persisted collection
// while dropping records it cannot trust.
func TestNewFavoriteSet(t *testing.T) {
	t.Run("should pass: empty snapshot gives empty set", func(t *testing.T) {
		fs, err := NewFavoriteSet(context.Background(), zap.NewNop(), &MockCollectionStorage{})
		assert.NoError(t, err)
		assert.Equal(t, 0, fs.Size())
		assert.Empty(t, fs.List())
	})

	t.Run("should pass: invalid records are dropped", func(t *testing.T) {
		storage := storageWith(map[string][]json.RawMessage{
			FavoritesKey: {
				json.RawMessage(`7`),
				json.RawMessage(`"junk"`),
				json.RawMessage(`0`),
				json.RawMessage(`-2`),
				json.RawMessage(`3`),
			},
		})
		fs, err := NewFavoriteSet(context.Background(), zap.NewNop(), storage)
		assert.NoError(t, err)
		assert.Equal(t, []int64{3, 7}, fs.List())
	})

	t.Run("should fail: storage loading failure", func(t *testing.T) {
		storage := &MockCollectionStorage{
			LoadFunc: func(_ context.Context, _ string) ([]json.RawMessage, error) {
				return nil, errors.New("storage failure")
			},
		}
		_, err := NewFavoriteSet(context.Background(), zap.NewNop(), storage)
		assert.Error(t, err)
	})
}

// TestFavoriteSetToggle ensures toggling flips membership, reports the new
// state and persists the sorted collection after each call.
func TestFavoriteSetToggle(t *testing.T) {
	ctx := context.Background()
	storage := &MockCollectionStorage{}
	fs, err := NewFavoriteSet(ctx, zap.NewNop(), storage)
	assert.NoError(t, err)

	favorited, err := fs.Toggle(ctx, 7)
	assert.NoError(t, err)
	assert.True(t, favorited)
	assert.True(t, fs.IsFavorite(7))

	favorited, err = fs.Toggle(ctx, 3)
	assert.NoError(t, err)
	assert.True(t, favorited)
	assert.Equal(t, []int64{3, 7}, fs.List())
	assert.Equal(t, []int64{3, 7}, storage.LastSaved(FavoritesKey))

	favorited, err = fs.Toggle(ctx, 7)
	assert.NoError(t, err)
	assert.False(t, favorited)
	assert.False(t, fs.IsFavorite(7))
	assert.Equal(t, []int64{3}, storage.LastSaved(FavoritesKey))

	// a non-positive id is ignored and does not persist anything.
	favorited, err = fs.Toggle(ctx, 0)
	assert.NoError(t, err)
	assert.False(t, favorited)
	assert.Equal(t, 1, fs.Size())
}

// TestFavoriteSetToggleStorageFailure ensures a failed persist surfaces the
// error while the in-memory state already moved.
func TestFavoriteSetToggleStorageFailure(t *testing.T) {
	ctx := context.Background()
	storage := &MockCollectionStorage{
		SaveFunc: func(_ context.Context, _ string, _ interface{}) error {
			return errors.New("storage failure")
		},
	}
	fs, err := NewFavoriteSet(ctx, zap.NewNop(), storage)
	assert.NoError(t, err)

	favorited, err := fs.Toggle(ctx, 7)
	assert.Error(t, err)
	assert.True(t, favorited)
	assert.True(t, fs.IsFavorite(7))
}
