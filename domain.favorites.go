package main

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// FavoriteSet is the set of favorited book ids. It is constructed from the
// persisted collection and written back after every mutation. Ids which no
// longer resolve in the catalog are kept until the user untoggles them and
// simply render as nothing.
type FavoriteSet struct {
	logger  *zap.Logger
	storage CollectionStorage

	mu  sync.Mutex
	ids map[int64]struct{}
}

// NewFavoriteSet builds the set from the persisted favorites collection.
// Records which do not coerce to a positive integer id are dropped.
func NewFavoriteSet(ctx context.Context, logger *zap.Logger, storage CollectionStorage) (*FavoriteSet, error) {
	records, err := storage.LoadCollection(ctx, FavoritesKey)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(records))
	for _, record := range records {
		var id int64
		if err := json.Unmarshal(record, &id); err != nil || id <= 0 {
			logger.Warn("favorites: dropping invalid persisted record", zap.ByteString("record", record))
			continue
		}
		ids[id] = struct{}{}
	}
	return &FavoriteSet{logger: logger, storage: storage, ids: ids}, nil
}

// IsFavorite reports whether the given book id is favorited.
func (fs *FavoriteSet) IsFavorite(id int64) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, ok := fs.ids[id]
	return ok
}

// Toggle flips the membership of the given id and persists the collection.
// It reports the new membership state. A non-positive id is a no-op.
func (fs *FavoriteSet) Toggle(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.ids[id]; ok {
		delete(fs.ids, id)
	} else {
		fs.ids[id] = struct{}{}
	}
	_, favorited := fs.ids[id]
	if err := fs.storage.SaveCollection(ctx, FavoritesKey, fs.list()); err != nil {
		return favorited, err
	}
	return favorited, nil
}

// List returns the favorited ids in ascending order.
func (fs *FavoriteSet) List() []int64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.list()
}

// Size returns the number of favorited ids.
func (fs *FavoriteSet) Size() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.ids)
}

func (fs *FavoriteSet) list() []int64 {
	ids := make([]int64, 0, len(fs.ids))
	for id := range fs.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
