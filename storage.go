package main

import (
	"context"
	"encoding/json"
)

// Storage keys of the two persisted collections. Favorites and cart are
// independent collections with independent consistency.
const (
	FavoritesKey = "bookify:favorites"
	CartKey      = "bookify:cart"
)

// CollectionStorage defines possible operations on a named persisted
// collection. Loading is permissive: a missing key yields an empty
// sequence and a malformed payload is reported through a warning log and
// yields an empty sequence as well, never an error. Saving serializes and
// overwrites the whole collection.
type CollectionStorage interface {
	LoadCollection(ctx context.Context, key string) ([]json.RawMessage, error)
	SaveCollection(ctx context.Context, key string, records interface{}) error
}
