package main

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// StorefrontServiceProvider exposes every storefront operation the api
// handlers dispatch to.
type StorefrontServiceProvider interface {
	Library(ctx context.Context, filters FilterState) []BookCard
	Featured(ctx context.Context) []BookCard
	Genres(ctx context.Context) []string
	Authors(ctx context.Context) []string
	GetBook(ctx context.Context, id int64) (BookCard, error)
	Favorites(ctx context.Context, search string) []BookCard
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
	AddToCart(ctx context.Context, id int64) error
	SetQuantity(ctx context.Context, id, qty int64) error
	AdjustQuantity(ctx context.Context, id, delta int64) error
	RemoveFromCart(ctx context.Context, id int64) error
	Cart(ctx context.Context) CartView
	Badge(ctx context.Context) int
}

// StorefrontService owns the catalog and both persisted stores and keeps
// the durable mirror fed through the sync queues.
type StorefrontService struct {
	logger    *zap.Logger
	config    *Config
	catalog   *Catalog
	favorites *FavoriteSet
	cart      *Cart
	queue     Queuer
}

func NewStorefrontService(logger *zap.Logger, config *Config, catalog *Catalog, favorites *FavoriteSet, cart *Cart, queue Queuer) StorefrontServiceProvider {
	return &StorefrontService{
		logger:    logger,
		config:    config,
		catalog:   catalog,
		favorites: favorites,
		cart:      cart,
		queue:     queue,
	}
}

// Library returns the catalog entries passing the active filters as cards,
// in catalog order.
func (ss *StorefrontService) Library(_ context.Context, filters FilterState) []BookCard {
	return ss.cards(ComputeVisible(ss.catalog.Books(), filters))
}

// Featured returns the promoted home page entries as cards.
func (ss *StorefrontService) Featured(_ context.Context) []BookCard {
	return ss.cards(ss.catalog.Featured())
}

// Genres returns the genre filter options.
func (ss *StorefrontService) Genres(_ context.Context) []string {
	return ss.catalog.Genres()
}

// Authors returns the author filter options.
func (ss *StorefrontService) Authors(_ context.Context) []string {
	return ss.catalog.Authors()
}

// GetBook returns a single catalog entry as a card.
func (ss *StorefrontService) GetBook(_ context.Context, id int64) (BookCard, error) {
	book, ok := ss.catalog.Find(id)
	if !ok {
		return BookCard{}, ErrBookNotFound
	}
	return NewBookCard(book, ss.favorites.IsFavorite(book.ID), ss.config.Catalog.DefaultImage), nil
}

// Favorites returns the favorited books as cards. Only the search filter
// applies here; persisted ids without catalog entry render as nothing.
func (ss *StorefrontService) Favorites(_ context.Context, search string) []BookCard {
	return ss.cards(VisibleFavorites(ss.catalog.Books(), ss.favorites.IsFavorite, search))
}

// ToggleFavorite flips the membership of the given book id and reports the
// new state.
func (ss *StorefrontService) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	favorited, err := ss.favorites.Toggle(ctx, id)
	if err != nil {
		return favorited, err
	}
	ss.sync(ctx, FavoritesSyncQueue, ss.favorites.List())
	return favorited, nil
}

// AddToCart puts one more unit of the given book into the cart. Unknown
// books are rejected so the api cannot create fresh stale lines; stale
// lines already persisted remain tolerated.
func (ss *StorefrontService) AddToCart(ctx context.Context, id int64) error {
	if _, ok := ss.catalog.Find(id); !ok {
		return ErrBookNotFound
	}
	if err := ss.cart.Add(ctx, id); err != nil {
		return err
	}
	ss.sync(ctx, CartSyncQueue, ss.cart.Lines())
	return nil
}

// SetQuantity overwrites the quantity of an existing cart line.
func (ss *StorefrontService) SetQuantity(ctx context.Context, id, qty int64) error {
	if err := ss.cart.SetQuantity(ctx, id, qty); err != nil {
		return err
	}
	ss.sync(ctx, CartSyncQueue, ss.cart.Lines())
	return nil
}

// AdjustQuantity applies a delta to the quantity of an existing cart line.
func (ss *StorefrontService) AdjustQuantity(ctx context.Context, id, delta int64) error {
	if err := ss.cart.Adjust(ctx, id, delta); err != nil {
		return err
	}
	ss.sync(ctx, CartSyncQueue, ss.cart.Lines())
	return nil
}

// RemoveFromCart deletes the cart line of the given book id.
func (ss *StorefrontService) RemoveFromCart(ctx context.Context, id int64) error {
	if err := ss.cart.Remove(ctx, id); err != nil {
		return err
	}
	ss.sync(ctx, CartSyncQueue, ss.cart.Lines())
	return nil
}

// Cart returns the rendered cart rows, the summary block and the badge.
func (ss *StorefrontService) Cart(_ context.Context) CartView {
	lines := ss.cart.Lines()
	rows := make([]CartRow, 0, len(lines))
	for _, line := range lines {
		book, ok := ss.catalog.Find(line.ID)
		if !ok {
			// stale reference: skipped in rendering, kept in storage.
			continue
		}
		rows = append(rows, NewCartRow(line, book, ss.config.Catalog.DefaultImage))
	}
	return CartView{
		Rows:    rows,
		Summary: NewCartSummaryView(ss.cart.Summary(ss.catalog)),
		Badge:   ss.cart.BadgeCount(),
	}
}

// Badge returns the number of distinct cart lines.
func (ss *StorefrontService) Badge(_ context.Context) int {
	return ss.cart.BadgeCount()
}

func (ss *StorefrontService) cards(books []Book) []BookCard {
	cards := make([]BookCard, 0, len(books))
	for _, book := range books {
		cards = append(cards, NewBookCard(book, ss.favorites.IsFavorite(book.ID), ss.config.Catalog.DefaultImage))
	}
	return cards
}

// sync pushes the full collection snapshot to the mirror queue. A failed
// push only costs freshness of the mirror, so it is logged and swallowed.
func (ss *StorefrontService) sync(ctx context.Context, qid string, records interface{}) {
	snapshot, err := json.Marshal(records)
	if err != nil {
		ss.logger.Error("service: failed to marshal collection snapshot", zap.String("qid", qid), zap.Error(err))
		return
	}
	if err := ss.queue.Push(ctx, qid, snapshot); err != nil {
		ss.logger.Error("service: failed to push snapshot to queue", zap.String("qid", qid), zap.Error(err))
	}
}
