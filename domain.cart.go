package main

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// CartLine is one entry of the cart: a book id and its requested quantity.
// The quantity is always at least 1; a line is removed outright, never kept
// at zero.
type CartLine struct {
	ID  int64 `json:"id"`
	Qty int64 `json:"qty"`
}

// CartSummary carries the amounts of the cart summary block. Shipping and
// tax are constant zero in the current pricing policy.
type CartSummary struct {
	Subtotal int64
	Shipping int64
	Tax      int64
	Total    int64
}

// Cart is the ordered sequence of cart lines, unique by book id. Lines keep
// their insertion order: adding an already carted book increments its
// quantity in place and a removed then re-added book lands at the end. The
// collection is persisted after every mutation.
type Cart struct {
	logger  *zap.Logger
	storage CollectionStorage

	mu    sync.Mutex
	lines []CartLine
}

// NewCart builds the cart from the persisted collection. Records with a
// non-positive id or not decoding to a line are dropped and quantities are
// clamped to 1.
func NewCart(ctx context.Context, logger *zap.Logger, storage CollectionStorage) (*Cart, error) {
	records, err := storage.LoadCollection(ctx, CartKey)
	if err != nil {
		return nil, err
	}
	lines := make([]CartLine, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, record := range records {
		var line CartLine
		if err := json.Unmarshal(record, &line); err != nil || line.ID <= 0 {
			logger.Warn("cart: dropping invalid persisted record", zap.ByteString("record", record))
			continue
		}
		if _, ok := seen[line.ID]; ok {
			logger.Warn("cart: dropping duplicated persisted line", zap.Int64("book.id", line.ID))
			continue
		}
		if line.Qty < 1 {
			line.Qty = 1
		}
		seen[line.ID] = struct{}{}
		lines = append(lines, line)
	}
	return &Cart{logger: logger, storage: storage, lines: lines}, nil
}

// Add puts one more unit of the given book into the cart: an existing line
// gets its quantity incremented, otherwise a fresh line with quantity 1 is
// appended. A non-positive id is a no-op.
func (c *Cart) Add(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		c.lines[i].Qty++
	} else {
		c.lines = append(c.lines, CartLine{ID: id, Qty: 1})
	}
	return c.persist(ctx)
}

// SetQuantity overwrites the quantity of an existing line, clamped to a
// minimum of 1. It returns ErrCartLineNotFound when the book is not carted.
func (c *Cart) SetQuantity(ctx context.Context, id, qty int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrCartLineNotFound
	}
	if qty < 1 {
		qty = 1
	}
	c.lines[i].Qty = qty
	return c.persist(ctx)
}

// Adjust applies a delta to the quantity of an existing line with the same
// clamping as SetQuantity: decrementing a quantity of 1 holds it at 1, the
// line is only ever dropped through Remove.
func (c *Cart) Adjust(ctx context.Context, id, delta int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrCartLineNotFound
	}
	qty := c.lines[i].Qty + delta
	if qty < 1 {
		qty = 1
	}
	c.lines[i].Qty = qty
	return c.persist(ctx)
}

// Remove deletes the line matching the given id outright. Removing an
// absent id leaves the cart unchanged.
func (c *Cart) Remove(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.lines[:0]
	for _, line := range c.lines {
		if line.ID != id {
			lines = append(lines, line)
		}
	}
	c.lines = lines
	return c.persist(ctx)
}

// Lines returns a copy of the cart lines in their insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// BadgeCount returns the number of distinct cart lines. The badge counts
// lines, not summed quantities.
func (c *Cart) BadgeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Summary computes the cart amounts from the catalog prices. Lines whose
// book id no longer resolves in the catalog are skipped and contribute
// nothing to the subtotal.
func (c *Cart) Summary(catalog *Catalog) CartSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	var subtotal int64
	for _, line := range c.lines {
		book, ok := catalog.Find(line.ID)
		if !ok {
			continue
		}
		subtotal += line.Qty * book.Price
	}
	return CartSummary{
		Subtotal: subtotal,
		Shipping: 0,
		Tax:      0,
		Total:    subtotal,
	}
}

// index returns the position of the line matching the id, -1 when absent.
// Callers must hold the lock.
func (c *Cart) index(id int64) int {
	for i, line := range c.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

// persist overwrites the stored cart collection with the current lines.
// Callers must hold the lock.
func (c *Cart) persist(ctx context.Context) error {
	return c.storage.SaveCollection(ctx, CartKey, c.lines)
}
