package main

import (
	"encoding/json"
	"os"
	"sort"

	"go.uber.org/zap"
)

// FeaturedCount is the number of catalog entries promoted on the home page.
const FeaturedCount = 4

// Book represents an entry of the static catalog. The catalog is loaded
// once at startup and never mutated afterwards.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Price  int64  `json:"price"`
	Genre  string `json:"genre"`
	Image  string `json:"image"`
}

// Catalog holds the ordered immutable list of books with an index by id.
type Catalog struct {
	books []Book
	byID  map[int64]Book
}

// LoadCatalogFile reads the books dataset from the given json file.
func LoadCatalogFile(path string) ([]Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var books []Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// NewCatalog validates the raw dataset and builds the catalog. Records with
// a non-positive id are dropped and duplicated ids keep their first
// occurrence only. A negative price is clamped to zero so that invalid
// amounts cannot flow into cart totals.
func NewCatalog(logger *zap.Logger, books []Book) *Catalog {
	c := &Catalog{
		books: make([]Book, 0, len(books)),
		byID:  make(map[int64]Book, len(books)),
	}
	for _, book := range books {
		if book.ID <= 0 {
			logger.Warn("catalog: dropping record with invalid id", zap.Int64("book.id", book.ID), zap.String("book.title", book.Title))
			continue
		}
		if _, ok := c.byID[book.ID]; ok {
			logger.Warn("catalog: dropping record with duplicated id", zap.Int64("book.id", book.ID), zap.String("book.title", book.Title))
			continue
		}
		if book.Price < 0 {
			logger.Warn("catalog: clamping negative price to zero", zap.Int64("book.id", book.ID), zap.Int64("book.price", book.Price))
			book.Price = 0
		}
		c.books = append(c.books, book)
		c.byID[book.ID] = book
	}
	return c
}

// Books returns the catalog entries in their original order.
func (c *Catalog) Books() []Book {
	return c.books
}

// Find returns the book matching the given id.
func (c *Catalog) Find(id int64) (Book, bool) {
	book, ok := c.byID[id]
	return book, ok
}

// Size returns the number of catalog entries.
func (c *Catalog) Size() int {
	return len(c.books)
}

// Featured returns the first entries of the catalog to be promoted.
func (c *Catalog) Featured() []Book {
	if len(c.books) <= FeaturedCount {
		return c.books
	}
	return c.books[:FeaturedCount]
}

// Genres returns the sorted list of unique genres present in the catalog.
func (c *Catalog) Genres() []string {
	return c.uniqueValues(func(b Book) string { return b.Genre })
}

// Authors returns the sorted list of unique authors present in the catalog.
func (c *Catalog) Authors() []string {
	return c.uniqueValues(func(b Book) string { return b.Author })
}

func (c *Catalog) uniqueValues(value func(Book) string) []string {
	seen := make(map[string]struct{}, len(c.books))
	values := make([]string, 0, len(c.books))
	for _, book := range c.books {
		v := value(book)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
