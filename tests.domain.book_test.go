package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// This file contains unit tests for the catalog module.

// TestLoadCatalogFile ensures the books dataset loads from its json file.
func TestLoadCatalogFile(t *testing.T) {
	t.Run("should pass: valid dataset file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "books.json")
		dataset := []Book{
			{ID: 1, Title: "The Lean Startup", Author: "Eric Ries", Price: 500, Genre: "Business"},
			{ID: 2, Title: "Clean Code", Author: "Robert C. Martin", Price: 550, Genre: "Programming"},
		}
		payload, err := json.Marshal(dataset)
		assert.NoError(t, err)
		assert.NoError(t, os.WriteFile(path, payload, 0o600))

		books, err := LoadCatalogFile(path)
		assert.NoError(t, err)
		assert.Equal(t, dataset, books)
	})

	t.Run("should fail: missing dataset file", func(t *testing.T) {
		_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("should fail: corrupted dataset file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "books.json")
		assert.NoError(t, os.WriteFile(path, []byte("{corrupted"), 0o600))
		_, err := LoadCatalogFile(path)
		assert.Error(t, err)
	})
}

// TestNewCatalog ensures the raw dataset is validated while keeping the
// original ordering of the surviving records.
func TestNewCatalog(t *testing.T) {
	catalog := NewCatalog(zap.NewNop(), []Book{
		{ID: 2, Title: "Clean Code", Author: "Robert C. Martin", Price: 550, Genre: "Programming"},
		{ID: 0, Title: "No Id"},
		{ID: 2, Title: "Duplicate Id"},
		{ID: 1, Title: "The Lean Startup", Author: "Eric Ries", Price: -10, Genre: "Business"},
	})

	assert.Equal(t, 2, catalog.Size())
	assert.Equal(t, []int64{2, 1}, bookIDs(catalog.Books()))

	book, ok := catalog.Find(2)
	assert.True(t, ok)
	assert.Equal(t, "Clean Code", book.Title)

	_, ok = catalog.Find(99)
	assert.False(t, ok)

	// the negative price was clamped to zero.
	book, ok = catalog.Find(1)
	assert.True(t, ok)
	assert.Equal(t, int64(0), book.Price)
}

// TestCatalogFeatured ensures the home page promotes the first entries only.
func TestCatalogFeatured(t *testing.T) {
	books := filterFixture()
	catalog := NewCatalog(zap.NewNop(), books)
	assert.Equal(t, []int64{1, 2, 3, 4}, bookIDs(catalog.Featured()))

	small := NewCatalog(zap.NewNop(), books[:2])
	assert.Equal(t, []int64{1, 2}, bookIDs(small.Featured()))
}

// TestCatalogGenresAndAuthors ensures the filter options are unique, sorted
// and skip empty values.
func TestCatalogGenresAndAuthors(t *testing.T) {
	catalog := NewCatalog(zap.NewNop(), filterFixture())
	assert.Equal(t, []string{"Business", "Essays", "Programming"}, catalog.Genres())
	assert.Equal(t,
		[]string{"Alistair Croll", "Andrew Hunt", "Eric Ries", "Robert C. Martin"},
		catalog.Authors(),
	)
}
