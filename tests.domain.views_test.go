package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// This file contains unit tests for the rendering view models.

// TestFormatPrice ensures amounts render with two decimals and thousands
// grouping.
func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$0.00", FormatPrice(0))
	assert.Equal(t, "$450.00", FormatPrice(450))
	assert.Equal(t, "$500.00", FormatPrice(500))
	assert.Equal(t, "$1,450.00", FormatPrice(1450))
	assert.Equal(t, "$12,000.00", FormatPrice(12000))
}

// TestResolveImage ensures books without cover fall back to the default one.
func TestResolveImage(t *testing.T) {
	assert.Equal(t, "images/book.png", ResolveImage("", "images/book.png"))
	assert.Equal(t, "images/clean-code.jpg", ResolveImage("images/clean-code.jpg", "images/book.png"))
	assert.Equal(t, "https://cdn.example.com/cover.jpg", ResolveImage("https://cdn.example.com/cover.jpg", "images/book.png"))
}

// TestNewBookCard ensures the card view carries the favorite state and the
// rendered price.
func TestNewBookCard(t *testing.T) {
	book := Book{ID: 5, Title: "Clean Architecture", Author: "Robert C. Martin", Price: 500, Genre: "Programming"}
	card := NewBookCard(book, true, "images/book.png")
	assert.Equal(t, BookCard{
		ID:       5,
		Title:    "Clean Architecture",
		Author:   "Robert C. Martin",
		Genre:    "Programming",
		Price:    "$500.00",
		Image:    "images/book.png",
		Favorite: true,
	}, card)
}

// TestNewCartRow ensures the row view computes the rendered line total.
func TestNewCartRow(t *testing.T) {
	book := Book{ID: 5, Title: "Clean Architecture", Author: "Robert C. Martin", Price: 500}
	row := NewCartRow(CartLine{ID: 5, Qty: 3}, book, "images/book.png")
	assert.Equal(t, int64(3), row.Qty)
	assert.Equal(t, "$1,500.00", row.LineTotal)
	assert.Equal(t, "images/book.png", row.Image)
}

// TestNewCartSummaryView ensures every amount of the summary block renders.
func TestNewCartSummaryView(t *testing.T) {
	view := NewCartSummaryView(CartSummary{Subtotal: 1450, Shipping: 0, Tax: 0, Total: 1450})
	assert.Equal(t, CartSummaryView{
		Subtotal: "$1,450.00",
		Shipping: "$0.00",
		Tax:      "$0.00",
		Total:    "$1,450.00",
	}, view)
}
