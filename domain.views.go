package main

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders amounts with the locale thousands grouping of the shop
// currency ("$1,450.00").
var printer = message.NewPrinter(language.AmericanEnglish)

// BookCard is the view model of a rendered book card.
type BookCard struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Genre    string `json:"genre"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Favorite bool   `json:"favorite"`
}

// CartRow is the view model of a rendered cart line.
type CartRow struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Image     string `json:"image"`
	Qty       int64  `json:"qty"`
	LineTotal string `json:"lineTotal"`
}

// CartSummaryView is the rendered cart summary block.
type CartSummaryView struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// CartView bundles everything the cart page renders.
type CartView struct {
	Rows    []CartRow       `json:"rows"`
	Summary CartSummaryView `json:"summary"`
	Badge   int             `json:"badge"`
}

// FormatPrice renders an amount as a currency string with exactly two
// decimal places, e.g. 500 -> "$500.00".
func FormatPrice(amount int64) string {
	return printer.Sprintf("$%.2f", float64(amount))
}

// ResolveImage falls back to the default cover for books without image.
// Absolute http(s) urls pass through untouched.
func ResolveImage(image, fallback string) string {
	if image == "" {
		return fallback
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return image
}

// NewBookCard projects a catalog entry into its card view model.
func NewBookCard(book Book, favorite bool, defaultImage string) BookCard {
	return BookCard{
		ID:       book.ID,
		Title:    book.Title,
		Author:   book.Author,
		Genre:    book.Genre,
		Price:    FormatPrice(book.Price),
		Image:    ResolveImage(book.Image, defaultImage),
		Favorite: favorite,
	}
}

// NewCartRow projects a cart line and its resolved book into a row view
// model with the computed line total.
func NewCartRow(line CartLine, book Book, defaultImage string) CartRow {
	return CartRow{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Image:     ResolveImage(book.Image, defaultImage),
		Qty:       line.Qty,
		LineTotal: FormatPrice(line.Qty * book.Price),
	}
}

// NewCartSummaryView renders the summary amounts.
func NewCartSummaryView(summary CartSummary) CartSummaryView {
	return CartSummaryView{
		Subtotal: FormatPrice(summary.Subtotal),
		Shipping: FormatPrice(summary.Shipping),
		Tax:      FormatPrice(summary.Tax),
		Total:    FormatPrice(summary.Total),
	}
}
