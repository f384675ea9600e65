package main

import (
	"net/url"
	"strings"
)

// FilterState carries the active library filters for a single listing
// request. Genres are OR-matched, the author is a single exact match and
// the search query is a case-insensitive prefix match.
type FilterState struct {
	Genres map[string]struct{}
	Author string
	Search string
}

// NewFilterState returns an empty filter state which matches every book.
func NewFilterState() FilterState {
	return FilterState{Genres: make(map[string]struct{})}
}

// ParseFilterState builds a filter state from listing query parameters.
// Repeated `genre` values accumulate into the OR-set.
func ParseFilterState(query url.Values) FilterState {
	f := NewFilterState()
	for _, genre := range query["genre"] {
		if genre == "" {
			continue
		}
		f.Genres[genre] = struct{}{}
	}
	f.Author = query.Get("author")
	f.Search = query.Get("q")
	return f
}

// ComputeVisible returns the catalog entries passing all active filters,
// preserving the catalog order. Empty filter conditions are neutral.
func ComputeVisible(books []Book, f FilterState) []Book {
	query := normalizeQuery(f.Search)
	visible := make([]Book, 0, len(books))
	for _, book := range books {
		if !matchGenre(book, f.Genres) {
			continue
		}
		if !matchAuthor(book, f.Author) {
			continue
		}
		if !matchQuery(book, query) {
			continue
		}
		visible = append(visible, book)
	}
	return visible
}

// VisibleFavorites returns the favorited books in catalog order. The
// favorites listing applies the search query only, never genre or author.
func VisibleFavorites(books []Book, isFavorite func(int64) bool, search string) []Book {
	query := normalizeQuery(search)
	visible := make([]Book, 0, len(books))
	for _, book := range books {
		if !isFavorite(book.ID) {
			continue
		}
		if !matchQuery(book, query) {
			continue
		}
		visible = append(visible, book)
	}
	return visible
}

func normalizeQuery(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

func matchGenre(book Book, genres map[string]struct{}) bool {
	if len(genres) == 0 {
		return true
	}
	_, ok := genres[book.Genre]
	return ok
}

func matchAuthor(book Book, author string) bool {
	return author == "" || author == book.Author
}

// matchQuery passes when the query is a prefix of the title or the author.
// A book without author matches through its title only.
func matchQuery(book Book, query string) bool {
	if query == "" {
		return true
	}
	if strings.HasPrefix(strings.ToLower(book.Title), query) {
		return true
	}
	return book.Author != "" && strings.HasPrefix(strings.ToLower(book.Author), query)
}
