package render

import (
	"bookloop/internal/catalog"
	"bookloop/internal/store"
)

// Select picks the page for snap. Loading wins over an error, an error wins
// over the current view. Selections that resolve to nothing fall back to
// the home page.
func Select(snap store.Snapshot) Page {
	if snap.Loading {
		return Page{Kind: PageLoading}
	}
	if snap.LoadError != "" {
		return Page{Kind: PageError, Message: snap.LoadError}
	}

	switch snap.View {
	case store.ViewBookDetails:
		b, ok := catalog.Find(snap.Catalog, snap.SelectedBookID)
		if snap.SelectedBookID == "" || !ok {
			return Home(snap.Catalog)
		}
		return Page{Kind: PageBookDetails, Book: b}
	case store.ViewCategory:
		if snap.SelectedCategory == "" {
			return Home(snap.Catalog)
		}
		return Page{
			Kind:     PageCategory,
			Category: snap.SelectedCategory,
			Books:    catalog.Filter(snap.Catalog, snap.SelectedCategory),
		}
	case store.ViewMyBooks:
		return Page{Kind: PageMyBooks, Books: snap.Listed}
	case store.ViewMyRentals:
		return Page{Kind: PageMyRentals, Books: snap.Rented}
	case store.ViewListBook:
		return Page{Kind: PageListBook}
	case store.ViewProfile:
		return Page{Kind: PageProfile}
	default:
		return Home(snap.Catalog)
	}
}

// Home builds the landing page from the catalog.
func Home(books []catalog.Book) Page {
	return Page{
		Kind:       PageHome,
		Slides:     Slides,
		Categories: catalog.PopularCategories,
		Shelves: []Shelf{
			{Title: NearYouTitle, Books: shelf(books, 0)},
			{Title: RecommendedTitle, Books: shelf(books, ShelfSize)},
		},
	}
}

func shelf(books []catalog.Book, from int) []catalog.Book {
	if from >= len(books) {
		return []catalog.Book{}
	}
	to := from + ShelfSize
	if to > len(books) {
		to = len(books)
	}
	return books[from:to]
}
