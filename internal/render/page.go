// Package render decides which page a snapshot of the store shows.
package render

import "bookloop/internal/catalog"

// PageKind identifies the page to draw.
type PageKind int

const (
	PageLoading PageKind = iota
	PageError
	PageHome
	PageBookDetails
	PageCategory
	PageMyBooks
	PageMyRentals
	PageListBook
	PageProfile
)

func (k PageKind) String() string {
	switch k {
	case PageLoading:
		return "loading"
	case PageError:
		return "error"
	case PageHome:
		return "home"
	case PageBookDetails:
		return "bookDetails"
	case PageCategory:
		return "category"
	case PageMyBooks:
		return "myBooks"
	case PageMyRentals:
		return "myRentals"
	case PageListBook:
		return "listBook"
	case PageProfile:
		return "profile"
	default:
		return "unknown"
	}
}

const (
	NearYouTitle     = "Books Near You"
	RecommendedTitle = "Recommended for You"
	ShelfSize        = 10
)

// Shelf is a titled row of books on the home page.
type Shelf struct {
	Title string
	Books []catalog.Book
}

// Slide is one panel of the home page banner.
type Slide struct {
	Title    string
	Subtitle string
}

// Slides rotate on the home page banner.
var Slides = []Slide{
	{"Discover Your Next Favorite Book", "Explore thousands of books shared by your community."},
	{"Affordable Renting", "Read more for less. Rent books at a fraction of their retail price."},
	{"Share & Earn", "List your own books and earn money when others rent them."},
}

// Page describes what to draw. Only the fields relevant to Kind are set.
type Page struct {
	Kind PageKind

	// PageError
	Message string

	// PageHome
	Slides     []Slide
	Categories []catalog.Category
	Shelves    []Shelf

	// PageBookDetails
	Book catalog.Book

	// PageCategory, PageMyBooks, PageMyRentals
	Category string
	Books    []catalog.Book
}
