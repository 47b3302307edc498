package store

import (
	"errors"
	"fmt"
)

// View names one of the marketplace pages.
type View string

const (
	ViewHome        View = "home"
	ViewBookDetails View = "bookDetails"
	ViewCategory    View = "category"
	ViewMyBooks     View = "myBooks"
	ViewMyRentals   View = "myRentals"
	ViewListBook    View = "listBook"
	ViewProfile     View = "profile"
)

// Views lists every page in navigation order.
var Views = []View{
	ViewHome,
	ViewBookDetails,
	ViewCategory,
	ViewMyBooks,
	ViewMyRentals,
	ViewListBook,
	ViewProfile,
}

// ErrInvalidView is returned when navigation targets an unknown page.
var ErrInvalidView = errors.New("invalid view")

// Valid reports whether v is one of the seven pages.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewBookDetails, ViewCategory, ViewMyBooks, ViewMyRentals, ViewListBook, ViewProfile:
		return true
	}
	return false
}

func (v View) String() string {
	return string(v)
}

// ParseView maps a page name onto a View.
func ParseView(name string) (View, error) {
	v := View(name)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidView, name)
	}
	return v, nil
}
