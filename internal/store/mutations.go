package store

import (
	"fmt"

	"bookloop/internal/catalog"

	"go.uber.org/zap"
)

// DeleteListingPrompt is asked before a listing is withdrawn.
const DeleteListingPrompt = "Are you sure you want to delete this listing?"

// Navigate switches the active page. payload is the book id for the detail
// page and the category name for the category page; every other page
// clears both selections. An unknown target leaves the state untouched.
func (s *Store) Navigate(target View, payload string) error {
	if !target.Valid() {
		return fmt.Errorf("navigate: %w: %q", ErrInvalidView, target)
	}

	s.mu.Lock()
	s.view = target
	s.selectedBookID, s.selectedCategory = "", ""
	switch target {
	case ViewBookDetails:
		s.selectedBookID = payload
	case ViewCategory:
		s.selectedCategory = payload
	}
	s.mu.Unlock()

	s.emit(Event{Kind: EventViewChanged, View: target, Detail: payload})
	return nil
}

// AddBook completes d on behalf of the user and places the result at the
// front of both the catalog and the user's listings.
func (s *Store) AddBook(d catalog.Draft) catalog.Book {
	b := s.enricher.Synthesize(d)

	s.mu.Lock()
	s.books = append([]catalog.Book{b}, s.books...)
	s.listed = append([]catalog.Book{b}, s.listed...)
	s.mu.Unlock()

	s.logger.Info("book listed", zap.String("id", b.ID), zap.String("title", b.Title))
	s.emit(Event{Kind: EventBookAdded, BookID: b.ID, Title: b.Title})
	return b
}

// RemoveListedBook withdraws a listing after c confirms DeleteListingPrompt.
// The book leaves both the listings and the catalog. It reports whether
// anything was removed; a declined or missing confirmation changes nothing.
func (s *Store) RemoveListedBook(bookID string, c Confirmer) bool {
	if c == nil || !c.Confirm(DeleteListingPrompt) {
		return false
	}

	s.mu.Lock()
	title := titleOf(s.books, bookID)
	var fromListed, fromCatalog bool
	s.listed, fromListed = without(s.listed, bookID)
	s.books, fromCatalog = without(s.books, bookID)
	s.mu.Unlock()

	removed := fromListed || fromCatalog
	if removed {
		s.emit(Event{Kind: EventListingRemoved, BookID: bookID, Title: title})
	}
	return removed
}

// ReturnRental drops bookID from the user's rentals and notifies the user.
// The notice is sent even when the book was not rented.
func (s *Store) ReturnRental(bookID string) bool {
	s.mu.Lock()
	title := titleOf(s.books, bookID)
	if title == "" {
		title = titleOf(s.rented, bookID)
	}
	var removed bool
	s.rented, removed = without(s.rented, bookID)
	s.mu.Unlock()

	s.notifier.Notify(ReturnNotice(title))
	if removed {
		s.emit(Event{Kind: EventRentalReturned, BookID: bookID, Title: title})
	}
	return removed
}

// ReturnNotice is the message shown when a return is processed.
func ReturnNotice(title string) string {
	if title == "" {
		return "Processing return. The lender will be notified."
	}
	return fmt.Sprintf("Processing return for \"%s\". The lender will be notified.", title)
}

func titleOf(books []catalog.Book, id string) string {
	if b, ok := catalog.Find(books, id); ok {
		return b.Title
	}
	return ""
}
