package store

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a state change.
type EventKind string

const (
	EventCatalogInstalled EventKind = "catalog_installed"
	EventLoadFailed       EventKind = "load_failed"
	EventViewChanged      EventKind = "view_changed"
	EventBookAdded        EventKind = "book_added"
	EventListingRemoved   EventKind = "listing_removed"
	EventRentalReturned   EventKind = "rental_returned"
	EventReviewAdded      EventKind = "review_added"
)

// Event describes one committed change to the store.
type Event struct {
	ID     string
	Kind   EventKind
	BookID string
	Title  string
	View   View
	Detail string
	At     time.Time
}

func (e Event) stamp(now time.Time) Event {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = now
	}
	return e
}

// Notifier delivers a user-facing notice, such as the return confirmation.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Confirmer answers a yes/no prompt before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Answer is a pre-recorded reply, used when the prompt was already shown.
type Answer bool

func (a Answer) Confirm(string) bool { return bool(a) }

func itoa(n int) string {
	return strconv.Itoa(n)
}
