// Package store holds the session's marketplace state and the only
// operations allowed to change it.
package store

import (
	"slices"
	"sync"
	"time"

	"bookloop/internal/catalog"

	"go.uber.org/zap"
)

const (
	// ListedSeed is how many leading catalog entries seed the user's listings.
	ListedSeed = 4
	// RentedSeed is how many entries after the listings seed the user's rentals.
	RentedSeed = 3
)

// Snapshot is a point-in-time copy of the whole state.
type Snapshot struct {
	Catalog          []catalog.Book
	Listed           []catalog.Book
	Rented           []catalog.Book
	View             View
	SelectedBookID   string
	SelectedCategory string
	Loading          bool
	LoadError        string
}

// Reader is the read side every page depends on.
type Reader interface {
	Snapshot() Snapshot
	Catalog() []catalog.Book
	MyListedBooks() []catalog.Book
	MyRentedBooks() []catalog.Book
	CurrentView() View
	Book(id string) (catalog.Book, bool)
	Reviews(bookID string) []Review
	User() catalog.Identity
}

// Navigator changes the active page.
type Navigator interface {
	Navigate(target View, payload string) error
}

// Mutator changes the catalog and the user's shelves.
type Mutator interface {
	AddBook(d catalog.Draft) catalog.Book
	RemoveListedBook(bookID string, c Confirmer) bool
	ReturnRental(bookID string) bool
	AddReview(bookID string, rating int, text string) (Review, error)
}

// Store is the single in-memory state of a session. Writes are serialized;
// subscribers are notified after the write lock is released.
type Store struct {
	mu sync.RWMutex

	books  []catalog.Book
	listed []catalog.Book
	rented []catalog.Book

	view             View
	selectedBookID   string
	selectedCategory string

	loading bool
	loadErr string

	reviews map[string][]Review

	enricher    *catalog.Enricher
	notifier    Notifier
	clock       func() time.Time
	logger      *zap.Logger
	subscribers []func(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets where user-facing notices are delivered.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock overrides the clock used for event and review timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates an empty store waiting for its catalog. The enricher
// synthesizes the fields of books the user lists.
func New(enricher *catalog.Enricher, opts ...Option) *Store {
	s := &Store{
		view:     ViewHome,
		loading:  true,
		reviews:  make(map[string][]Review),
		enricher: enricher,
		notifier: NotifierFunc(func(string) {}),
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Subscribe registers fn to receive every state change.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) emit(ev Event) {
	ev = ev.stamp(s.clock())

	s.mu.RLock()
	subs := slices.Clone(s.subscribers)
	s.mu.RUnlock()

	s.logger.Debug("state changed",
		zap.String("kind", string(ev.Kind)),
		zap.String("book_id", ev.BookID),
		zap.String("view", string(ev.View)))

	for _, fn := range subs {
		fn(ev)
	}
}

// =============================================================================
// LOADING LIFECYCLE
// =============================================================================

// BeginLoad marks the one-shot ingestion as in flight.
func (s *Store) BeginLoad() {
	s.mu.Lock()
	s.loading = true
	s.loadErr = ""
	s.mu.Unlock()
}

// Install replaces the catalog with books and seeds the user's shelves from
// fixed slices of it.
func (s *Store) Install(books []catalog.Book) {
	s.mu.Lock()
	s.books = clone(books)
	s.listed = clone(window(books, 0, ListedSeed))
	s.rented = clone(window(books, ListedSeed, ListedSeed+RentedSeed))
	s.loading = false
	s.loadErr = ""
	n := len(s.books)
	s.mu.Unlock()

	s.logger.Info("catalog installed", zap.Int("books", n))
	s.emit(Event{Kind: EventCatalogInstalled, Detail: itoa(n)})
}

// FailLoad records a failed ingestion. The catalog stays empty.
func (s *Store) FailLoad(message string) {
	s.mu.Lock()
	s.books = nil
	s.listed = nil
	s.rented = nil
	s.loading = false
	s.loadErr = message
	s.mu.Unlock()

	s.emit(Event{Kind: EventLoadFailed, Detail: message})
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Snapshot copies the full state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Catalog:          clone(s.books),
		Listed:           clone(s.listed),
		Rented:           clone(s.rented),
		View:             s.view,
		SelectedBookID:   s.selectedBookID,
		SelectedCategory: s.selectedCategory,
		Loading:          s.loading,
		LoadError:        s.loadErr,
	}
}

func (s *Store) Catalog() []catalog.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.books)
}

func (s *Store) MyListedBooks() []catalog.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.listed)
}

func (s *Store) MyRentedBooks() []catalog.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.rented)
}

func (s *Store) CurrentView() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Book looks up a catalog entry by id.
func (s *Store) Book(id string) (catalog.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Find(s.books, id)
}

// User is the identity books are listed under.
func (s *Store) User() catalog.Identity {
	return s.enricher.User()
}

func clone(books []catalog.Book) []catalog.Book {
	if books == nil {
		return []catalog.Book{}
	}
	out := make([]catalog.Book, len(books))
	copy(out, books)
	return out
}

// window returns books[from:to] clamped to the slice bounds.
func window(books []catalog.Book, from, to int) []catalog.Book {
	if from > len(books) {
		from = len(books)
	}
	if to > len(books) {
		to = len(books)
	}
	return books[from:to]
}

func without(books []catalog.Book, id string) ([]catalog.Book, bool) {
	out := make([]catalog.Book, 0, len(books))
	removed := false
	for _, b := range books {
		if b.ID == id {
			removed = true
			continue
		}
		out = append(out, b)
	}
	return out, removed
}
