package store

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"sync"
	"testing"
	"time"

	"bookloop/internal/catalog"

	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2024, time.August, 3, 10, 0, 0, 0, time.UTC)

// MockNotifier records every notice it receives.
type MockNotifier struct {
	Messages []string
}

func (m *MockNotifier) Notify(message string) {
	m.Messages = append(m.Messages, message)
}

// MockConfirmer answers with a fixed reply and remembers the prompts.
type MockConfirmer struct {
	Reply   bool
	Prompts []string
}

func (m *MockConfirmer) Confirm(prompt string) bool {
	m.Prompts = append(m.Prompts, prompt)
	return m.Reply
}

func sampleBooks(n int) []catalog.Book {
	books := make([]catalog.Book, n)
	for i := range books {
		id := strconv.Itoa(i)
		books[i] = catalog.Book{ID: "b" + id, Title: "Title " + id, Category: "Fiction"}
	}
	return books
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	e := catalog.NewEnricher(rand.New(rand.NewPCG(1, 2)), catalog.CurrentUser, catalog.WithClock(clock))
	s := New(e, append([]Option{WithClock(clock)}, opts...)...)
	s.Install(sampleBooks(10))
	return s
}

func ids(books []catalog.Book) []string {
	out := []string{}
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func contains(books []catalog.Book, id string) bool {
	_, ok := catalog.Find(books, id)
	return ok
}

func TestNewStartsLoading(t *testing.T) {
	s := New(catalog.NewEnricher(rand.New(rand.NewPCG(1, 1)), catalog.CurrentUser))
	snap := s.Snapshot()

	if !snap.Loading {
		t.Error("Expected a fresh store to be loading")
	}
	if snap.View != ViewHome {
		t.Errorf("Expected home view, got %q", snap.View)
	}
	if len(snap.Catalog) != 0 {
		t.Errorf("Expected empty catalog, got %d books", len(snap.Catalog))
	}
}

func TestInstallSeedsShelves(t *testing.T) {
	tests := []struct {
		name       string
		books      int
		wantListed []string
		wantRented []string
	}{
		{"full batch", 10, []string{"b0", "b1", "b2", "b3"}, []string{"b4", "b5", "b6"}},
		{"short batch", 5, []string{"b0", "b1", "b2", "b3"}, []string{"b4"}},
		{"tiny batch", 2, []string{"b0", "b1"}, []string{}},
		{"empty batch", 0, []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(catalog.NewEnricher(rand.New(rand.NewPCG(1, 1)), catalog.CurrentUser))
			s.BeginLoad()
			s.Install(sampleBooks(tt.books))

			snap := s.Snapshot()
			if snap.Loading {
				t.Error("Expected loading to be cleared")
			}
			if diff := cmp.Diff(tt.wantListed, ids(snap.Listed)); diff != "" {
				t.Errorf("listed mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRented, ids(snap.Rented)); diff != "" {
				t.Errorf("rented mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFailLoad(t *testing.T) {
	s := New(catalog.NewEnricher(rand.New(rand.NewPCG(1, 1)), catalog.CurrentUser))
	s.BeginLoad()
	s.FailLoad("Could not load book data. Please try again later.")

	snap := s.Snapshot()
	if snap.Loading {
		t.Error("Expected loading to be cleared")
	}
	if snap.LoadError == "" {
		t.Error("Expected load error to be set")
	}
	if len(snap.Catalog) != 0 {
		t.Errorf("Expected empty catalog after failure, got %d", len(snap.Catalog))
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := newTestStore(t)

	books := s.Catalog()
	books[0].Title = "changed"

	if b, _ := s.Book("b0"); b.Title != "Title 0" {
		t.Errorf("Expected store to be unaffected by caller edits, got %q", b.Title)
	}
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name         string
		target       View
		payload      string
		wantBook     string
		wantCategory string
	}{
		{"book details", ViewBookDetails, "b3", "b3", ""},
		{"category", ViewCategory, "Fiction", "", "Fiction"},
		{"home clears", ViewHome, "ignored", "", ""},
		{"profile clears", ViewProfile, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			// Start from a state with both selections populated.
			_ = s.Navigate(ViewCategory, "History")
			_ = s.Navigate(ViewBookDetails, "b1")
			s.mu.Lock()
			s.selectedCategory = "History"
			s.mu.Unlock()

			if err := s.Navigate(tt.target, tt.payload); err != nil {
				t.Fatalf("Navigate() error = %v", err)
			}

			snap := s.Snapshot()
			if snap.View != tt.target {
				t.Errorf("Expected view %q, got %q", tt.target, snap.View)
			}
			if snap.SelectedBookID != tt.wantBook {
				t.Errorf("Expected selected book %q, got %q", tt.wantBook, snap.SelectedBookID)
			}
			if snap.SelectedCategory != tt.wantCategory {
				t.Errorf("Expected selected category %q, got %q", tt.wantCategory, snap.SelectedCategory)
			}
		})
	}
}

func TestNavigateInvalidView(t *testing.T) {
	s := newTestStore(t)
	_ = s.Navigate(ViewCategory, "Fiction")
	before := s.Snapshot()

	err := s.Navigate(View("settings"), "x")
	if !errors.Is(err, ErrInvalidView) {
		t.Fatalf("Expected ErrInvalidView, got %v", err)
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("state changed after invalid navigation (-want +got):\n%s", diff)
	}
}

func TestParseView(t *testing.T) {
	for _, v := range Views {
		got, err := ParseView(string(v))
		if err != nil || got != v {
			t.Errorf("ParseView(%q) = %q, %v", v, got, err)
		}
	}
	if _, err := ParseView("Home"); !errors.Is(err, ErrInvalidView) {
		t.Errorf("Expected case-sensitive parse to fail, got %v", err)
	}
}

func TestAddBook(t *testing.T) {
	drafts := []catalog.Draft{
		{Title: "The Guide", Author: "R. K. Narayan", Category: "Fiction", ISBN: "978-0143039648", PricePerDay: 15, Condition: catalog.ConditionLikeNew},
		{Title: "X", ISBN: ""},
		{Title: "Sapiens", Author: "Yuval Noah Harari", Category: "History", ISBN: "978-0062316097", PricePerDay: 25, Condition: catalog.ConditionGood, CoverURL: "https://example.com/c.jpg"},
	}

	for _, d := range drafts {
		t.Run(d.Title, func(t *testing.T) {
			s := newTestStore(t)
			got := s.AddBook(d)

			snap := s.Snapshot()
			if diff := cmp.Diff(got, snap.Catalog[0]); diff != "" {
				t.Errorf("catalog[0] mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(snap.Catalog[0], snap.Listed[0]); diff != "" {
				t.Errorf("listed[0] mismatch (-want +got):\n%s", diff)
			}
			if got.ID == "" {
				t.Error("Expected a non-empty id")
			}
			if d.ISBN != "" && got.ID != d.ISBN {
				t.Errorf("Expected id %q, got %q", d.ISBN, got.ID)
			}
			if got.Distance != catalog.LocalDistance {
				t.Errorf("Expected distance %q, got %q", catalog.LocalDistance, got.Distance)
			}
			if got.LenderName != catalog.CurrentUser.Name || got.LenderPhoneNumber != catalog.CurrentUser.PhoneNumber {
				t.Errorf("Expected current user as lender, got %q/%q", got.LenderName, got.LenderPhoneNumber)
			}
			if got.Pincode != catalog.CurrentUser.Pincode {
				t.Errorf("Expected pincode %q, got %q", catalog.CurrentUser.Pincode, got.Pincode)
			}
			if len(snap.Catalog) != 11 || len(snap.Listed) != 5 {
				t.Errorf("Expected 11/5 books, got %d/%d", len(snap.Catalog), len(snap.Listed))
			}
		})
	}
}

func TestAddBookEmptyISBNUsesTimestamp(t *testing.T) {
	s := newTestStore(t)
	got := s.AddBook(catalog.Draft{Title: "X", ISBN: ""})

	want := strconv.FormatInt(fixedNow.UnixMilli(), 10)
	if got.ID != want {
		t.Errorf("Expected timestamp id %q, got %q", want, got.ID)
	}
}

func TestRemoveListedBook(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		s := newTestStore(t)
		c := &MockConfirmer{Reply: true}

		if !s.RemoveListedBook("b2", c) {
			t.Fatal("Expected removal to report true")
		}
		if diff := cmp.Diff([]string{DeleteListingPrompt}, c.Prompts); diff != "" {
			t.Errorf("prompts mismatch (-want +got):\n%s", diff)
		}
		snap := s.Snapshot()
		if contains(snap.Catalog, "b2") || contains(snap.Listed, "b2") {
			t.Error("Expected b2 to be gone from catalog and listings")
		}
	})

	t.Run("declined", func(t *testing.T) {
		s := newTestStore(t)
		before := s.Snapshot()

		if s.RemoveListedBook("b2", &MockConfirmer{Reply: false}) {
			t.Error("Expected declined removal to report false")
		}
		if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
			t.Errorf("state changed after decline (-want +got):\n%s", diff)
		}
	})

	t.Run("nil confirmer", func(t *testing.T) {
		s := newTestStore(t)
		if s.RemoveListedBook("b2", nil) {
			t.Error("Expected removal without confirmer to be refused")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		s := newTestStore(t)
		s.RemoveListedBook("b1", Answer(true))
		after := s.Snapshot()

		if s.RemoveListedBook("b1", Answer(true)) {
			t.Error("Expected second removal to report false")
		}
		if diff := cmp.Diff(after, s.Snapshot()); diff != "" {
			t.Errorf("state changed on repeated removal (-want +got):\n%s", diff)
		}
	})
}

func TestReturnRental(t *testing.T) {
	n := &MockNotifier{}
	s := newTestStore(t, WithNotifier(n))

	if !s.ReturnRental("b5") {
		t.Fatal("Expected return to report true")
	}

	snap := s.Snapshot()
	if contains(snap.Rented, "b5") {
		t.Error("Expected b5 to leave rentals")
	}
	if !contains(snap.Catalog, "b5") {
		t.Error("Expected b5 to stay in catalog")
	}
	if diff := cmp.Diff([]string{"b0", "b1", "b2", "b3"}, ids(snap.Listed)); diff != "" {
		t.Errorf("listings changed (-want +got):\n%s", diff)
	}
	want := []string{`Processing return for "Title 5". The lender will be notified.`}
	if diff := cmp.Diff(want, n.Messages); diff != "" {
		t.Errorf("notices mismatch (-want +got):\n%s", diff)
	}

	// Second return of the same id changes nothing but still notifies.
	before := s.Snapshot()
	if s.ReturnRental("b5") {
		t.Error("Expected repeated return to report false")
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("state changed on repeated return (-want +got):\n%s", diff)
	}
	if len(n.Messages) != 2 {
		t.Errorf("Expected 2 notices, got %d", len(n.Messages))
	}
}

func TestReturnRentalUnknownTitle(t *testing.T) {
	n := &MockNotifier{}
	s := newTestStore(t, WithNotifier(n))

	s.ReturnRental("missing")

	want := []string{"Processing return. The lender will be notified."}
	if diff := cmp.Diff(want, n.Messages); diff != "" {
		t.Errorf("notices mismatch (-want +got):\n%s", diff)
	}
}

func TestAddReview(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		rating  int
		text    string
		wantErr bool
	}{
		{"valid", 4, "Loved it", false},
		{"zero rating", 0, "text", true},
		{"too high", 6, "text", true},
		{"blank text", 3, "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddReview("b0", tt.rating, tt.text)
			if tt.wantErr != (err != nil) {
				t.Fatalf("AddReview() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidReview) {
				t.Errorf("Expected ErrInvalidReview, got %v", err)
			}
		})
	}

	reviews := s.Reviews("b0")
	if len(reviews) != 1+len(SampleReviews) {
		t.Fatalf("Expected %d reviews, got %d", 1+len(SampleReviews), len(reviews))
	}
	first := reviews[0]
	if first.Author != "Rohan G." || first.Rating != 4 || first.Date != "August 3, 2024" {
		t.Errorf("Unexpected review %+v", first)
	}
	if got := s.Reviews("b1"); len(got) != len(SampleReviews) {
		t.Errorf("Expected only sample reviews for b1, got %d", len(got))
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t)

	var kinds []EventKind
	s.Subscribe(func(ev Event) {
		if ev.ID == "" || ev.At.IsZero() {
			t.Errorf("Expected stamped event, got %+v", ev)
		}
		// Reads from inside a subscriber must not deadlock.
		_ = s.Snapshot()
		kinds = append(kinds, ev.Kind)
	})

	_ = s.Navigate(ViewMyBooks, "")
	s.AddBook(catalog.Draft{Title: "New", ISBN: "n1"})
	s.RemoveListedBook("n1", Answer(true))
	s.RemoveListedBook("n1", Answer(true))
	s.ReturnRental("b4")
	_, _ = s.AddReview("b4", 5, "Great")

	want := []EventKind{EventViewChanged, EventBookAdded, EventListingRemoved, EventRentalReturned, EventReviewAdded}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddBook(catalog.Draft{Title: "T", ISBN: "c" + strconv.Itoa(i)})
			_ = s.Navigate(ViewHome, "")
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	if got := len(s.Catalog()); got != 30 {
		t.Errorf("Expected 30 books, got %d", got)
	}
	if got := len(s.MyListedBooks()); got != 24 {
		t.Errorf("Expected 24 listings, got %d", got)
	}
}
