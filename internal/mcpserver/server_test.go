package mcpserver

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"

	"bookloop/internal/catalog"
	"bookloop/internal/graph"
	"bookloop/internal/journal"
	"bookloop/internal/store"

	"go.uber.org/zap"
)

// MockGraphClient implements graph.GraphClient for testing
type MockGraphClient struct {
	CypherResult []map[string]any
	CypherErr    error
	Closed       bool
}

func (m *MockGraphClient) MirrorCatalog(ctx context.Context, state graph.CatalogState) error {
	return nil
}

func (m *MockGraphClient) Reset(ctx context.Context) error {
	return nil
}

func (m *MockGraphClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	if m.CypherErr != nil {
		return nil, m.CypherErr
	}
	return m.CypherResult, nil
}

func (m *MockGraphClient) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	e := catalog.NewEnricher(rand.New(rand.NewPCG(9, 9)), catalog.CurrentUser)
	st := store.New(e)

	books := make([]catalog.Book, 12)
	for i := range books {
		books[i] = catalog.Book{
			ID:                "b" + strconv.Itoa(i),
			Title:             "Title " + strconv.Itoa(i),
			Category:          []string{"Fiction", "Sci-Fi", "History"}[i%3],
			PricePerDay:       10 + i,
			LenderName:        "Priya Sharma",
			LenderPhoneNumber: "9123456789",
		}
	}
	st.Install(books)
	return st
}

func TestHandleListBooks(t *testing.T) {
	s := &Server{market: newTestStore(t)}
	ctx := context.Background()

	tests := []struct {
		name      string
		args      ListBooksArgs
		wantLen   int
		wantTotal int
		wantErr   bool
	}{
		{"default catalog", ListBooksArgs{}, 12, 12, false},
		{"limited", ListBooksArgs{Limit: 5}, 5, 12, false},
		{"listed", ListBooksArgs{Shelf: "listed"}, 4, 4, false},
		{"rented", ListBooksArgs{Shelf: "Rented"}, 3, 3, false},
		{"invalid shelf", ListBooksArgs{Shelf: "wishlist"}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result, err := s.handleListBooks(ctx, nil, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if len(result.Books) != tt.wantLen || result.Total != tt.wantTotal {
				t.Errorf("Expected %d/%d books, got %d/%d", tt.wantLen, tt.wantTotal, len(result.Books), result.Total)
			}
		})
	}
}

func TestHandleGetBook(t *testing.T) {
	s := &Server{market: newTestStore(t)}
	ctx := context.Background()

	_, result, err := s.handleGetBook(ctx, nil, BookIDArgs{ID: "b5"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Book.Title != "Title 5" {
		t.Errorf("Expected 'Title 5', got '%s'", result.Book.Title)
	}
	if len(result.Reviews) != len(store.SampleReviews) {
		t.Errorf("Expected %d reviews, got %d", len(store.SampleReviews), len(result.Reviews))
	}
	if result.ContactURL == "" {
		t.Error("Expected contact URL for a rented book")
	}

	_, result, _ = s.handleGetBook(ctx, nil, BookIDArgs{ID: "b10"})
	if result.ContactURL != "" {
		t.Error("Expected no contact URL for a book that is not rented")
	}

	if _, _, err := s.handleGetBook(ctx, nil, BookIDArgs{ID: "missing"}); err == nil {
		t.Error("Expected error for unknown book")
	}
}

func TestHandleBrowseCategory(t *testing.T) {
	s := &Server{market: newTestStore(t)}

	_, result, err := s.handleBrowseCategory(context.Background(), nil, CategoryArgs{Category: "sci-fi"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Total != 4 {
		t.Errorf("Expected 4 Sci-Fi books, got %d", result.Total)
	}

	if _, _, err := s.handleBrowseCategory(context.Background(), nil, CategoryArgs{}); err == nil {
		t.Error("Expected error for empty category")
	}
}

func TestHandleNavigate(t *testing.T) {
	s := &Server{market: newTestStore(t)}
	ctx := context.Background()

	tests := []struct {
		name     string
		args     NavigateArgs
		wantPage string
		wantErr  bool
	}{
		{"details", NavigateArgs{View: "bookDetails", Payload: "b1"}, "bookDetails", false},
		{"unresolved details falls back", NavigateArgs{View: "bookDetails", Payload: "zzz"}, "home", false},
		{"category", NavigateArgs{View: "category", Payload: "History"}, "category", false},
		{"empty category falls back", NavigateArgs{View: "category"}, "home", false},
		{"profile", NavigateArgs{View: "profile"}, "profile", false},
		{"unknown view", NavigateArgs{View: "settings"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result, err := s.handleNavigate(ctx, nil, tt.args)
			if tt.wantErr {
				if !errors.Is(err, store.ErrInvalidView) {
					t.Errorf("Expected ErrInvalidView, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if result.Page != tt.wantPage {
				t.Errorf("Expected page %s, got %s", tt.wantPage, result.Page)
			}
		})
	}
}

func TestHandleAddBook(t *testing.T) {
	st := newTestStore(t)
	s := &Server{market: st, logger: nopLogger()}
	ctx := context.Background()

	_, result, err := s.handleAddBook(ctx, nil, AddBookArgs{
		Title:       "Gitanjali",
		Author:      "Rabindranath Tagore",
		Category:    "Poetry",
		ISBN:        "9788171671403",
		PricePerDay: 12,
		Condition:   "Like New",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Book.ID != "9788171671403" {
		t.Errorf("Expected ISBN id, got %s", result.Book.ID)
	}
	if st.Catalog()[0].ID != result.Book.ID || st.MyListedBooks()[0].ID != result.Book.ID {
		t.Error("Expected new book at the front of catalog and listings")
	}

	if _, _, err := s.handleAddBook(ctx, nil, AddBookArgs{Title: "", PricePerDay: 10}); !errors.Is(err, catalog.ErrInvalidDraft) {
		t.Errorf("Expected ErrInvalidDraft, got %v", err)
	}
}

func TestHandleRemoveListing(t *testing.T) {
	st := newTestStore(t)
	s := &Server{market: st}
	ctx := context.Background()

	_, result, err := s.handleRemoveListing(ctx, nil, RemoveListingArgs{ID: "b1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Changed {
		t.Error("Expected unconfirmed removal to change nothing")
	}
	if _, ok := st.Book("b1"); !ok {
		t.Error("Expected b1 to remain in catalog")
	}

	_, result, _ = s.handleRemoveListing(ctx, nil, RemoveListingArgs{ID: "b1", Confirm: true})
	if !result.Changed {
		t.Error("Expected confirmed removal to change state")
	}
	if _, ok := st.Book("b1"); ok {
		t.Error("Expected b1 to leave catalog")
	}

	_, result, _ = s.handleRemoveListing(ctx, nil, RemoveListingArgs{ID: "b1", Confirm: true})
	if result.Changed {
		t.Error("Expected repeated removal to be a no-op")
	}
}

func TestHandleReturnRental(t *testing.T) {
	st := newTestStore(t)
	s := &Server{market: st}
	ctx := context.Background()

	_, result, err := s.handleReturnRental(ctx, nil, BookIDArgs{ID: "b4"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.Changed {
		t.Error("Expected return to change state")
	}
	if result.Message != `Processing return for "Title 4". The lender will be notified.` {
		t.Errorf("Unexpected message: %s", result.Message)
	}
	if _, ok := st.Book("b4"); !ok {
		t.Error("Expected returned book to stay in catalog")
	}

	_, result, _ = s.handleReturnRental(ctx, nil, BookIDArgs{ID: "nope"})
	if result.Changed || result.Message != "Processing return. The lender will be notified." {
		t.Errorf("Unexpected result for unknown id: %+v", result)
	}
}

func TestHandleAddReview(t *testing.T) {
	s := &Server{market: newTestStore(t)}
	ctx := context.Background()

	_, result, err := s.handleAddReview(ctx, nil, AddReviewArgs{BookID: "b2", Rating: 5, Text: "Wonderful"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Review.Author != "Rohan G." {
		t.Errorf("Expected author 'Rohan G.', got '%s'", result.Review.Author)
	}

	if _, _, err := s.handleAddReview(ctx, nil, AddReviewArgs{BookID: "b2", Rating: 9, Text: "x"}); !errors.Is(err, store.ErrInvalidReview) {
		t.Errorf("Expected ErrInvalidReview, got %v", err)
	}
	if _, _, err := s.handleAddReview(ctx, nil, AddReviewArgs{BookID: "missing", Rating: 3, Text: "x"}); err == nil {
		t.Error("Expected error for unknown book")
	}
}

func TestHandleActivitySummary(t *testing.T) {
	ctx := context.Background()
	client, repo, err := journal.Open(ctx, "")
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	defer client.Close()

	e := catalog.NewEnricher(rand.New(rand.NewPCG(2, 2)), catalog.CurrentUser)
	st := store.New(e)
	journal.New(repo, st, nil).Attach(st)
	st.Install([]catalog.Book{{ID: "a", Title: "A", PricePerDay: 20, Category: "Fiction"}})
	_ = st.Navigate(store.ViewMyBooks, "")

	s := &Server{market: st, journalRepo: repo}
	_, result, err := s.handleActivitySummary(ctx, nil, ActivityArgs{Limit: 5})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Summary.ActiveListings != 1 || result.Summary.ListedValuePerDay != 20 {
		t.Errorf("Unexpected summary %+v", result.Summary)
	}
	if len(result.Recent) != 2 {
		t.Fatalf("Expected 2 recent entries, got %d", len(result.Recent))
	}
	if result.Recent[0].OccurredAt == "" {
		t.Error("Expected formatted timestamp")
	}
}

func TestHandleQueryGraph_Success(t *testing.T) {
	mockGraph := &MockGraphClient{
		CypherResult: []map[string]any{
			{"lender": "Priya Sharma", "books": int64(3)},
		},
	}

	s := &Server{neo4jClient: mockGraph}

	_, result, err := s.handleQueryGraph(context.Background(), nil, QueryGraphArgs{Cypher: "MATCH (l:Lender)-[:LENDS]->(b) RETURN l.name AS lender, count(b) AS books"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Data) != 1 {
		t.Errorf("Expected 1 row, got %d", len(result.Data))
	}
}

func TestHandleQueryGraph_Error(t *testing.T) {
	s := &Server{neo4jClient: &MockGraphClient{CypherErr: graph.ErrWriteQuery}}

	_, _, err := s.handleQueryGraph(context.Background(), nil, QueryGraphArgs{Cypher: "MATCH (n) DELETE n"})
	if !errors.Is(err, graph.ErrWriteQuery) {
		t.Errorf("Expected ErrWriteQuery, got %v", err)
	}
}

func TestNewServerRegistersOptionalTools(t *testing.T) {
	st := newTestStore(t)

	s := NewServer(Config{}, st)
	if s.journalRepo != nil || s.neo4jClient != nil {
		t.Error("Expected optional backends to be unset")
	}

	mockGraph := &MockGraphClient{}
	s = NewServer(Config{ServerName: "bookloop-test", ServerVersion: "1.0.0"}, st, WithGraph(mockGraph))
	if s.neo4jClient != mockGraph {
		t.Error("Expected graph client to be wired")
	}
}
