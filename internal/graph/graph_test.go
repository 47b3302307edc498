package graph

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"bookloop/internal/catalog"
	"bookloop/internal/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/goleak"
)

// MockGraphClient records the states it was asked to mirror.
type MockGraphClient struct {
	mu     sync.Mutex
	states []CatalogState
	closed bool
}

func (m *MockGraphClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockGraphClient) Reset(ctx context.Context) error { return nil }

func (m *MockGraphClient) MirrorCatalog(ctx context.Context, state CatalogState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = append(m.states, state)
	return nil
}

func (m *MockGraphClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

func (m *MockGraphClient) last() (CatalogState, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.states) == 0 {
		return CatalogState{}, 0
	}
	return m.states[len(m.states)-1], len(m.states)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestMirrorSyncsStore(t *testing.T) {
	defer goleak.VerifyNone(t)

	st := store.New(catalog.NewEnricher(rand.New(rand.NewPCG(1, 1)), catalog.CurrentUser))
	client := &MockGraphClient{}
	m := NewMirror(client, st, time.Second, nil)
	m.Start(context.Background(), st)

	st.Install([]catalog.Book{
		{ID: "1", Title: "One"}, {ID: "2", Title: "Two"}, {ID: "3", Title: "Three"},
		{ID: "4", Title: "Four"}, {ID: "5", Title: "Five"}, {ID: "6", Title: "Six"},
	})
	waitFor(t, func() bool {
		state, _ := client.last()
		return len(state.Books) == 6
	})

	st.ReturnRental("5")
	waitFor(t, func() bool {
		state, _ := client.last()
		return len(state.Rented) == 1
	})

	state, _ := client.last()
	if state.User.Name != catalog.CurrentUser.Name {
		t.Errorf("Expected current user in state, got %q", state.User.Name)
	}
	if m.Synced() < 2 {
		t.Errorf("Expected at least 2 syncs, got %d", m.Synced())
	}

	if err := m.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !client.closed {
		t.Error("Expected client to be closed")
	}
}

func TestMirrorIgnoresNavigation(t *testing.T) {
	client := &MockGraphClient{}
	m := NewMirror(client, nil, time.Second, nil)

	m.Handle(store.Event{Kind: store.EventViewChanged})
	m.Handle(store.Event{Kind: store.EventReviewAdded})

	select {
	case <-m.signal:
		t.Error("Expected no sync to be scheduled")
	default:
	}

	m.Handle(store.Event{Kind: store.EventBookAdded})
	m.Handle(store.Event{Kind: store.EventListingRemoved})
	if len(m.signal) != 1 {
		t.Errorf("Expected bursts to collapse into one pending sync, got %d", len(m.signal))
	}
}

func TestIsReadOnly(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"MATCH (l:Lender)-[:LENDS]->(b:Book) RETURN l.name, count(b)", true},
		{"MATCH (n) RETURN n.settings LIMIT 5", true},
		{"MATCH (n) DETACH DELETE n", false},
		{"merge (c:Category {name: 'X'})", false},
		{"MATCH (b:Book) SET b.title = 'x'", false},
		{"LOAD CSV FROM 'file:///x' AS row RETURN row", false},
	}
	for _, tt := range tests {
		if got := IsReadOnly(tt.query); got != tt.want {
			t.Errorf("IsReadOnly(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestConvertNeo4jValue(t *testing.T) {
	node := neo4j.Node{ElementId: "4:abc:1", Labels: []string{"Book"}, Props: map[string]any{"title": "Dune"}}

	got := convertNeo4jValue([]any{node, map[string]any{"n": int64(3)}})

	list, ok := got.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("Expected 2-element list, got %#v", got)
	}
	nodeMap, ok := list[0].(map[string]any)
	if !ok || nodeMap["id"] != "4:abc:1" {
		t.Errorf("Expected node converted to map, got %#v", list[0])
	}
	inner, ok := list[1].(map[string]any)
	if !ok || inner["n"] != int64(3) {
		t.Errorf("Expected nested map preserved, got %#v", list[1])
	}
}

func TestBookRows(t *testing.T) {
	rows := bookRows([]catalog.Book{{ID: "1", Title: "T", PricePerDay: 12, LenderPhoneNumber: "9"}})
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	row := rows[0].(map[string]any)
	if row["category"] != "Uncategorized" {
		t.Errorf("Expected empty category to be labelled, got %v", row["category"])
	}
	if row["price_per_day"] != int64(12) {
		t.Errorf("Expected int64 price, got %#v", row["price_per_day"])
	}
}
