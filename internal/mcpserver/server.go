// Package mcpserver exposes the marketplace store as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"bookloop/internal/catalog"
	"bookloop/internal/graph"
	"bookloop/internal/journal"
	"bookloop/internal/render"
	"bookloop/internal/store"
)

// Marketplace is the store surface the tools operate on.
type Marketplace interface {
	store.Reader
	store.Navigator
	store.Mutator
}

// Server wraps the MCP server with BookLoop capabilities.
type Server struct {
	mcpServer   *mcp.Server
	market      Marketplace
	journalRepo *journal.Repo
	neo4jClient graph.GraphClient
	logger      *zap.Logger
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
}

// Option configures optional backends.
type Option func(*Server)

// WithJournal enables the activity_summary tool.
func WithJournal(repo *journal.Repo) Option {
	return func(s *Server) {
		s.journalRepo = repo
	}
}

// WithGraph enables the query_graph tool.
func WithGraph(client graph.GraphClient) Option {
	return func(s *Server) {
		s.neo4jClient = client
	}
}

// WithLogger sets the server's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server over market.
func NewServer(cfg Config, market Marketplace, opts ...Option) *Server {
	if cfg.ServerName == "" {
		cfg.ServerName = "bookloop"
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.ServerName,
			Version: cfg.ServerVersion,
		}, nil),
		market: market,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.registerTools()
	return s
}

// =============================================================================
// TOOL ARGUMENTS AND RESULTS
// =============================================================================

// ListBooksArgs defines the input for list_books tool.
type ListBooksArgs struct {
	Shelf string `json:"shelf,omitempty" jsonschema:"which shelf to list: catalog (default), listed or rented"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of books to return"`
}

// BooksResult wraps a list of books.
type BooksResult struct {
	Books []catalog.Book `json:"books" jsonschema:"matching books"`
	Total int            `json:"total" jsonschema:"number of books before the limit was applied"`
}

// BookIDArgs identifies a single book.
type BookIDArgs struct {
	ID string `json:"id" jsonschema:"book id"`
}

// BookDetailsResult is a book with its reviews.
type BookDetailsResult struct {
	Book       catalog.Book   `json:"book" jsonschema:"the book"`
	Reviews    []store.Review `json:"reviews" jsonschema:"reader reviews, newest first"`
	ContactURL string         `json:"contact_url,omitempty" jsonschema:"messaging link to the lender, present for rented books"`
}

// CategoryArgs defines the input for browse_category tool.
type CategoryArgs struct {
	Category string `json:"category" jsonschema:"category name, matched case-insensitively as a substring"`
}

// NavigateArgs defines the input for navigate tool.
type NavigateArgs struct {
	View    string `json:"view" jsonschema:"one of home, bookDetails, category, myBooks, myRentals, listBook, profile"`
	Payload string `json:"payload,omitempty" jsonschema:"book id for bookDetails, category name for category"`
}

// NavigateResult reports the page the store now shows.
type NavigateResult struct {
	View string `json:"view" jsonschema:"current view"`
	Page string `json:"page" jsonschema:"page that will be rendered, after fallbacks"`
}

// AddBookArgs defines the input for add_book tool.
type AddBookArgs struct {
	Title       string `json:"title" jsonschema:"book title"`
	Author      string `json:"author,omitempty" jsonschema:"book author"`
	Synopsis    string `json:"synopsis,omitempty" jsonschema:"short description"`
	Category    string `json:"category,omitempty" jsonschema:"category such as Fiction or History"`
	ISBN        string `json:"isbn,omitempty" jsonschema:"ISBN-13; becomes the book id when present"`
	PricePerDay int    `json:"price_per_day" jsonschema:"rental price per day in rupees"`
	Condition   string `json:"condition,omitempty" jsonschema:"New, Like New, Good or Acceptable"`
	CoverURL    string `json:"cover_url,omitempty" jsonschema:"cover image URL"`
}

// BookResult wraps a single book.
type BookResult struct {
	Book catalog.Book `json:"book" jsonschema:"the book"`
}

// RemoveListingArgs defines the input for remove_listing tool.
type RemoveListingArgs struct {
	ID      string `json:"id" jsonschema:"id of the listing to withdraw"`
	Confirm bool   `json:"confirm" jsonschema:"must be true; answers the delete confirmation"`
}

// MutationResult reports the outcome of a remove or return.
type MutationResult struct {
	Changed bool   `json:"changed" jsonschema:"whether any state changed"`
	Message string `json:"message" jsonschema:"user-facing outcome"`
}

// AddReviewArgs defines the input for add_review tool.
type AddReviewArgs struct {
	BookID string `json:"book_id" jsonschema:"book being reviewed"`
	Rating int    `json:"rating" jsonschema:"star rating from 1 to 5"`
	Text   string `json:"text" jsonschema:"review text"`
}

// ReviewResult wraps a stored review.
type ReviewResult struct {
	Review store.Review `json:"review" jsonschema:"the stored review"`
}

// ActivityArgs defines the input for activity_summary tool.
type ActivityArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of recent events to include"`
}

// ActivityEntry is a journal entry with its timestamp rendered as text.
type ActivityEntry struct {
	Kind       string `json:"kind" jsonschema:"event kind"`
	BookID     string `json:"book_id,omitempty" jsonschema:"book involved, if any"`
	Title      string `json:"title,omitempty" jsonschema:"title of that book"`
	View       string `json:"view,omitempty" jsonschema:"view navigated to"`
	Detail     string `json:"detail,omitempty" jsonschema:"extra detail"`
	OccurredAt string `json:"occurred_at" jsonschema:"RFC 3339 timestamp"`
}

// ActivityResult wraps the journal summary.
type ActivityResult struct {
	Summary journal.Summary `json:"summary" jsonschema:"aggregated activity"`
	Recent  []ActivityEntry `json:"recent" jsonschema:"most recent events"`
}

// QueryGraphArgs defines the input for query_graph tool.
type QueryGraphArgs struct {
	Cypher string `json:"cypher" jsonschema:"read-only Cypher query to execute"`
}

// QueryGraphResult wraps graph query results.
type QueryGraphResult struct {
	Data []map[string]any `json:"data" jsonschema:"query results"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_books",
		Description: "List books in the marketplace catalog, or the user's own listings or rentals.",
	}, s.handleListBooks)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_book",
		Description: "Get a book with its reviews. Rented books also carry a link for contacting the lender.",
	}, s.handleGetBook)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "browse_category",
		Description: "List catalog books whose category contains the given name, ignoring case.",
	}, s.handleBrowseCategory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "navigate",
		Description: "Switch the page the terminal UI shows and report the page that will actually be rendered.",
	}, s.handleNavigate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_book",
		Description: "List a new book for rent on behalf of the current user. It is placed first in the catalog and in the user's listings.",
	}, s.handleAddBook)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_listing",
		Description: "Withdraw one of the user's listings. Requires confirm=true, answering: " + store.DeleteListingPrompt,
	}, s.handleRemoveListing)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "return_rental",
		Description: "Return a book the user has rented. The book stays in the catalog.",
	}, s.handleReturnRental)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_review",
		Description: "Add a 1 to 5 star review to a book.",
	}, s.handleAddReview)

	if s.journalRepo != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "activity_summary",
			Description: "Summarize session activity from the DuckDB journal: event counts, active listings, listed value per day and recent events.",
		}, s.handleActivitySummary)
	}

	if s.neo4jClient != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "query_graph",
			Description: "Execute read-only Cypher on the lender graph. Nodes: User, Lender, Book, Category. Relationships: (Lender)-[:LENDS]->(Book), (Book)-[:IN_CATEGORY]->(Category), (User)-[:RENTS]->(Book).",
		}, s.handleQueryGraph)
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleListBooks(ctx context.Context, _ *mcp.CallToolRequest, args ListBooksArgs) (*mcp.CallToolResult, BooksResult, error) {
	var books []catalog.Book
	switch strings.ToLower(args.Shelf) {
	case "", "catalog":
		books = s.market.Catalog()
	case "listed":
		books = s.market.MyListedBooks()
	case "rented":
		books = s.market.MyRentedBooks()
	default:
		return nil, BooksResult{}, fmt.Errorf("invalid shelf: %s (must be 'catalog', 'listed' or 'rented')", args.Shelf)
	}
	return nil, limitBooks(books, args.Limit), nil
}

func (s *Server) handleGetBook(ctx context.Context, _ *mcp.CallToolRequest, args BookIDArgs) (*mcp.CallToolResult, BookDetailsResult, error) {
	b, ok := s.market.Book(args.ID)
	if !ok {
		return nil, BookDetailsResult{}, fmt.Errorf("book %q not found", args.ID)
	}

	result := BookDetailsResult{Book: b, Reviews: s.market.Reviews(b.ID)}
	if _, rented := catalog.Find(s.market.MyRentedBooks(), b.ID); rented {
		result.ContactURL = catalog.ContactURL(b)
	}
	return nil, result, nil
}

func (s *Server) handleBrowseCategory(ctx context.Context, _ *mcp.CallToolRequest, args CategoryArgs) (*mcp.CallToolResult, BooksResult, error) {
	if strings.TrimSpace(args.Category) == "" {
		return nil, BooksResult{}, errors.New("category is required")
	}
	return nil, limitBooks(catalog.Filter(s.market.Catalog(), args.Category), 0), nil
}

func (s *Server) handleNavigate(ctx context.Context, _ *mcp.CallToolRequest, args NavigateArgs) (*mcp.CallToolResult, NavigateResult, error) {
	view, err := store.ParseView(args.View)
	if err != nil {
		return nil, NavigateResult{}, err
	}
	if err := s.market.Navigate(view, args.Payload); err != nil {
		return nil, NavigateResult{}, err
	}

	page := render.Select(s.market.Snapshot())
	return nil, NavigateResult{View: string(view), Page: page.Kind.String()}, nil
}

func (s *Server) handleAddBook(ctx context.Context, _ *mcp.CallToolRequest, args AddBookArgs) (*mcp.CallToolResult, BookResult, error) {
	draft := catalog.Draft{
		Title:       strings.TrimSpace(args.Title),
		Author:      strings.TrimSpace(args.Author),
		Synopsis:    args.Synopsis,
		Category:    strings.TrimSpace(args.Category),
		ISBN:        strings.TrimSpace(args.ISBN),
		PricePerDay: args.PricePerDay,
		Condition:   catalog.Condition(args.Condition),
		CoverURL:    args.CoverURL,
	}
	if err := draft.Validate(); err != nil {
		return nil, BookResult{}, err
	}

	b := s.market.AddBook(draft)
	s.logger.Info("book listed via mcp", zap.String("id", b.ID))
	return nil, BookResult{Book: b}, nil
}

func (s *Server) handleRemoveListing(ctx context.Context, _ *mcp.CallToolRequest, args RemoveListingArgs) (*mcp.CallToolResult, MutationResult, error) {
	if !args.Confirm {
		return nil, MutationResult{Message: "Listing kept. Set confirm to true to delete it."}, nil
	}
	if s.market.RemoveListedBook(args.ID, store.Answer(true)) {
		return nil, MutationResult{Changed: true, Message: "Listing deleted."}, nil
	}
	return nil, MutationResult{Message: "No listing with that id."}, nil
}

func (s *Server) handleReturnRental(ctx context.Context, _ *mcp.CallToolRequest, args BookIDArgs) (*mcp.CallToolResult, MutationResult, error) {
	title := ""
	if b, ok := s.market.Book(args.ID); ok {
		title = b.Title
	} else if b, ok := catalog.Find(s.market.MyRentedBooks(), args.ID); ok {
		title = b.Title
	}

	changed := s.market.ReturnRental(args.ID)
	return nil, MutationResult{Changed: changed, Message: store.ReturnNotice(title)}, nil
}

func (s *Server) handleAddReview(ctx context.Context, _ *mcp.CallToolRequest, args AddReviewArgs) (*mcp.CallToolResult, ReviewResult, error) {
	if _, ok := s.market.Book(args.BookID); !ok {
		return nil, ReviewResult{}, fmt.Errorf("book %q not found", args.BookID)
	}
	r, err := s.market.AddReview(args.BookID, args.Rating, args.Text)
	if err != nil {
		return nil, ReviewResult{}, fmt.Errorf("rating must be 1-5 and text non-empty: %w", err)
	}
	return nil, ReviewResult{Review: r}, nil
}

func (s *Server) handleActivitySummary(ctx context.Context, _ *mcp.CallToolRequest, args ActivityArgs) (*mcp.CallToolResult, ActivityResult, error) {
	summary, err := s.journalRepo.Summary(ctx)
	if err != nil {
		return nil, ActivityResult{}, fmt.Errorf("failed to summarize journal: %w", err)
	}
	recent, err := s.journalRepo.Recent(ctx, args.Limit)
	if err != nil {
		return nil, ActivityResult{}, fmt.Errorf("failed to read journal: %w", err)
	}
	result := ActivityResult{Summary: summary, Recent: make([]ActivityEntry, 0, len(recent))}
	for _, e := range recent {
		result.Recent = append(result.Recent, ActivityEntry{
			Kind:       e.Kind,
			BookID:     e.BookID,
			Title:      e.Title,
			View:       e.View,
			Detail:     e.Detail,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		})
	}
	return nil, result, nil
}

// handleQueryGraph executes Cypher queries.
func (s *Server) handleQueryGraph(ctx context.Context, _ *mcp.CallToolRequest, args QueryGraphArgs) (*mcp.CallToolResult, QueryGraphResult, error) {
	result, err := s.neo4jClient.ExecuteCypher(ctx, args.Cypher)
	if err != nil {
		return nil, QueryGraphResult{}, fmt.Errorf("cypher query failed: %w", err)
	}
	if result == nil {
		result = []map[string]any{}
	}
	return nil, QueryGraphResult{Data: result}, nil
}

func limitBooks(books []catalog.Book, limit int) BooksResult {
	total := len(books)
	if limit > 0 && limit < total {
		books = books[:limit]
	}
	if books == nil {
		books = []catalog.Book{}
	}
	return BooksResult{Books: books, Total: total}
}

// Start serves the tools over stdio until ctx is done or the client leaves.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting mcp server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
