// Package graph mirrors the marketplace into Neo4j as lenders, books,
// categories and the current user's rentals.
package graph

import (
	"context"
	"fmt"
	"time"

	"bookloop/internal/catalog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphClient defines the interface for graph database operations.
type GraphClient interface {
	Close(ctx context.Context) error
	Reset(ctx context.Context) error
	MirrorCatalog(ctx context.Context, state CatalogState) error
	ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error)
}

// CatalogState is what gets written to the graph on every sync.
type CatalogState struct {
	User   catalog.Identity
	Books  []catalog.Book
	Rented []catalog.Book
}

// Neo4jClient implements GraphClient for Neo4j.
type Neo4jClient struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jClient creates a new Neo4j client and verifies connectivity.
func NewNeo4jClient(uri, username, password, dbName string) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jClient{
		driver: driver,
		dbName: dbName,
	}, nil
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Reset deletes every node this package owns.
func (c *Neo4jClient) Reset(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, clearMarketplace(ctx, tx)
	})
	return err
}

// MirrorCatalog replaces the marketplace subgraph with state in one
// transaction.
func (c *Neo4jClient) MirrorCatalog(ctx context.Context, state CatalogState) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := clearMarketplace(ctx, tx); err != nil {
			return nil, err
		}
		if err := mergeUser(ctx, tx, state.User); err != nil {
			return nil, err
		}
		if err := mergeBooks(ctx, tx, state.Books); err != nil {
			return nil, err
		}
		return nil, linkRentals(ctx, tx, state.User, state.Rented)
	})
	if err != nil {
		return fmt.Errorf("mirror catalog: %w", err)
	}
	return nil
}

func clearMarketplace(ctx context.Context, tx neo4j.ManagedTransaction) error {
	_, err := tx.Run(ctx, `
		MATCH (n) WHERE n:Book OR n:Lender OR n:Category OR n:User
		DETACH DELETE n
	`, nil)
	return err
}

func mergeUser(ctx context.Context, tx neo4j.ManagedTransaction, u catalog.Identity) error {
	_, err := tx.Run(ctx, `
		MERGE (u:User {phone: $phone})
		SET u.name = $name, u.pincode = $pincode
		MERGE (l:Lender {phone: $phone})
		SET l.name = $name
	`, map[string]any{
		"phone":   u.PhoneNumber,
		"name":    u.Name,
		"pincode": u.Pincode,
	})
	return err
}

func mergeBooks(ctx context.Context, tx neo4j.ManagedTransaction, books []catalog.Book) error {
	if len(books) == 0 {
		return nil
	}
	_, err := tx.Run(ctx, `
		UNWIND $books AS row
		MERGE (b:Book {id: row.id})
		SET b.title = row.title,
			b.author = row.author,
			b.isbn = row.isbn,
			b.price_per_day = row.price_per_day,
			b.rating = row.rating,
			b.condition = row.condition,
			b.pincode = row.pincode
		MERGE (l:Lender {phone: row.lender_phone})
		ON CREATE SET l.name = row.lender_name
		MERGE (l)-[:LENDS]->(b)
		MERGE (c:Category {name: row.category})
		MERGE (b)-[:IN_CATEGORY]->(c)
	`, map[string]any{"books": bookRows(books)})
	return err
}

func linkRentals(ctx context.Context, tx neo4j.ManagedTransaction, u catalog.Identity, rented []catalog.Book) error {
	if len(rented) == 0 {
		return nil
	}
	ids := make([]any, len(rented))
	for i, b := range rented {
		ids[i] = b.ID
	}
	_, err := tx.Run(ctx, `
		MATCH (u:User {phone: $phone})
		UNWIND $ids AS id
		MATCH (b:Book {id: id})
		MERGE (u)-[:RENTS]->(b)
	`, map[string]any{"phone": u.PhoneNumber, "ids": ids})
	return err
}

func bookRows(books []catalog.Book) []any {
	rows := make([]any, 0, len(books))
	for _, b := range books {
		category := b.Category
		if category == "" {
			category = "Uncategorized"
		}
		rows = append(rows, map[string]any{
			"id":            b.ID,
			"title":         b.Title,
			"author":        b.Author,
			"isbn":          b.ISBN,
			"price_per_day": int64(b.PricePerDay),
			"rating":        b.Rating,
			"condition":     string(b.Condition),
			"pincode":       b.Pincode,
			"category":      category,
			"lender_name":   b.LenderName,
			"lender_phone":  b.LenderPhoneNumber,
		})
	}
	return rows
}
