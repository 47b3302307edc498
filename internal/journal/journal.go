package journal

import (
	"context"
	"fmt"
	"time"

	"bookloop/internal/store"

	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// Journal mirrors store events into the repo.
type Journal struct {
	repo   *Repo
	reader store.Reader
	logger *zap.Logger
}

// Open connects to dsn, migrates the schema and returns the client and repo.
func Open(ctx context.Context, dsn string, opts ...DuckDBOption) (*DuckDBClient, *Repo, error) {
	client, err := NewDuckDBClient(dsn, opts...)
	if err != nil {
		return nil, nil, err
	}
	repo := NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to migrate journal schema: %w", err)
	}
	return client, repo, nil
}

// New creates a journal that reads listing details from reader.
func New(repo *Repo, reader store.Reader, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{repo: repo, reader: reader, logger: logger}
}

// Attach subscribes the journal to st.
func (j *Journal) Attach(st *store.Store) {
	st.Subscribe(j.Handle)
}

// Repo exposes the underlying queries.
func (j *Journal) Repo() *Repo {
	return j.repo
}

// Handle records ev and keeps the listings table in step with the store.
// Failures are logged; the journal never blocks a mutation.
func (j *Journal) Handle(ev store.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := j.repo.Record(ctx, ev); err != nil {
		j.logger.Warn("journal write failed", zap.Error(err))
		return
	}

	var err error
	switch ev.Kind {
	case store.EventCatalogInstalled:
		err = j.repo.ReplaceListings(ctx, j.reader.MyListedBooks(), ev.At)
	case store.EventBookAdded:
		if b, ok := j.reader.Book(ev.BookID); ok {
			err = j.repo.UpsertListing(ctx, b, ev.At)
		}
	case store.EventListingRemoved:
		err = j.repo.DeleteListing(ctx, ev.BookID)
	}
	if err != nil {
		j.logger.Warn("journal listing sync failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
	}
}
