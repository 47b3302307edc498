// Package app wires the store to its backends: the generator that fills
// it, the activity journal and the optional lender graph.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"bookloop/internal/catalog"
	"bookloop/internal/config"
	"bookloop/internal/graph"
	"bookloop/internal/ingest"
	"bookloop/internal/journal"
	"bookloop/internal/store"

	"go.uber.org/zap"
)

const closeTimeout = 10 * time.Second

// Runtime owns the store of a session and everything subscribed to it.
type Runtime struct {
	Store   *store.Store
	Journal *journal.Journal
	Mirror  *graph.Mirror
	Graph   graph.GraphClient

	loader    *ingest.Loader
	generator ingest.Generator
	duck      *journal.DuckDBClient
	logger    *zap.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures a Runtime before its backends are opened.
type Option func(*options)

type options struct {
	storeOpts []store.Option
	generator ingest.Generator
	graph     graph.GraphClient
}

// WithStoreOptions passes extra options to the store, typically a notifier.
func WithStoreOptions(opts ...store.Option) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// WithGenerator replaces the generator picked from the config.
func WithGenerator(gen ingest.Generator) Option {
	return func(o *options) {
		o.generator = gen
	}
}

// WithGraphClient supplies the graph client instead of dialing Neo4j.
func WithGraphClient(client graph.GraphClient) Option {
	return func(o *options) {
		o.graph = client
	}
}

// New opens the journal, connects the graph when configured and prepares
// the one-shot loader. Nothing is fetched until Load.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	enricher := catalog.NewEnricher(newRand(cfg.RandomSeed), catalog.CurrentUser)
	storeOpts := append([]store.Option{store.WithLogger(logger.Named("store"))}, o.storeOpts...)
	st := store.New(enricher, storeOpts...)

	rt := &Runtime{
		Store:     st,
		generator: o.generator,
		logger:    logger,
	}
	if rt.generator == nil {
		rt.generator = NewGenerator(cfg)
	}

	duck, repo, err := journal.Open(ctx, cfg.DuckDBPath, JournalOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	rt.duck = duck
	rt.Journal = journal.New(repo, st, logger.Named("journal"))
	rt.Journal.Attach(st)

	client := o.graph
	if client == nil && cfg.GraphEnabled() {
		neo, err := graph.NewNeo4jClient(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase)
		if err != nil {
			// The graph is optional; the session carries on without it.
			logger.Warn("graph disabled", zap.Error(err))
		} else {
			client = neo
		}
	}
	if client != nil {
		rt.Graph = client
		rt.Mirror = graph.NewMirror(client, st, cfg.GraphTimeout, logger.Named("graph"))
		rt.Mirror.Start(ctx, st)
	}

	rt.loader = ingest.NewLoader(rt.generator, enricher,
		ingest.WithTimeout(cfg.IngestTimeout),
		ingest.WithLogger(logger.Named("ingest")),
	)
	return rt, nil
}

// NewGenerator picks the fixture batch when offline and Gemini otherwise.
func NewGenerator(cfg config.Config) ingest.Generator {
	if cfg.Offline {
		return ingest.NewFixtureGenerator()
	}
	return ingest.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)
}

// Load runs the session's single ingestion into the store.
func (r *Runtime) Load(ctx context.Context) error {
	return r.loader.LoadInto(ctx, r.Store)
}

// JournalRepo returns the journal queries.
func (r *Runtime) JournalRepo() *journal.Repo {
	return r.Journal.Repo()
}

// Close stops the mirror, clears the graph and releases every backend.
// It is safe to call more than once.
func (r *Runtime) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	var errs []error
	if r.Mirror != nil {
		r.Mirror.Stop()
		// Session data is ephemeral; leave nothing behind in the graph.
		if err := r.Graph.Reset(ctx); err != nil {
			r.logger.Warn("graph reset failed", zap.Error(err))
		}
		errs = append(errs, r.Mirror.Close(ctx))
	}
	if closer, ok := r.generator.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	if r.duck != nil {
		errs = append(errs, r.duck.Close())
	}
	return errors.Join(errs...)
}

// JournalOptions maps the DuckDB tuning settings onto client options.
func JournalOptions(cfg config.Config) []journal.DuckDBOption {
	return []journal.DuckDBOption{
		journal.WithThreads(cfg.DuckDBThreads),
		journal.WithMemoryLimit(cfg.DuckDBMemoryLimitMB),
		journal.WithTimeout(cfg.DuckDBTimeout),
	}
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
