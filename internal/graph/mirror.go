package graph

import (
	"context"
	"sync"
	"time"

	"bookloop/internal/store"

	"go.uber.org/zap"
)

// Mirror keeps the graph in step with a store. Syncs run on a background
// goroutine; bursts of events collapse into one sync.
type Mirror struct {
	client  GraphClient
	reader  store.Reader
	timeout time.Duration
	logger  *zap.Logger

	signal chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	synced int
}

// NewMirror creates a mirror writing reader's state to client.
func NewMirror(client GraphClient, reader store.Reader, timeout time.Duration, logger *zap.Logger) *Mirror {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		client:  client,
		reader:  reader,
		timeout: timeout,
		logger:  logger,
		signal:  make(chan struct{}, 1),
	}
}

// Start launches the sync loop and subscribes to st.
func (m *Mirror) Start(ctx context.Context, st *store.Store) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go m.run(ctx)
	st.Subscribe(m.Handle)
}

// Handle schedules a sync for events that change the catalog or rentals.
func (m *Mirror) Handle(ev store.Event) {
	switch ev.Kind {
	case store.EventCatalogInstalled, store.EventBookAdded, store.EventListingRemoved, store.EventRentalReturned:
	default:
		return
	}
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// Synced returns how many syncs completed successfully.
func (m *Mirror) Synced() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.synced
}

// Stop ends the loop and waits for an in-flight sync.
func (m *Mirror) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Close stops the loop and closes the client.
func (m *Mirror) Close(ctx context.Context) error {
	m.Stop()
	return m.client.Close(ctx)
}

func (m *Mirror) run(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.signal:
			m.sync(ctx)
		}
	}
}

func (m *Mirror) sync(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	snap := m.reader.Snapshot()
	state := CatalogState{
		User:   m.reader.User(),
		Books:  snap.Catalog,
		Rented: snap.Rented,
	}

	start := time.Now()
	if err := m.client.MirrorCatalog(ctx, state); err != nil {
		m.logger.Warn("graph sync failed", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.synced++
	m.mu.Unlock()
	m.logger.Debug("graph synced", zap.Int("books", len(state.Books)), zap.Duration("elapsed", time.Since(start)))
}
