package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookloop/internal/catalog"
	"bookloop/internal/store"

	"go.uber.org/zap"
)

// FailureMessage is what the user sees when the load fails.
const FailureMessage = "Could not load book data. Please try again later."

// DefaultTimeout bounds the load when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ErrAlreadyLoaded is returned by every Load call after the first.
var ErrAlreadyLoaded = errors.New("catalog already loaded")

// Failure wraps whatever stopped the load.
type Failure struct {
	Err error
}

func (f *Failure) Error() string {
	return "ingestion failed: " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// UserMessage is the text shown in place of the catalog.
func (f *Failure) UserMessage() string {
	return FailureMessage
}

// Loader runs the single ingestion attempt of a session.
type Loader struct {
	gen      Generator
	enricher *catalog.Enricher
	timeout  time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	attempted bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout bounds the generation call.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader that fetches from gen and enriches with e.
func NewLoader(gen Generator, e *catalog.Enricher, opts ...LoaderOption) *Loader {
	l := &Loader{
		gen:      gen,
		enricher: e,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

type result struct {
	raws []catalog.RawBook
	err  error
}

// Load fetches and enriches the catalog. Only the first call does any work;
// later calls return ErrAlreadyLoaded. Any failure, including the timeout,
// is reported as a *Failure.
func (l *Loader) Load(ctx context.Context) ([]catalog.Book, error) {
	if !l.claim() {
		return nil, ErrAlreadyLoaded
	}
	return l.run(ctx)
}

// claim marks the single attempt as taken. Only the first caller wins.
func (l *Loader) claim() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.attempted {
		return false
	}
	l.attempted = true
	return true
}

func (l *Loader) run(ctx context.Context) ([]catalog.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan result, 1)
	go func() {
		raws, err := l.gen.Generate(ctx)
		done <- result{raws: raws, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = fmt.Errorf("generation timed out after %v: %w", l.timeout, ctx.Err())
	}

	if res.err != nil {
		l.logger.Error("catalog load failed", zap.Error(res.err), zap.Duration("elapsed", time.Since(start)))
		return nil, &Failure{Err: res.err}
	}

	books := l.enricher.EnrichAll(res.raws)
	l.logger.Info("catalog loaded", zap.Int("books", len(books)), zap.Duration("elapsed", time.Since(start)))
	return books, nil
}

// LoadInto runs the single load and installs the outcome into st. A losing
// concurrent caller returns ErrAlreadyLoaded without touching st.
func (l *Loader) LoadInto(ctx context.Context, st *store.Store) error {
	if !l.claim() {
		return ErrAlreadyLoaded
	}
	st.BeginLoad()
	books, err := l.run(ctx)
	if err != nil {
		var failure *Failure
		if errors.As(err, &failure) {
			st.FailLoad(failure.UserMessage())
		}
		return err
	}
	st.Install(books)
	return nil
}
