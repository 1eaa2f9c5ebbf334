package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/logger"
	"github.com/gabrielcapilla/songdash/internal/ports"
)

// Orchestrator validates raw queries, runs them against the catalog with the
// current session token and writes the outcome to the Store.
//
// Every dispatched search gets a sequence number. A completion is applied
// only while its number is still the latest dispatched one, so a slow
// response can never overwrite the results of a search issued after it.
type Orchestrator struct {
	catalog ports.CatalogClient
	session ports.TokenSource
	store   *Store
	history ports.HistoryStore

	mu     sync.Mutex
	latest uint64

	// pubMu orders notifications so the last one always carries the
	// latest state.
	pubMu    sync.Mutex
	inflight sync.WaitGroup
}

type OrchestratorOption func(*Orchestrator)

// WithHistory records every successful query in h.
func WithHistory(h ports.HistoryStore) OrchestratorOption {
	return func(o *Orchestrator) { o.history = h }
}

func NewOrchestrator(catalog ports.CatalogClient, session ports.TokenSource, store *Store, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		catalog: catalog,
		session: session,
		store:   store,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Store() *Store { return o.store }

// Search validates raw and, if it is a valid query, starts the request in
// the background and returns nil. The outcome is observed through the
// Store. Validation errors are returned directly and leave the Store as it
// was.
func (o *Orchestrator) Search(ctx context.Context, raw string) error {
	q, err := ParseQuery(raw)
	if err != nil {
		logger.Log.Debug().Err(err).Str("input", raw).Msg("Search rejected")
		return err
	}

	o.mu.Lock()
	o.latest++
	seq := o.latest
	o.mu.Unlock()

	token := o.session.Token()
	logger.Log.Info().Uint64("seq", seq).Str("song", q.SongName).Str("artist", q.ArtistName).Msg("Dispatching search")

	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		songs, err := o.catalog.SearchSongs(ctx, q, token)
		o.complete(seq, raw, q, songs, err)
	}()
	return nil
}

// Wait blocks until every dispatched search has completed.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

func (o *Orchestrator) complete(seq uint64, raw string, q domain.SearchQuery, songs []domain.SongResult, err error) {
	o.mu.Lock()
	if seq != o.latest {
		latest := o.latest
		o.mu.Unlock()
		logger.Log.Debug().Uint64("seq", seq).Uint64("latest", latest).Msg("Discarding superseded search response")
		return
	}

	o.store.mu.Lock()
	if err != nil {
		o.store.failLocked(domain.CategorySongs, &domain.SearchFailedError{Query: q, Err: toAPIError(err)})
	} else {
		o.store.replaceLocked(domain.CategorySongs, songs)
	}
	o.store.mu.Unlock()
	o.mu.Unlock()

	if err != nil {
		logger.Log.Warn().Uint64("seq", seq).Err(err).Msg("Search failed")
	} else {
		logger.Log.Info().Uint64("seq", seq).Int("count", len(songs)).Msg("Search results applied")
		o.remember(raw, len(songs))
	}

	o.pubMu.Lock()
	o.store.publish(o.store.Snapshot(domain.CategorySongs))
	o.pubMu.Unlock()
}

func (o *Orchestrator) remember(raw string, count int) {
	if o.history == nil {
		return
	}
	entry := domain.SearchEntry{Query: raw, Results: count, SearchedAt: time.Now()}
	if err := o.history.AddSearch(entry); err != nil {
		logger.Log.Warn().Err(err).Msg("Could not record search in history")
	}
}

// toAPIError keeps the failure a single tagged type even when a catalog
// implementation returns something else.
func toAPIError(err error) *domain.APIError {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &domain.APIError{Network: true, Err: err}
}
