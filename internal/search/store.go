package search

import (
	"sync"

	"github.com/gabrielcapilla/songdash/internal/domain"
)

// Snapshot is a copy of one category of the store.
type Snapshot struct {
	Category domain.Category
	Songs    []domain.SongResult
	Err      error
}

type Listener func(Snapshot)

// Store maps a category to its ordered results. Consumers read it and
// subscribe to it; only the Orchestrator in this package writes to it.
type Store struct {
	mu        sync.RWMutex
	songs     map[domain.Category][]domain.SongResult
	errs      map[domain.Category]error
	listeners []Listener
}

func NewStore() *Store {
	return &Store{
		songs: make(map[domain.Category][]domain.SongResult),
		errs:  make(map[domain.Category]error),
	}
}

// Get returns a copy of the category's results. ok is false when the
// category has never been written.
func (s *Store) Get(c domain.Category) (songs []domain.SongResult, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.songs[c]
	if !ok {
		return nil, false
	}
	return append([]domain.SongResult{}, list...), true
}

// Err returns the failure recorded by the last search of the category.
func (s *Store) Err(c domain.Category) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errs[c]
}

func (s *Store) Snapshot(c domain.Category) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(c)
}

func (s *Store) snapshotLocked(c domain.Category) Snapshot {
	return Snapshot{
		Category: c,
		Songs:    append([]domain.SongResult{}, s.songs[c]...),
		Err:      s.errs[c],
	}
}

// Subscribe registers fn for every change. The returned func removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

// replaceLocked and failLocked are the only transitions. Callers hold mu
// and call publish after releasing it.
func (s *Store) replaceLocked(c domain.Category, songs []domain.SongResult) {
	s.songs[c] = append([]domain.SongResult{}, songs...)
	delete(s.errs, c)
}

func (s *Store) failLocked(c domain.Category, err error) {
	s.songs[c] = []domain.SongResult{}
	s.errs[c] = err
}

func (s *Store) publish(snap Snapshot) {
	s.mu.RLock()
	listeners := append([]Listener{}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		if fn != nil {
			fn(snap)
		}
	}
}
