package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/ports"
)

// MemoryStore keeps the session and search history for the life of the
// process only.
type MemoryStore struct {
	mu       sync.Mutex
	token    *string
	searches map[string]domain.SearchEntry
}

func NewMemoryStore() ports.StorageService {
	return &MemoryStore{searches: make(map[string]domain.SearchEntry)}
}

func (s *MemoryStore) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &token
	return nil
}

func (s *MemoryStore) LoadToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return "", nil
	}
	return *s.token, nil
}

func (s *MemoryStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}

func (s *MemoryStore) AddSearch(entry domain.SearchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.SearchedAt.IsZero() {
		entry.SearchedAt = time.Now()
	}
	s.searches[normalizeQuery(entry.Query)] = entry
	return nil
}

func (s *MemoryStore) RecentSearches(limit int) ([]domain.SearchEntry, error) {
	if limit <= 0 {
		return []domain.SearchEntry{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.SearchEntry, 0, len(s.searches))
	for _, e := range s.searches {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SearchedAt.After(entries[j].SearchedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *MemoryStore) DeleteSearches(queries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range queries {
		delete(s.searches, normalizeQuery(q))
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
