package ports

import "github.com/gabrielcapilla/songdash/internal/domain"

// TokenStore persists the single session token. An empty token from
// LoadToken means there is no session.
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	ClearToken() error
}

type HistoryStore interface {
	AddSearch(entry domain.SearchEntry) error
	RecentSearches(limit int) ([]domain.SearchEntry, error)
	DeleteSearches(queries []string) error
}

type StorageService interface {
	TokenStore
	HistoryStore
	Close() error
}
