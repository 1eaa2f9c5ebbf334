package ports

import (
	"context"

	"github.com/gabrielcapilla/songdash/internal/domain"
)

type CatalogClient interface {
	SearchSongs(ctx context.Context, q domain.SearchQuery, token string) ([]domain.SongResult, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, r domain.Registration) error
}

type URLOpener interface {
	Open(url string) error
}
