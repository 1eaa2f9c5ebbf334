package ports

import "github.com/gabrielcapilla/songdash/internal/domain"

type ConfigService interface {
	Load() (domain.Config, error)
	// Set overrides a key for the running process only.
	Set(key string, value any)
}
