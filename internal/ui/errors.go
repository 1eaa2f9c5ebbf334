package ui

import (
	"errors"

	"github.com/gabrielcapilla/songdash/internal/domain"
)

// describeError turns an error into the line shown to the user.
func describeError(err error) string {
	var (
		searchErr *domain.SearchFailedError
		regErr    *domain.RegistrationError
		apiErr    *domain.APIError
		fieldErr  *domain.FieldError
	)
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		return "Username and password are required."
	case errors.Is(err, domain.ErrInvalidSession):
		return "Login failed!"
	case errors.As(err, &fieldErr):
		return "Please check the " + fieldErr.Field + " field."
	case errors.Is(err, domain.ErrEmptyQuery):
		return "Type a song to search for."
	case errors.Is(err, domain.ErrMalformedQuery):
		return "Use the form '<song> by <artist>'."
	case errors.As(err, &searchErr):
		if searchErr.Err != nil && searchErr.Err.Network {
			return "Search failed: the server could not be reached."
		}
		if searchErr.Err != nil && searchErr.Err.Status == 401 {
			return "Search failed: your session is no longer valid, log in again."
		}
		return "Search failed, no results."
	case errors.As(err, &regErr):
		return regErr.Error()
	case errors.As(err, &apiErr):
		if apiErr.Network {
			return "The server could not be reached."
		}
		if apiErr.Status == 401 || apiErr.Status == 403 {
			return "Login failed!"
		}
		return "Request failed (" + apiErr.StatusLabel() + ")."
	default:
		return "Error: " + err.Error()
	}
}
