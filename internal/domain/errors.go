package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSession      = errors.New("invalid session: token must not be empty")
	ErrEmptyQuery          = errors.New("empty query")
	ErrMalformedQuery      = errors.New("malformed query: expected \"<song> by <artist>\"")
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrMissingCredentials  = errors.New("username and password are required")
)

// APIError is the single failure type of the API client. Network is set for
// transport failures and timeouts, in which case Status is zero.
type APIError struct {
	Status  int
	Network bool
	Body    string
	Err     error
}

func (e *APIError) Error() string {
	if e.Network {
		if e.Err != nil {
			return fmt.Sprintf("api error (network): %v", e.Err)
		}
		return "api error (network)"
	}
	if e.Body != "" {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusLabel returns "network" for transport failures, the HTTP code otherwise.
func (e *APIError) StatusLabel() string {
	if e.Network {
		return "network"
	}
	return fmt.Sprintf("%d", e.Status)
}

type SearchFailedError struct {
	Query SearchQuery
	Err   *APIError
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("search for %q failed: %v", e.Query.String(), e.Err)
}

func (e *SearchFailedError) Unwrap() error { return e.Err }

// RegistrationError carries the message the backend sent with a rejected
// registration.
type RegistrationError struct {
	Message string
	Err     error
}

func (e *RegistrationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "registration failed, please try again"
}

func (e *RegistrationError) Unwrap() error { return e.Err }

type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: field %q", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }
