package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/logger"
	"github.com/gabrielcapilla/songdash/internal/ports"
	"github.com/gabrielcapilla/songdash/internal/services/api"

	"github.com/buger/jsonparser"
)

const (
	loginPath    = "/login"
	registerPath = "/register"
)

// Service runs the credential exchanges with the backend. It never touches
// the session; callers hand the returned token to the session manager.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) ports.AuthService {
	return &Service{client: client}
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrMissingCredentials
	}

	body, err := s.client.Post(ctx, loginPath, domain.Credentials{Username: username, Password: password}, "", api.WithBasicAuth(username, password))
	if err != nil {
		logger.Log.Warn().Err(err).Str("username", username).Msg("Login failed")
		return "", err
	}

	token, err := jsonparser.GetString(body, "token")
	if err != nil || token == "" {
		if err == nil {
			err = errors.New("empty token")
		}
		return "", &domain.APIError{Status: http.StatusOK, Body: string(body), Err: fmt.Errorf("login response has no token: %w", err)}
	}

	logger.Log.Info().Str("username", username).Msg("Login exchange succeeded")
	return token, nil
}

func (s *Service) Register(ctx context.Context, r domain.Registration) error {
	if err := r.Validate(); err != nil {
		return err
	}

	if _, err := s.client.Post(ctx, registerPath, r, ""); err != nil {
		logger.Log.Warn().Err(err).Str("username", r.Username).Msg("Registration failed")
		regErr := &domain.RegistrationError{Err: err}
		if apiErr, ok := api.AsAPIError(err); ok && apiErr.Body != "" {
			if msg, msgErr := jsonparser.GetString([]byte(apiErr.Body), "message"); msgErr == nil {
				regErr.Message = msg
			}
		}
		return regErr
	}

	logger.Log.Info().Str("username", r.Username).Msg("Registration succeeded")
	return nil
}
