package session

import (
	"fmt"
	"sync"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/logger"
	"github.com/gabrielcapilla/songdash/internal/ports"
)

// Manager owns the session token. It is the only writer of the token, both
// in memory and in the TokenStore, and keeps the two equal after every
// operation returns.
type Manager struct {
	store ports.TokenStore

	mu          sync.RWMutex
	token       string
	initialized bool
	listeners   []func(authenticated bool)
}

func NewManager(store ports.TokenStore) *Manager {
	return &Manager{store: store}
}

// Initialize hydrates the session from storage. Only the first call has an
// effect. A store that cannot be read leaves the session logged out.
func (m *Manager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return
	}
	m.initialized = true

	token, err := m.store.LoadToken()
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Could not load session token, starting logged out")
		return
	}
	m.token = token
	logger.Log.Debug().Bool("authenticated", token != "").Msg("Session initialized")
}

func (m *Manager) Login(token string) error {
	if token == "" {
		return domain.ErrInvalidSession
	}

	m.mu.Lock()
	if err := m.store.SaveToken(token); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("could not persist session: %w", err)
	}
	m.token = token
	m.initialized = true
	m.mu.Unlock()

	logger.Log.Info().Msg("Session started")
	m.notify(true)
	return nil
}

// Logout clears the session. Calling it while logged out is a no-op apart
// from clearing storage again. The in-memory token is dropped even when
// storage fails, so a broken store can never keep a user logged in.
func (m *Manager) Logout() error {
	m.mu.Lock()
	err := m.store.ClearToken()
	m.token = ""
	m.initialized = true
	m.mu.Unlock()

	m.notify(false)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Could not clear persisted session")
		return fmt.Errorf("could not clear persisted session: %w", err)
	}
	logger.Log.Info().Msg("Session ended")
	return nil
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// OnChange registers fn to be called after every Login and Logout.
func (m *Manager) OnChange(fn func(authenticated bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify(authenticated bool) {
	m.mu.RLock()
	listeners := append([]func(bool){}, m.listeners...)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(authenticated)
	}
}
