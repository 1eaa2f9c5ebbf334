package session

import (
	"errors"
	"testing"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	saveErr, loadErr, clearErr error
	token                      string
}

func (s *failingStore) SaveToken(token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *failingStore) LoadToken() (string, error) { return s.token, s.loadErr }

func (s *failingStore) ClearToken() error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.token = ""
	return nil
}

func TestManager_LoginLogout(t *testing.T) {
	tokens := []string{"t", "eyJhbGciOiJIUzI1NiJ9.e30.x", "  padded  ", "  ", "ünïcødé"}

	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			store := storage.NewMemoryStore()
			m := NewManager(store)
			m.Initialize()

			require.NoError(t, m.Login(tok))
			assert.Equal(t, tok, m.Token())
			assert.True(t, m.IsAuthenticated())

			persisted, err := store.LoadToken()
			require.NoError(t, err)
			assert.Equal(t, m.Token(), persisted, "Memory and storage should agree after Login")

			require.NoError(t, m.Logout())
			assert.Empty(t, m.Token())
			assert.False(t, m.IsAuthenticated())

			require.NoError(t, m.Logout(), "Logout should be idempotent")
			assert.False(t, m.IsAuthenticated())

			persisted, _ = store.LoadToken()
			assert.Empty(t, persisted)
		})
	}
}

func TestManager_LoginRejectsEmptyToken(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.SaveToken("existing"))
	m := NewManager(store)
	m.Initialize()

	err := m.Login("")
	require.ErrorIs(t, err, domain.ErrInvalidSession)
	assert.Equal(t, "existing", m.Token(), "A rejected login must not change state")

	persisted, _ := store.LoadToken()
	assert.Equal(t, "existing", persisted)
}

func TestManager_LoginIsAtomicWhenStorageFails(t *testing.T) {
	store := &failingStore{saveErr: errors.New("disk full")}
	m := NewManager(store)
	m.Initialize()

	err := m.Login("new-token")
	require.Error(t, err)
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, store.token)
}

func TestManager_Initialize(t *testing.T) {
	t.Run("hydrates from storage once", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.SaveToken("from-disk"))

		m := NewManager(store)
		assert.False(t, m.IsAuthenticated(), "Session starts empty before Initialize")

		m.Initialize()
		assert.Equal(t, "from-disk", m.Token())

		require.NoError(t, store.SaveToken("changed-behind-our-back"))
		m.Initialize()
		assert.Equal(t, "from-disk", m.Token(), "A second Initialize should have no effect")
	})

	t.Run("unreadable storage degrades to logged out", func(t *testing.T) {
		m := NewManager(&failingStore{loadErr: errors.New("store unavailable"), token: "ignored"})
		m.Initialize()
		assert.False(t, m.IsAuthenticated())
	})
}

func TestManager_LogoutClearsMemoryWhenStorageFails(t *testing.T) {
	store := &failingStore{token: "abc"}
	m := NewManager(store)
	m.Initialize()
	require.True(t, m.IsAuthenticated())

	store.clearErr = errors.New("read-only")
	require.Error(t, m.Logout())
	assert.False(t, m.IsAuthenticated())
}

func TestManager_OnChange(t *testing.T) {
	m := NewManager(storage.NewMemoryStore())
	m.Initialize()

	var seen []bool
	m.OnChange(func(authenticated bool) { seen = append(seen, authenticated) })

	require.NoError(t, m.Login("x"))
	require.NoError(t, m.Logout())
	require.ErrorIs(t, m.Login(""), domain.ErrInvalidSession)

	assert.Equal(t, []bool{true, false}, seen)
}
