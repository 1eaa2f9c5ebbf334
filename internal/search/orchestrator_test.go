package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/services/api"
	"github.com/gabrielcapilla/songdash/internal/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type catalogCall struct {
	query domain.SearchQuery
	token string
}

// fakeCatalog answers by song name. A song with a gate blocks until the
// gate is closed.
type fakeCatalog struct {
	mu      sync.Mutex
	calls   []catalogCall
	results map[string][]domain.SongResult
	errs    map[string]error
	gates   map[string]chan struct{}
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		results: make(map[string][]domain.SongResult),
		errs:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeCatalog) SearchSongs(ctx context.Context, q domain.SearchQuery, token string) ([]domain.SongResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, catalogCall{query: q, token: token})
	gate := f.gates[q.SongName]
	songs, err := f.results[q.SongName], f.errs[q.SongName]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return songs, err
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func song(name, artist string) domain.SongResult {
	return domain.SongResult{Name: name, Artist: artist, ExternalURL: "https://open.example/" + name}
}

func collect(store *Store) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 16)
	unsubscribe := store.Subscribe(func(s Snapshot) { ch <- s })
	return ch, unsubscribe
}

func TestOrchestrator_SuccessfulSearch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.results["15 Step"] = []domain.SongResult{song("15 Step", "Radiohead")}
	store := NewStore()
	history := storage.NewMemoryStore()
	o := NewOrchestrator(catalog, staticToken("jwt"), store, WithHistory(history))

	updates, unsubscribe := collect(store)
	defer unsubscribe()

	require.NoError(t, o.Search(context.Background(), "15 Step by Radiohead"))
	o.Wait()

	songs, ok := store.Get(domain.CategorySongs)
	require.True(t, ok)
	assert.Equal(t, []domain.SongResult{song("15 Step", "Radiohead")}, songs)
	assert.NoError(t, store.Err(domain.CategorySongs))

	require.Len(t, catalog.calls, 1)
	assert.Equal(t, domain.SearchQuery{SongName: "15 Step", ArtistName: "Radiohead"}, catalog.calls[0].query)
	assert.Equal(t, "jwt", catalog.calls[0].token, "The current session token should be attached")

	snap := <-updates
	assert.Equal(t, domain.CategorySongs, snap.Category)
	assert.Len(t, snap.Songs, 1)

	recent, err := history.RecentSearches(5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "15 Step by Radiohead", recent[0].Query)
	assert.Equal(t, 1, recent[0].Results)
}

func TestOrchestrator_EmptyResultIsSuccess(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.results["Nothing"] = []domain.SongResult{}
	store := NewStore()
	o := NewOrchestrator(catalog, staticToken(""), store)

	require.NoError(t, o.Search(context.Background(), "Nothing by Nobody"))
	o.Wait()

	songs, ok := store.Get(domain.CategorySongs)
	require.True(t, ok)
	assert.Empty(t, songs)
	assert.NoError(t, store.Err(domain.CategorySongs))
}

func TestOrchestrator_ValidationLeavesStoreUnchanged(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.results["Airbag"] = []domain.SongResult{song("Airbag", "Radiohead")}
	store := NewStore()
	o := NewOrchestrator(catalog, staticToken("jwt"), store)

	require.NoError(t, o.Search(context.Background(), "Airbag by Radiohead"))
	o.Wait()
	before := store.Snapshot(domain.CategorySongs)
	callsBefore := catalog.callCount()

	inputs := []struct {
		raw      string
		expected error
	}{
		{"   ", domain.ErrEmptyQuery},
		{"", domain.ErrEmptyQuery},
		{"Airbag", domain.ErrMalformedQuery},
		{"Airbag - Radiohead", domain.ErrMalformedQuery},
		{"Airbag BY Radiohead", domain.ErrMalformedQuery},
		{"by Radiohead", domain.ErrMalformedQuery},
	}
	for _, in := range inputs {
		err := o.Search(context.Background(), in.raw)
		require.ErrorIs(t, err, in.expected, "input %q", in.raw)
	}
	o.Wait()

	assert.Equal(t, before, store.Snapshot(domain.CategorySongs))
	assert.Equal(t, callsBefore, catalog.callCount(), "Validation errors must not reach the network")
}

func TestOrchestrator_FailureClearsCategory(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.results["Airbag"] = []domain.SongResult{song("Airbag", "Radiohead")}
	catalog.errs["Broken"] = &domain.APIError{Status: http.StatusInternalServerError, Body: "boom"}
	catalog.errs["Plain"] = errors.New("not an api error")
	store := NewStore()
	o := NewOrchestrator(catalog, staticToken("jwt"), store)

	require.NoError(t, o.Search(context.Background(), "Airbag by Radiohead"))
	o.Wait()

	require.NoError(t, o.Search(context.Background(), "Broken by Anyone"))
	o.Wait()

	songs, ok := store.Get(domain.CategorySongs)
	require.True(t, ok)
	assert.Empty(t, songs, "A failed search should clear the category")

	var failed *domain.SearchFailedError
	require.ErrorAs(t, store.Err(domain.CategorySongs), &failed)
	assert.Equal(t, http.StatusInternalServerError, failed.Err.Status)
	assert.Equal(t, "Broken", failed.Query.SongName)

	require.NoError(t, o.Search(context.Background(), "Plain by Anyone"))
	o.Wait()
	require.ErrorAs(t, store.Err(domain.CategorySongs), &failed)
	assert.True(t, failed.Err.Network)

	require.NoError(t, o.Search(context.Background(), "Airbag by Radiohead"))
	o.Wait()
	assert.NoError(t, store.Err(domain.CategorySongs), "A later success should clear the error")
}

func TestOrchestrator_LastDispatchWins(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.results["A"] = []domain.SongResult{song("A", "first")}
	catalog.results["B"] = []domain.SongResult{song("B", "second")}
	gateA := make(chan struct{})
	gateB := make(chan struct{})
	catalog.gates["A"] = gateA
	catalog.gates["B"] = gateB

	store := NewStore()
	o := NewOrchestrator(catalog, staticToken("jwt"), store)
	updates, unsubscribe := collect(store)
	defer unsubscribe()

	require.NoError(t, o.Search(context.Background(), "A by first"))
	require.NoError(t, o.Search(context.Background(), "B by second"))

	close(gateB)
	select {
	case snap := <-updates:
		assert.Equal(t, []domain.SongResult{song("B", "second")}, snap.Songs)
	case <-time.After(2 * time.Second):
		t.Fatal("B's response was never applied")
	}

	close(gateA)
	o.Wait()

	songs, _ := store.Get(domain.CategorySongs)
	assert.Equal(t, []domain.SongResult{song("B", "second")}, songs, "A's late response must be discarded")
	assert.Empty(t, updates, "A discarded response must not notify subscribers")
}

func TestOrchestrator_LateFailureIsDiscarded(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.errs["A"] = &domain.APIError{Network: true}
	catalog.results["B"] = []domain.SongResult{song("B", "second")}
	gateA := make(chan struct{})
	catalog.gates["A"] = gateA

	store := NewStore()
	o := NewOrchestrator(catalog, staticToken("jwt"), store)

	require.NoError(t, o.Search(context.Background(), "A by first"))
	require.NoError(t, o.Search(context.Background(), "B by second"))

	close(gateA)
	o.Wait()

	songs, _ := store.Get(domain.CategorySongs)
	assert.Equal(t, []domain.SongResult{song("B", "second")}, songs)
	assert.NoError(t, store.Err(domain.CategorySongs))
}

func TestOrchestrator_AgainstHTTPBackend(t *testing.T) {
	var hits int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer jwt" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Query().Get("songName") {
		case "15 Step":
			w.Write([]byte(`{"songs":[{"name":"15 Step","artist":"Radiohead","external_url":"https://open.example/15step","album_image_url":null}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"db down"}`))
		}
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, api.WithHTTPClient(&http.Client{Transport: &http.Transport{DisableKeepAlives: true}}))
	store := NewStore()
	o := NewOrchestrator(client, staticToken("jwt"), store)

	require.NoError(t, o.Search(context.Background(), "15 Step by Radiohead"))
	o.Wait()

	songs, ok := store.Get(domain.CategorySongs)
	require.True(t, ok)
	assert.Equal(t, []domain.SongResult{{Name: "15 Step", Artist: "Radiohead", ExternalURL: "https://open.example/15step"}}, songs)

	require.ErrorIs(t, o.Search(context.Background(), "   "), domain.ErrEmptyQuery)
	mu.Lock()
	assert.Equal(t, 1, hits, "An empty query must not hit the backend")
	mu.Unlock()

	require.NoError(t, o.Search(context.Background(), "Down by Server"))
	o.Wait()

	songs, _ = store.Get(domain.CategorySongs)
	assert.Equal(t, []domain.SongResult{}, songs)

	var failed *domain.SearchFailedError
	require.ErrorAs(t, store.Err(domain.CategorySongs), &failed)
	assert.Equal(t, http.StatusInternalServerError, failed.Err.Status)
	assert.Equal(t, `{"message":"db down"}`, failed.Err.Body)
}
