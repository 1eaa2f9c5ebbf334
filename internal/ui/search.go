package ui

import (
	"context"
	"fmt"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
)

type songItem struct {
	index int
	song  domain.SongResult
}

func (i songItem) FilterValue() string { return i.song.Name }
func (i songItem) ID() string          { return fmt.Sprintf("%d", i.index) }
func (i songItem) Label() string {
	if i.song.Artist == "" {
		return i.song.Name
	}
	return fmt.Sprintf("%s by %s", i.song.Name, i.song.Artist)
}
func (i songItem) Activate() tea.Msg { return ports.OpenURLMsg{URL: i.song.ExternalURL} }

// Searcher dispatches a raw query. Validation errors come back
// synchronously; results arrive later as ports.ResultsUpdatedMsg.
type Searcher interface {
	Search(ctx context.Context, raw string) error
}

type searchDataSource struct {
	searcher Searcher
}

func (s searchDataSource) Fetch(query string) tea.Msg {
	if err := s.searcher.Search(context.Background(), query); err != nil {
		return ports.SearchRejectedMsg{Err: err}
	}
	return nil
}

func NewSearchModel(searcher Searcher, styles Styles) listAndFilterModel {
	return newListAndFilterModel(
		submitMode,
		"Song name and artist, e.g. '15 Step by Radiohead'",
		searchDataSource{searcher: searcher},
		styles,
	)
}
