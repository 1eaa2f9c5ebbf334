package ui

import (
	"fmt"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/ports"

	tea "github.com/charmbracelet/bubbletea"
)

type recentItem struct{ entry domain.SearchEntry }

func (i recentItem) FilterValue() string { return i.entry.Query }
func (i recentItem) ID() string          { return i.entry.Query }
func (i recentItem) Label() string {
	return fmt.Sprintf("%s  (%d, %s)", i.entry.Query, i.entry.Results, i.entry.SearchedAt.Format("Jan 2 15:04"))
}
func (i recentItem) Activate() tea.Msg { return ports.RunSearchMsg{Query: i.entry.Query} }

type recentDataSource struct {
	history ports.HistoryStore
	limit   int
}

func (s recentDataSource) Fetch(query string) tea.Msg {
	entries, err := s.history.RecentSearches(s.limit)
	if err != nil {
		return ports.HistoryErrorMsg{Err: err}
	}
	return ports.HistoryLoadedMsg{Entries: entries}
}

func NewRecentModel(history ports.HistoryStore, limit int, styles Styles) listAndFilterModel {
	return newListAndFilterModel(
		filterMode,
		"Filter recent searches...",
		recentDataSource{history: history, limit: limit},
		styles,
	)
}
