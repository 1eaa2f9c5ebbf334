package ports

import (
	"github.com/gabrielcapilla/songdash/internal/domain"
)

type FocusState int

const (
	GlobalFocus FocusState = iota
	ComponentFocus
)

type ChangeFocusMsg struct{ NewFocus FocusState }

// ResultsUpdatedMsg is sent to the UI whenever the result store changes a
// category.
type ResultsUpdatedMsg struct {
	Category domain.Category
	Songs    []domain.SongResult
	Err      error
}

type SearchRejectedMsg struct{ Err error }

type HistoryLoadedMsg struct{ Entries []domain.SearchEntry }
type HistoryErrorMsg struct{ Err error }
type DeleteFromHistoryMsg struct{ Queries []string }
type RunSearchMsg struct{ Query string }

type NavigateMsg struct{ Path string }

type LoginSucceededMsg struct{ Username string }
type LoginFailedMsg struct{ Err error }
type RegisterSucceededMsg struct{}
type RegisterFailedMsg struct{ Err error }
type LoggedOutMsg struct{}

type OpenURLMsg struct{ URL string }
type OpenURLErrorMsg struct{ Err error }
