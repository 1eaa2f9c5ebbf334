package search

import (
	"strings"

	"github.com/gabrielcapilla/songdash/internal/domain"
)

const separator = " by "

// ParseQuery turns "<song> by <artist>" into a SearchQuery. It returns
// domain.ErrEmptyQuery for blank input and domain.ErrMalformedQuery when the
// input does not split into exactly two non-empty parts.
func ParseQuery(raw string) (domain.SearchQuery, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.SearchQuery{}, domain.ErrEmptyQuery
	}

	parts := strings.Split(trimmed, separator)
	if len(parts) != 2 {
		return domain.SearchQuery{}, domain.ErrMalformedQuery
	}

	q := domain.SearchQuery{
		SongName:   strings.TrimSpace(parts[0]),
		ArtistName: strings.TrimSpace(parts[1]),
	}
	if q.SongName == "" || q.ArtistName == "" {
		return domain.SearchQuery{}, domain.ErrMalformedQuery
	}
	return q, nil
}
