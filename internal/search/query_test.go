package search

import (
	"testing"

	"github.com/gabrielcapilla/songdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedErr   error
		expectedQuery domain.SearchQuery
	}{
		{name: "Simple", input: "15 Step by Radiohead", expectedQuery: domain.SearchQuery{SongName: "15 Step", ArtistName: "Radiohead"}},
		{name: "Surrounding spaces", input: "   Teardrop by Massive Attack  ", expectedQuery: domain.SearchQuery{SongName: "Teardrop", ArtistName: "Massive Attack"}},
		{name: "Extra inner spaces", input: "Teardrop  by  Massive Attack", expectedQuery: domain.SearchQuery{SongName: "Teardrop", ArtistName: "Massive Attack"}},
		{name: "Word containing by", input: "Standby by Lullaby", expectedQuery: domain.SearchQuery{SongName: "Standby", ArtistName: "Lullaby"}},
		{name: "Empty", input: "", expectedErr: domain.ErrEmptyQuery},
		{name: "Whitespace only", input: "   \t ", expectedErr: domain.ErrEmptyQuery},
		{name: "No separator", input: "Radiohead - 15 Step", expectedErr: domain.ErrMalformedQuery},
		{name: "Uppercase separator", input: "15 Step BY Radiohead", expectedErr: domain.ErrMalformedQuery},
		{name: "Missing artist", input: "15 Step by ", expectedErr: domain.ErrMalformedQuery},
		{name: "Missing song", input: " by Radiohead", expectedErr: domain.ErrMalformedQuery},
		{name: "Separator only", input: " by ", expectedErr: domain.ErrMalformedQuery},
		{name: "Empty middle part", input: "Song by  by Artist", expectedErr: domain.ErrMalformedQuery},
		{name: "Two separators", input: "Stand by Me by Ben E. King", expectedErr: domain.ErrMalformedQuery},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ParseQuery(tc.input)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				assert.Equal(t, domain.SearchQuery{}, q)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedQuery, q)
			}
		})
	}
}
