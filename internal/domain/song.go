package domain

import "time"

type Category string

const CategorySongs Category = "songs"

// SongResult is one entry of a catalog search. Results are positional: two
// equal entries in a response stay two entries.
type SongResult struct {
	Name          string  `json:"name"`
	Artist        string  `json:"artist"`
	ExternalURL   string  `json:"external_url"`
	AlbumImageURL *string `json:"album_image_url"`
}

type SearchQuery struct {
	SongName   string
	ArtistName string
}

func (q SearchQuery) String() string {
	return q.SongName + " by " + q.ArtistName
}

// SearchEntry is a query that returned successfully, kept for the Recent tab.
type SearchEntry struct {
	Query      string
	Results    int
	SearchedAt time.Time
}
