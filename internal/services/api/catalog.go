package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/logger"

	"github.com/buger/jsonparser"
)

const searchPath = "/songs/search"

// SearchSongs calls GET /songs/search?songName=&artistName=. The body is
// decoded according to the configured response shape; the other shape is
// rejected as malformed.
func (c *Client) SearchSongs(ctx context.Context, q domain.SearchQuery, token string) ([]domain.SongResult, error) {
	params := url.Values{}
	params.Set("songName", q.SongName)
	params.Set("artistName", q.ArtistName)

	status, body, err := c.do(ctx, http.MethodGet, c.endpoint(searchPath, params), nil, token, requestOptions{})
	if err != nil {
		return nil, err
	}

	songs, err := decodeSongs(body, c.shape)
	if err != nil {
		logger.Log.Warn().Err(err).Str("shape", string(c.shape)).Msg("Could not decode search response")
		return nil, malformed(status, body, err)
	}

	logger.Log.Info().Int("count", len(songs)).Msg("Search successful")
	return songs, nil
}

func decodeSongs(body []byte, shape domain.ResponseShape) ([]domain.SongResult, error) {
	var (
		list     []byte
		dataType jsonparser.ValueType
		err      error
	)

	if !json.Valid(body) {
		return nil, errors.New("response body is not a single JSON value")
	}

	switch shape {
	case domain.ResponseShapeArray:
		list, dataType, _, err = jsonparser.Get(body)
	case domain.ResponseShapeObject, "":
		if _, rootType, _, rootErr := jsonparser.Get(body); rootErr != nil || rootType != jsonparser.Object {
			return nil, errors.New("expected a JSON object with a songs field")
		}
		list, dataType, _, err = jsonparser.Get(body, "songs")
	default:
		return nil, fmt.Errorf("unknown response shape %q", shape)
	}
	if err != nil {
		return nil, fmt.Errorf("could not locate song list: %w", err)
	}

	switch dataType {
	case jsonparser.Null:
		return []domain.SongResult{}, nil
	case jsonparser.Array:
	default:
		return nil, fmt.Errorf("song list is a %s, not an array", dataType)
	}

	songs := []domain.SongResult{}
	var itemErr error
	_, err = jsonparser.ArrayEach(list, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = err
			return
		}
		if dataType != jsonparser.Object {
			itemErr = fmt.Errorf("song at offset %d is a %s", offset, dataType)
			return
		}
		var song domain.SongResult
		if err := json.Unmarshal(value, &song); err != nil {
			itemErr = fmt.Errorf("song at offset %d: %w", offset, err)
			return
		}
		if song.AlbumImageURL != nil && *song.AlbumImageURL == "" {
			song.AlbumImageURL = nil
		}
		songs = append(songs, song)
	})
	if err != nil {
		return nil, fmt.Errorf("could not iterate song list: %w", err)
	}
	if itemErr != nil {
		return nil, itemErr
	}

	return songs, nil
}
