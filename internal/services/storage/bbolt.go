package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/ports"

	"go.etcd.io/bbolt"
)

var (
	sessionBucket  = []byte("session")
	searchesBucket = []byte("searches")
	tokenKey       = []byte("token")
)

// Fixed width so keys sort chronologically.
const keyTimeFormat = "2006-01-02T15:04:05.000000000Z"

type BboltStore struct {
	db *bbolt.DB
}

func NewBboltStore(dbPath string) (ports.StorageService, error) {
	options := &bbolt.Options{Timeout: 1 * time.Second}
	db, err := bbolt.Open(dbPath, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("could not open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{sessionBucket, searchesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create buckets: %w", err)
	}

	return &BboltStore{db: db}, nil
}

func (s *BboltStore) SaveToken(token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(tokenKey, []byte(token))
	})
}

func (s *BboltStore) LoadToken() (string, error) {
	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(sessionBucket).Get(tokenKey); v != nil {
			token = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("could not read session token: %w", err)
	}
	return token, nil
}

func (s *BboltStore) ClearToken() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(tokenKey)
	})
}

// normalizeQuery is the de-duplication key of the searches bucket.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (s *BboltStore) createSearchKey(t time.Time, query string) []byte {
	return []byte(fmt.Sprintf("%s|%s", t.UTC().Format(keyTimeFormat), normalizeQuery(query)))
}

func (s *BboltStore) findAndDeleteOldEntry(b *bbolt.Bucket, query string) error {
	c := b.Cursor()
	sep := []byte("|")
	needle := []byte(normalizeQuery(query))

	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		parts := bytes.SplitN(k, sep, 2)
		if len(parts) == 2 && bytes.Equal(parts[1], needle) {
			return c.Delete()
		}
	}
	return nil
}

func (s *BboltStore) AddSearch(entry domain.SearchEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(searchesBucket)

		if err := s.findAndDeleteOldEntry(b, entry.Query); err != nil {
			return err
		}

		if entry.SearchedAt.IsZero() {
			entry.SearchedAt = time.Now()
		}
		key := s.createSearchKey(entry.SearchedAt, entry.Query)

		value, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("error serializing search entry: %w", err)
		}

		return b.Put(key, value)
	})
}

func (s *BboltStore) DeleteSearches(queries []string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		for _, q := range queries {
			if err := s.findAndDeleteOldEntry(b, q); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BboltStore) RecentSearches(limit int) ([]domain.SearchEntry, error) {
	var entries []domain.SearchEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(searchesBucket).Cursor()

		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry domain.SearchEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("error deserializing search entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *BboltStore) Close() error {
	return s.db.Close()
}
