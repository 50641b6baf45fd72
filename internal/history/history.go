// Package history persists recommendation events to SQLite so users can
// revisit what was recommended and when.
package history

import (
	"context"
	"database/sql"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	scenterrors "github.com/scentlab/scentmatch/internal/errors"
)

// Entry is one recorded recommendation.
type Entry struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	City      string    `json:"city,omitempty"`
	Weather   string    `json:"weather,omitempty"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is one recommended fragrance within an entry.
type Item struct {
	Brand string  `json:"brand"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

const schema = `
CREATE TABLE IF NOT EXISTS recommendations (
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL,
	city       TEXT NOT NULL DEFAULT '',
	weather    TEXT NOT NULL DEFAULT '',
	items      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recommendations_created_at
	ON recommendations(created_at DESC);
`

// Store is a SQLite-backed history store. Safe for concurrent use; the
// underlying pool serializes writes.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, scenterrors.New(scenterrors.ErrCodeHistoryStorage,
			"open history database "+path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, scenterrors.New(scenterrors.ErrCodeHistoryStorage,
			"initialize history schema", err)
	}

	return &Store{db: db}, nil
}

// Record saves a recommendation event and returns its generated ID.
func (s *Store) Record(ctx context.Context, query, city, weather string, items []Item) (string, error) {
	id := uuid.NewString()

	payload, err := json.Marshal(items)
	if err != nil {
		return "", scenterrors.New(scenterrors.ErrCodeHistoryStorage,
			"encode history items", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recommendations (id, query, city, weather, items, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, query, city, weather, string(payload), time.Now().UTC())
	if err != nil {
		return "", scenterrors.New(scenterrors.ErrCodeHistoryStorage,
			"insert history entry", err)
	}

	return id, nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, city, weather, items, created_at
		 FROM recommendations
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, scenterrors.New(scenterrors.ErrCodeHistoryStorage,
			"query history", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var payload string
		if err := rows.Scan(&e.ID, &e.Query, &e.City, &e.Weather, &payload, &e.CreatedAt); err != nil {
			return nil, scenterrors.New(scenterrors.ErrCodeHistoryStorage,
				"scan history entry", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Items); err != nil {
			// A corrupt payload loses its items, not the whole listing.
			e.Items = nil
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, scenterrors.New(scenterrors.ErrCodeHistoryStorage,
			"iterate history", err)
	}

	return entries, nil
}

// Pick is the top recommendation of one past query, used for the
// "previously recommended" preview.
type Pick struct {
	Query     string    `json:"query"`
	Brand     string    `json:"brand"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FirstPicks returns the first (highest ranked) item of each recent
// entry, newest first. Entries with no decodable items are skipped.
func (s *Store) FirstPicks(ctx context.Context, limit int) ([]Pick, error) {
	entries, err := s.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	picks := make([]Pick, 0, len(entries))
	for _, e := range entries {
		if len(e.Items) == 0 {
			continue
		}
		picks = append(picks, Pick{
			Query:     e.Query,
			Brand:     e.Items[0].Brand,
			Name:      e.Items[0].Name,
			CreatedAt: e.CreatedAt,
		})
	}
	return picks, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
