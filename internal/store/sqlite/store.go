// Package sqlite persists the record list in a single-row key/value table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/store"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

type Store struct {
	db   *sql.DB
	key  string
	path string
}

// Open creates the database file and its parent directory if needed.
// key defaults to store.DefaultKey.
func Open(path, key string) (*Store, error) {
	if key == "" {
		key = store.DefaultKey
	}

	dsn := "file::memory:?_pragma=busy_timeout(5000)"
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create db path: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(path))
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection also keeps an in-memory database alive between calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(0)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &Store{db: db, key: key, path: path}, nil
}

func (s *Store) Name() string { return "sqlite" }

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot row. A missing row is an empty list.
func (s *Store) Load(ctx context.Context) ([]domain.Aquarium, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Aquarium{}, nil
		}
		return nil, fmt.Errorf("select %s: %w", s.key, err)
	}

	var records []domain.Aquarium
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%w: row %s: %v", store.ErrCorruptState, s.key, err)
	}
	if records == nil {
		records = []domain.Aquarium{}
	}
	return records, nil
}

// Save upserts the snapshot row.
func (s *Store) Save(ctx context.Context, records []domain.Aquarium) error {
	if records == nil {
		records = []domain.Aquarium{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal aquariums: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.key, payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
