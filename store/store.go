// Package store caches compiled bytecode in SQLite, addressed by the
// SHA-256 of the source text it was compiled from.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/simian/bytecode"
)

// ErrNotFound indicates the cache holds no entry for a key.
var ErrNotFound = errors.New("bytecode not cached")

var log = commonlog.GetLogger("simian.store")

// Key is the content address of a source text.
type Key [32]byte

// KeyOf returns the content address of source.
func KeyOf(source string) Key {
	return sha256.Sum256([]byte(source))
}

// String returns the key in lowercase hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Store is a persistent bytecode cache. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the cache database at path. Missing parent
// directories are created. The path ":memory:" opens a private in-memory
// cache.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	// A single connection keeps ":memory:" databases from splitting.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS bytecode (
		key     TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		data    BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened bytecode cache %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores bc under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key Key, bc *bytecode.Bytecode) error {
	data, err := bytecode.Marshal(bc)
	if err != nil {
		return fmt.Errorf("encoding bytecode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO bytecode (key, version, data) VALUES (?, ?, ?)",
		key.String(), bytecode.WireVersion, data,
	)
	if err != nil {
		return fmt.Errorf("saving bytecode: %w", err)
	}
	log.Debugf("cached %s (%d bytes)", key, len(data))
	return nil
}

// Get returns the bytecode stored under key. Entries written by another
// wire version are treated as absent.
func (s *Store) Get(ctx context.Context, key Key) (*bytecode.Bytecode, error) {
	var (
		version int
		data    []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT version, data FROM bytecode WHERE key = ?", key.String(),
	).Scan(&version, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying bytecode: %w", err)
	}
	if version != int(bytecode.WireVersion) {
		return nil, ErrNotFound
	}

	bc, err := bytecode.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding cached bytecode %s: %w", key, err)
	}
	return bc, nil
}

// Delete removes the entry for key, if any.
func (s *Store) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM bytecode WHERE key = ?", key.String()); err != nil {
		return fmt.Errorf("deleting bytecode: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bytecode").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}
