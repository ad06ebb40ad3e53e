// Package storage persists the client's local state in a sqlite file: the
// session credential for silent re-login and per-peer message drafts.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a sqlite DB file at dsn.
func NewSQLiteStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous = NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set synchronous: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	return &Store{db: db}, nil
}

// Open resolves the default DB location under the user's home directory,
// creates the directory if needed, and migrates the schema. An explicit
// dbPath overrides the default.
func Open(dbPath string) (*Store, error) {
	path := dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(homeDir, ".agora")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		path = filepath.Join(dir, "agora.db")
	}
	store, err := NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the schema. Safe to call on every start.
func (s *Store) Migrate() error {
	const sqlStmt = `
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	token TEXT NOT NULL,
	username TEXT NOT NULL,
	saved_at INTEGER NOT NULL -- unix micro
);

CREATE TABLE IF NOT EXISTS drafts (
	peer_uuid TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	updated_at INTEGER NOT NULL -- unix micro
);
`
	_, err := s.db.Exec(sqlStmt)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
