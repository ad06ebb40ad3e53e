package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SavedSession is the credential kept between runs for silent re-login.
type SavedSession struct {
	Token    string
	Username string
	SavedAt  time.Time
}

// SaveSession stores the credential, replacing any previous one. There is at
// most one saved session per state file.
func (s *Store) SaveSession(ctx context.Context, token, username string) error {
	const q = `
INSERT INTO session (id, token, username, saved_at)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	token = excluded.token,
	username = excluded.username,
	saved_at = excluded.saved_at;
`
	_, err := s.db.ExecContext(ctx, q, token, username, time.Now().UnixMicro())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession returns the saved credential. ErrNoRows when none is stored.
func (s *Store) GetSession(ctx context.Context) (*SavedSession, error) {
	const q = `SELECT token, username, saved_at FROM session WHERE id = 1;`
	var (
		token    string
		username string
		savedAt  int64
	)
	err := s.db.QueryRowContext(ctx, q).Scan(&token, &username, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &SavedSession{
		Token:    token,
		Username: username,
		SavedAt:  time.UnixMicro(savedAt),
	}, nil
}

// ClearSession deletes the saved credential, if any.
func (s *Store) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1;`)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
