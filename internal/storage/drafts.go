package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveDraft keeps the unsent composer text for a peer. Empty content removes
// the row instead of storing a blank draft.
func (s *Store) SaveDraft(ctx context.Context, peerUUID, content string) error {
	if content == "" {
		return s.DeleteDraft(ctx, peerUUID)
	}
	const q = `
INSERT INTO drafts (peer_uuid, content, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(peer_uuid) DO UPDATE SET
	content = excluded.content,
	updated_at = excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, q, peerUUID, content, time.Now().UnixMicro())
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// GetDraft returns the draft for a peer. ErrNoRows when there is none.
func (s *Store) GetDraft(ctx context.Context, peerUUID string) (string, error) {
	const q = `SELECT content FROM drafts WHERE peer_uuid = ?;`
	var content string
	err := s.db.QueryRowContext(ctx, q, peerUUID).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoRows
		}
		return "", fmt.Errorf("get draft: %w", err)
	}
	return content, nil
}

// DeleteDraft removes the draft for a peer.
func (s *Store) DeleteDraft(ctx context.Context, peerUUID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE peer_uuid = ?;`, peerUUID)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
