package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/store-re/server/internal/model"
)

// CreateSession creates a login session with a fresh random id. The sync
// checkpoint starts at the session's creation time, so a new client pulls
// existing inventory with a plain list call rather than through sync.
// Id collisions are resolved by regenerating, never by blocking.
func CreateSession(ctx context.Context, db *sql.DB, userID, now int64) (*model.Session, error) {
	for {
		id, err := newSessionID()
		if err != nil {
			return nil, fmt.Errorf("generating session id: %w", err)
		}

		_, err = db.ExecContext(ctx,
			`INSERT INTO sessions (session_id, user_id, created_at, last_sync_at) VALUES (?, ?, ?, ?)`,
			id, userID, now, now,
		)
		if err != nil {
			cerr := classify(err)
			if errors.Is(cerr, ErrDuplicate) {
				continue
			}
			if errors.Is(cerr, ErrForeignKey) {
				return nil, fmt.Errorf("user id %d: %w", userID, cerr)
			}
			return nil, fmt.Errorf("creating session: %w", err)
		}

		return &model.Session{SessionID: id, UserID: userID, CreatedAt: now, LastSyncAt: now}, nil
	}
}

// GetSession returns a session by id, or nil if it doesn't exist.
func GetSession(ctx context.Context, q Querier, sessionID string) (*model.Session, error) {
	s := &model.Session{}
	err := q.QueryRowContext(ctx,
		`SELECT session_id, user_id, created_at, last_sync_at FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&s.SessionID, &s.UserID, &s.CreatedAt, &s.LastSyncAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return s, nil
}

// DeleteSession tears down a session.
func DeleteSession(ctx context.Context, q Querier, sessionID string) error {
	result, err := q.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = ?`, sessionID,
	)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session: %w", ErrNotFound)
	}
	return nil
}

// AdvanceLastSync moves a session's sync checkpoint forward. The guard keeps
// the checkpoint monotonic even if callers race; a backwards move is silently
// ignored. A session that no longer exists is ErrNotFound, so a sync racing a
// logout fails instead of committing against a dead session.
func AdvanceLastSync(ctx context.Context, q Querier, sessionID string, checkpoint int64) error {
	result, err := q.ExecContext(ctx,
		`UPDATE sessions SET last_sync_at = ? WHERE session_id = ? AND last_sync_at <= ?`,
		checkpoint, sessionID, checkpoint,
	)
	if err != nil {
		return fmt.Errorf("advancing sync checkpoint: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("advancing sync checkpoint: %w", err)
	}
	if n == 0 {
		// Either the row is gone or the stored checkpoint is already ahead.
		s, err := GetSession(ctx, q, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("session: %w", ErrNotFound)
		}
	}
	return nil
}

// newSessionID creates a random 128-bit session id.
func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
