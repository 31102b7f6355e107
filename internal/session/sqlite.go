package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
	"github.com/telcoinsight/keluhan-bot-go/internal/storage"
)

// SQLiteStore persists sessions across restarts. History is stored as a
// JSON column; the row is small because history is capped.
type SQLiteStore struct {
	db  *storage.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore creates a store backed by the given database.
func NewSQLiteStore(db *storage.DB, ttl time.Duration) *SQLiteStore {
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}
}

// Get loads a session, enforcing the TTL.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*State, error) {
	var (
		createdAt    int64
		lastActivity int64
		historyJSON  string
	)

	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT created_at, last_activity, history FROM sessions WHERE session_id = ?`, id)
	if err := row.Scan(&createdAt, &lastActivity, &historyJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	state := &State{
		ID:           id,
		CreatedAt:    time.Unix(createdAt, 0),
		LastActivity: time.Unix(lastActivity, 0),
	}
	if err := json.Unmarshal([]byte(historyJSON), &state.History); err != nil {
		return nil, fmt.Errorf("failed to decode session history: %w", err)
	}

	if state.Expired(s.ttl, s.now()) {
		_ = s.Delete(ctx, id)
		return nil, domerrors.ErrSessionExpired
	}
	return state, nil
}

// GetOrCreate returns the existing state or a fresh one for the id.
func (s *SQLiteStore) GetOrCreate(ctx context.Context, id string) (*State, error) {
	state, err := s.Get(ctx, id)
	if err == nil {
		return state, nil
	}
	if errors.Is(err, domerrors.ErrNotFound) || errors.Is(err, domerrors.ErrSessionExpired) {
		return NewState(id, s.now()), nil
	}
	return nil, err
}

// Put upserts the session row.
func (s *SQLiteStore) Put(ctx context.Context, state *State) error {
	historyJSON, err := json.Marshal(state.History)
	if err != nil {
		return fmt.Errorf("failed to encode session history: %w", err)
	}

	_, err = s.db.Conn().ExecContext(ctx, `
INSERT INTO sessions (session_id, created_at, last_activity, history)
VALUES (?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
	last_activity = excluded.last_activity,
	history = excluded.history`,
		state.ID, state.CreatedAt.Unix(), state.LastActivity.Unix(), string(historyJSON))
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes a session row.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Conn().ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep removes sessions idle beyond the TTL.
func (s *SQLiteStore) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ttl).Unix()

	result, err := s.db.Conn().ExecContext(ctx,
		`DELETE FROM sessions WHERE last_activity < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(removed), nil
}

// Count returns the number of stored sessions.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// Close is a no-op: the underlying database is owned by the caller.
func (s *SQLiteStore) Close() error { return nil }
