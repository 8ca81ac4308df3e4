package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/victoria-pups/event-bot/internal/logger"
)

var (
	// ErrSessionNotFound is returned when a dialog session is not found
	ErrSessionNotFound = errors.New("session not found")
)

// Session is a persisted dialog session for one admin user
type Session struct {
	Flow  string
	State string
	Data  map[string]interface{}
}

// SessionStorage implements persistent storage for dialog sessions
type SessionStorage struct {
	queue  *DBQueue
	logger *logger.Logger
}

// NewSessionStorage creates a new session storage backed by SQLite
func NewSessionStorage(queue *DBQueue, log *logger.Logger) *SessionStorage {
	return &SessionStorage{
		queue:  queue,
		logger: log,
	}
}

// Get retrieves the dialog session for a user
func (s *SessionStorage) Get(ctx context.Context, userID int64) (*Session, error) {
	var flow, state, contextJSON string
	var updatedAt time.Time

	err := s.queue.Execute(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx, `
			SELECT flow, state, context_json, updated_at
			FROM dialog_sessions
			WHERE user_id = ?
		`, userID)

		return row.Scan(&flow, &state, &contextJSON, &updatedAt)
	})

	if err != nil {
		if err == sql.ErrNoRows {
			s.logger.Debug("session not found", "user_id", userID)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("failed to get session", "user_id", userID, "error", err)
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(contextJSON), &data); err != nil {
		s.logger.Error("failed to unmarshal context", "user_id", userID, "error", err)
		// Delete corrupted session
		_ = s.Delete(ctx, userID)
		return nil, err
	}

	s.logger.Debug("session retrieved", "user_id", userID, "flow", flow, "state", state)
	return &Session{Flow: flow, State: state, Data: data}, nil
}

// Set stores the dialog session for a user using atomic transaction
func (s *SessionStorage) Set(ctx context.Context, userID int64, flow, state string, data map[string]interface{}) error {
	contextJSON, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("failed to marshal context", "user_id", userID, "error", err)
		return err
	}

	err = s.queue.Execute(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO dialog_sessions (user_id, flow, state, context_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT(user_id) DO UPDATE SET
				flow = excluded.flow,
				state = excluded.state,
				context_json = excluded.context_json,
				updated_at = CURRENT_TIMESTAMP
		`, userID, flow, state, string(contextJSON))

		if err != nil {
			return err
		}

		return tx.Commit()
	})

	if err != nil {
		s.logger.Error("failed to set session", "user_id", userID, "flow", flow, "state", state, "error", err)
		return err
	}

	s.logger.Debug("session stored", "user_id", userID, "flow", flow, "state", state)
	return nil
}

// Delete removes the dialog session for a user
func (s *SessionStorage) Delete(ctx context.Context, userID int64) error {
	err := s.queue.Execute(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		result, err := tx.ExecContext(ctx, `
			DELETE FROM dialog_sessions WHERE user_id = ?
		`, userID)

		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rowsAffected == 0 {
			s.logger.Debug("session not found for deletion", "user_id", userID)
		}

		return tx.Commit()
	})

	if err != nil {
		s.logger.Error("failed to delete session", "user_id", userID, "error", err)
		return err
	}

	s.logger.Debug("session deleted", "user_id", userID)
	return nil
}

// CleanupStale removes sessions older than 30 minutes
func (s *SessionStorage) CleanupStale(ctx context.Context) error {
	var deletedCount int64
	err := s.queue.Execute(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		result, err := tx.ExecContext(ctx, `
			DELETE FROM dialog_sessions
			WHERE updated_at < datetime('now', '-30 minutes')
		`)

		if err != nil {
			return err
		}

		deletedCount, err = result.RowsAffected()
		if err != nil {
			return err
		}

		return tx.Commit()
	})

	if err != nil {
		s.logger.Error("failed to cleanup stale sessions", "error", err)
		return err
	}

	if deletedCount > 0 {
		s.logger.Info("cleaned up stale sessions", "count", deletedCount)
	} else {
		s.logger.Debug("no stale sessions to cleanup")
	}

	return nil
}
