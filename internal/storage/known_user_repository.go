package storage

import (
	"context"
	"database/sql"

	"github.com/victoria-pups/event-bot/internal/logger"
)

// KnownUserRepository records users who have started the bot at least once.
// Only known users may RSVP, so the bot never tries to message someone
// Telegram would reject.
type KnownUserRepository struct {
	queue  *DBQueue
	logger *logger.Logger
}

// NewKnownUserRepository creates a new known user repository
func NewKnownUserRepository(queue *DBQueue, log *logger.Logger) *KnownUserRepository {
	return &KnownUserRepository{
		queue:  queue,
		logger: log,
	}
}

// Add records a user as known. Adding an already known user is a no-op.
func (r *KnownUserRepository) Add(ctx context.Context, userID int64) error {
	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO known_users (user_id, first_seen_at)
			VALUES (?, CURRENT_TIMESTAMP)
			ON CONFLICT(user_id) DO NOTHING
		`, userID)
		return err
	})

	if err != nil {
		r.logger.Error("failed to add known user", "user_id", userID, "error", err)
		return err
	}

	r.logger.Debug("known user recorded", "user_id", userID)
	return nil
}

// IsKnown reports whether a user has started the bot before
func (r *KnownUserRepository) IsKnown(ctx context.Context, userID int64) (bool, error) {
	var known bool
	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM known_users WHERE user_id = ?)
		`, userID)
		return row.Scan(&known)
	})

	if err != nil {
		r.logger.Error("failed to check known user", "user_id", userID, "error", err)
		return false, err
	}

	return known, nil
}
