package storage

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS dialog_sessions (
    user_id INTEGER PRIMARY KEY,
    flow TEXT NOT NULL,
    state TEXT NOT NULL,
    context_json TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dialog_sessions_updated ON dialog_sessions(updated_at);

CREATE TABLE IF NOT EXISTS known_users (
    user_id INTEGER PRIMARY KEY,
    first_seen_at TIMESTAMP NOT NULL
);
`

// InitSchema initializes the database schema
func InitSchema(ctx context.Context, queue *DBQueue) error {
	return queue.Execute(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, schema)
		return err
	})
}
