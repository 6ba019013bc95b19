package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Timestamps are stored as UTC RFC3339 strings. Uniform formatting keeps the
// lexicographic order of the columns identical to chronological order, which
// the overlap predicate in booking_repository.go depends on.

// migrations are applied in order; PRAGMA user_version tracks the last
// applied index, so restarting against an existing database only applies the
// tail.
var migrations = []string{
	`CREATE TABLE rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE RESTRICT,
		title TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'canceled')),
		canceled_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (start_at < end_at)
	)`,
	`CREATE INDEX bookings_room_active ON bookings (room_id, status, start_at)`,
}

// Migrate brings the schema up to date. It is safe to call on every startup.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		var version int
		if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		if version > len(migrations) {
			return fmt.Errorf("database schema version %d is newer than this build supports", version)
		}

		for i := version; i < len(migrations); i++ {
			if _, err := tx.Exec(migrations[i]); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
			}
		}

		if version < len(migrations) {
			if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
				return fmt.Errorf("failed to record schema version: %w", err)
			}
		}

		return nil
	})
}
