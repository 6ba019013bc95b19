package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rooms.db")
	pool, err := NewConnectionPool("file:" + path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return pool
}

func TestMigrate_IsIdempotent(t *testing.T) {
	pool := setupTestPool(t)

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var version int
	if err := pool.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("expected schema version %d, got %d", len(migrations), version)
	}
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO rooms (id, name, capacity, created_at) VALUES (?, ?, ?, ?)",
			"room1", "Sala", 4, "2025-03-10T09:00:00Z",
		); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	var count int
	if err := pool.db.QueryRow("SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
		t.Fatalf("failed to count rooms: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback to discard the insert, found %d rows", count)
	}
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			"INSERT INTO rooms (id, name, capacity, created_at) VALUES (?, ?, ?, ?)",
			"room1", "Sala", 4, "2025-03-10T09:00:00Z",
		)
		return err
	})
	if err != nil {
		t.Fatalf("WithTransaction returned error: %v", err)
	}

	var count int
	if err := pool.db.QueryRow("SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
		t.Fatalf("failed to count rooms: %v", err)
	}
	if count != 1 {
		t.Errorf("expected committed insert, found %d rows", count)
	}
}
