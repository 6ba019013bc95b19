package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/victorstella/desafio-mailerweb-ino/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool *ConnectionPool
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = "id, room_id, title, start_at, end_at, status, canceled_at, created_at, updated_at"

// InsertBooking stores a new booking. Referencing a missing room maps to
// ErrForeignKeyViolation.
func (r *BookingRepository) InsertBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.Title,
		formatTime(booking.StartAt),
		formatTime(booking.EndAt),
		booking.Status,
		formatNullableTime(booking.CanceledAt),
		formatTime(booking.CreatedAt),
		formatTime(booking.UpdatedAt),
	)
	if err != nil {
		return mapSQLiteError(err)
	}

	return nil
}

// GetBooking retrieves a booking by ID scoped to its room. A booking owned by
// a different room is reported as not found.
func (r *BookingRepository) GetBooking(ctx context.Context, roomID, id string) (persistence.Booking, error) {
	if roomID == "" || id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = ? AND room_id = ?
	`

	booking, err := scanBooking(r.pool.db.QueryRowContext(ctx, query, id, roomID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, err
	}

	return booking, nil
}

// UpdateBooking replaces the stored fields of a booking by ID.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE bookings
		SET title = ?, start_at = ?, end_at = ?, status = ?, canceled_at = ?, updated_at = ?
		WHERE id = ? AND room_id = ?
	`

	result, err := r.pool.db.ExecContext(ctx, query,
		booking.Title,
		formatTime(booking.StartAt),
		formatTime(booking.EndAt),
		booking.Status,
		formatNullableTime(booking.CanceledAt),
		formatTime(booking.UpdatedAt),
		booking.ID,
		booking.RoomID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// ListBookingsForRoom returns all bookings on a room ordered by start then ID.
func (r *BookingRepository) ListBookingsForRoom(ctx context.Context, roomID string) ([]persistence.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = ?
		ORDER BY start_at ASC, id ASC
	`

	rows, err := r.pool.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListActiveOverlapping returns active bookings on the room whose window
// strictly overlaps [start, end). The predicate relies on stored timestamps
// being uniformly formatted UTC RFC3339 strings, so lexicographic comparison
// matches chronological order. Touching windows do not overlap.
func (r *BookingRepository) ListActiveOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]persistence.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = ?
		  AND status = ?
		  AND start_at < ?
		  AND end_at > ?
	`
	args := []any{roomID, persistence.BookingStatusActive, formatTime(end), formatTime(start)}

	if excludeID != "" {
		query += " AND id <> ?"
		args = append(args, excludeID)
	}
	query += " ORDER BY start_at ASC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var booking persistence.Booking
	var startAt, endAt, createdAt, updatedAt string
	var canceledAt sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.Title,
		&startAt,
		&endAt,
		&booking.Status,
		&canceledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	if booking.StartAt, err = parseTime(startAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse start_at: %w", err)
	}
	if booking.EndAt, err = parseTime(endAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse end_at: %w", err)
	}
	if booking.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if canceledAt.Valid {
		parsed, err := parseTime(canceledAt.String)
		if err != nil {
			return persistence.Booking{}, fmt.Errorf("failed to parse canceled_at: %w", err)
		}
		booking.CanceledAt = &parsed
	}

	return booking, nil
}

func collectBookings(rows *sql.Rows) ([]persistence.Booking, error) {
	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, mapSQLiteError(err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}
	return bookings, nil
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
