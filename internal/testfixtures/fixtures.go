package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/victorstella/desafio-mailerweb-ino/internal/persistence"
)

// NewRoom builds a room fixture with sensible defaults.
func NewRoom(id, name string) persistence.Room {
	return persistence.Room{
		ID:        id,
		Name:      name,
		Capacity:  4,
		CreatedAt: ReferenceTime(),
	}
}

// NewBooking builds an active booking fixture whose window is offset from
// ReferenceTime.
func NewBooking(id, roomID string, startOffset, duration time.Duration) persistence.Booking {
	start := ReferenceTime().Add(startOffset)
	return persistence.Booking{
		ID:        id,
		RoomID:    roomID,
		Title:     "Meeting " + id,
		StartAt:   start,
		EndAt:     start.Add(duration),
		Status:    persistence.BookingStatusActive,
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}
}

// SeedRoom inserts a room fixture, failing the test on error.
func SeedRoom(tb testing.TB, store *Store, room persistence.Room) persistence.Room {
	tb.Helper()
	if err := store.CreateRoom(context.Background(), room); err != nil {
		tb.Fatalf("failed to seed room %s: %v", room.ID, err)
	}
	return room
}

// SeedBooking inserts a booking fixture, failing the test on error.
func SeedBooking(tb testing.TB, store *Store, booking persistence.Booking) persistence.Booking {
	tb.Helper()
	if err := store.InsertBooking(context.Background(), booking); err != nil {
		tb.Fatalf("failed to seed booking %s: %v", booking.ID, err)
	}
	return booking
}
