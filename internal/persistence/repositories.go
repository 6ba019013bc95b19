package persistence

import (
	"context"
	"time"
)

// RoomRepository exposes the room catalog operations. Rooms are never updated
// or deleted through this interface; referential integrity with bookings is
// enforced by the store.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

// BookingRepository stores bookings and answers the overlap query the
// scheduler relies on.
type BookingRepository interface {
	InsertBooking(ctx context.Context, booking Booking) error
	// GetBooking returns ErrNotFound when the booking does not exist or is
	// owned by a different room.
	GetBooking(ctx context.Context, roomID, id string) (Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) error
	ListBookingsForRoom(ctx context.Context, roomID string) ([]Booking, error)
	// ListActiveOverlapping returns active bookings on the room whose window
	// strictly overlaps [start, end) under half-open semantics. When excludeID
	// is non-empty that booking is skipped, so a reschedule never conflicts
	// with itself.
	ListActiveOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]Booking, error)
}
