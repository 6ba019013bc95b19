package persistence

import "time"

// Booking status values stored in the bookings table.
const (
	BookingStatusActive   = "active"
	BookingStatusCanceled = "canceled"
)

// Room represents a reservable room catalog entry.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
}

// Booking represents a room reservation stored in persistence. A booking is
// never physically deleted; cancellation only flips Status and sets CanceledAt.
type Booking struct {
	ID         string
	RoomID     string
	Title      string
	StartAt    time.Time
	EndAt      time.Time
	Status     string
	CanceledAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
