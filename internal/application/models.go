package application

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	// BookingStatusActive marks a booking that occupies its room window.
	BookingStatusActive BookingStatus = "active"
	// BookingStatusCanceled marks a booking that no longer occupies its
	// window. Canceled bookings never revert to active.
	BookingStatusCanceled BookingStatus = "canceled"
)

// Room represents a reservable room exposed by the application services.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Capacity int
}

// Booking represents a persisted reservation snapshot.
type Booking struct {
	ID         string
	RoomID     string
	Title      string
	StartAt    time.Time
	EndAt      time.Time
	Status     BookingStatus
	CanceledAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingInput captures caller provided booking fields. StartAt and EndAt are
// pointers so handlers can distinguish an absent field from a zero instant.
type BookingInput struct {
	Title   string
	StartAt *time.Time
	EndAt   *time.Time
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	RoomID string
	Input  BookingInput
}

// RescheduleBookingParams wraps the data required to move an existing booking.
// Nil fields retain the booking's current value.
type RescheduleBookingParams struct {
	RoomID    string
	BookingID string
	StartAt   *time.Time
	EndAt     *time.Time
}
