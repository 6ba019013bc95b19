package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/victorstella/desafio-mailerweb-ino/internal/persistence"
	"github.com/victorstella/desafio-mailerweb-ino/internal/scheduler"
)

// Store is an in-memory implementation of the persistence repositories. It
// enforces the same uniqueness, ownership and overlap contracts as the SQLite
// implementation so service tests exercise realistic store behavior.
type Store struct {
	mu       sync.RWMutex
	rooms    map[string]persistence.Room
	bookings map[string]persistence.Booking
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		rooms:    make(map[string]persistence.Room),
		bookings: make(map[string]persistence.Booking),
	}
}

// --- persistence.RoomRepository ---

// CreateRoom stores a new room, rejecting duplicate names.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range s.rooms {
		if existing.Name == room.Name {
			return persistence.ErrDuplicate
		}
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	s.rooms[room.ID] = room
	return nil
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Name == rooms[j].Name {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].Name < rooms[j].Name
	})
	return rooms, nil
}

// --- persistence.BookingRepository ---

// InsertBooking stores a new booking, rejecting unknown rooms.
func (s *Store) InsertBooking(ctx context.Context, booking persistence.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; ok {
		return persistence.ErrDuplicate
	}
	if _, ok := s.rooms[booking.RoomID]; !ok {
		return persistence.ErrForeignKeyViolation
	}
	if !booking.StartAt.Before(booking.EndAt) {
		return persistence.ErrConstraintViolation
	}

	s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

// GetBooking retrieves a booking scoped to its room.
func (s *Store) GetBooking(ctx context.Context, roomID, id string) (persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok || booking.RoomID != roomID {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return cloneBooking(booking), nil
}

// UpdateBooking replaces the stored fields of an existing booking.
func (s *Store) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bookings[booking.ID]
	if !ok || existing.RoomID != booking.RoomID {
		return persistence.ErrNotFound
	}
	if !booking.StartAt.Before(booking.EndAt) {
		return persistence.ErrConstraintViolation
	}

	booking.CreatedAt = existing.CreatedAt
	s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

// ListBookingsForRoom returns a room's bookings ordered by start.
func (s *Store) ListBookingsForRoom(ctx context.Context, roomID string) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]persistence.Booking, 0)
	for _, booking := range s.bookings {
		if booking.RoomID != roomID {
			continue
		}
		bookings = append(bookings, cloneBooking(booking))
	}
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].StartAt.Equal(bookings[j].StartAt) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].StartAt.Before(bookings[j].StartAt)
	})
	return bookings, nil
}

// ListActiveOverlapping answers the scheduler's overlap query using the same
// half-open semantics as the SQL predicate.
func (s *Store) ListActiveOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]scheduler.Booking, 0)
	for _, booking := range s.bookings {
		if booking.RoomID != roomID || booking.Status != persistence.BookingStatusActive {
			continue
		}
		active = append(active, scheduler.Booking{
			ID:     booking.ID,
			RoomID: booking.RoomID,
			Start:  booking.StartAt,
			End:    booking.EndAt,
		})
	}

	candidate := scheduler.Booking{ID: excludeID, RoomID: roomID, Start: start, End: end}
	conflicts := scheduler.FindConflicts(active, candidate)

	result := make([]persistence.Booking, 0, len(conflicts))
	for _, conflict := range conflicts {
		result = append(result, cloneBooking(s.bookings[conflict.ID]))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartAt.Equal(result[j].StartAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartAt.Before(result[j].StartAt)
	})
	return result, nil
}

func cloneBooking(booking persistence.Booking) persistence.Booking {
	if booking.CanceledAt != nil {
		canceledAt := *booking.CanceledAt
		booking.CanceledAt = &canceledAt
	}
	return booking
}
