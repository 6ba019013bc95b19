package testfixtures

import (
	"context"
	"time"

	"github.com/victorstella/desafio-mailerweb-ino/internal/application"
	"github.com/victorstella/desafio-mailerweb-ino/internal/persistence"
	"github.com/victorstella/desafio-mailerweb-ino/internal/scheduler"
)

// Services bundles fully wired application services backed by the in-memory
// store, with deterministic clock and identifier sequence.
type Services struct {
	Rooms    *application.RoomService
	Bookings *application.BookingService
	Store    *Store
	Clock    *Clock
	IDs      *IDGenerator
}

// NewServices wires room and booking services against a fresh Store.
func NewServices() *Services {
	store := NewStore()
	clock := NewClock(ReferenceTime())
	ids := NewIDGenerator("id")

	rooms := application.NewRoomService(&RoomRepositoryAdapter{Repo: store}, ids.NextFunc(), clock.NowFunc())
	bookings := application.NewBookingService(
		&RoomRepositoryAdapter{Repo: store},
		&BookingRepositoryAdapter{Repo: store},
		scheduler.NewRoomLocker(),
		ids.NextFunc(),
		clock.NowFunc(),
	)

	return &Services{Rooms: rooms, Bookings: bookings, Store: store, Clock: clock, IDs: ids}
}

// RoomRepositoryAdapter bridges a persistence room repository to the
// application service interface.
type RoomRepositoryAdapter struct {
	Repo persistence.RoomRepository
}

func (a *RoomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.Repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.Repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *RoomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.Repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *RoomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.Repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

// BookingRepositoryAdapter bridges a persistence booking repository to the
// application service interface.
type BookingRepositoryAdapter struct {
	Repo persistence.BookingRepository
}

func (a *BookingRepositoryAdapter) InsertBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.Repo.InsertBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	stored, err := a.Repo.GetBooking(ctx, booking.RoomID, booking.ID)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *BookingRepositoryAdapter) GetBooking(ctx context.Context, roomID, id string) (application.Booking, error) {
	stored, err := a.Repo.GetBooking(ctx, roomID, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *BookingRepositoryAdapter) UpdateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.Repo.UpdateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	stored, err := a.Repo.GetBooking(ctx, booking.RoomID, booking.ID)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *BookingRepositoryAdapter) ListBookingsForRoom(ctx context.Context, roomID string) ([]application.Booking, error) {
	models, err := a.Repo.ListBookingsForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings, nil
}

func (a *BookingRepositoryAdapter) ListActiveOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]application.Booking, error) {
	models, err := a.Repo.ListActiveOverlapping(ctx, roomID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings, nil
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt,
	}
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:        model.ID,
		Name:      model.Name,
		Capacity:  model.Capacity,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceBooking(booking application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:         booking.ID,
		RoomID:     booking.RoomID,
		Title:      booking.Title,
		StartAt:    booking.StartAt,
		EndAt:      booking.EndAt,
		Status:     string(booking.Status),
		CanceledAt: cloneTime(booking.CanceledAt),
		CreatedAt:  booking.CreatedAt,
		UpdatedAt:  booking.UpdatedAt,
	}
}

func toApplicationBooking(model persistence.Booking) application.Booking {
	return application.Booking{
		ID:         model.ID,
		RoomID:     model.RoomID,
		Title:      model.Title,
		StartAt:    model.StartAt,
		EndAt:      model.EndAt,
		Status:     application.BookingStatus(model.Status),
		CanceledAt: cloneTime(model.CanceledAt),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
