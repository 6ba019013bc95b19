package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/victorstella/desafio-mailerweb-ino/internal/application"
	"github.com/victorstella/desafio-mailerweb-ino/internal/config"
	httptransport "github.com/victorstella/desafio-mailerweb-ino/internal/http"
	"github.com/victorstella/desafio-mailerweb-ino/internal/persistence"
	"github.com/victorstella/desafio-mailerweb-ino/internal/persistence/sqlite"
	"github.com/victorstella/desafio-mailerweb-ino/internal/scheduler"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	verifier, err := application.NewTokenVerifier(cfg.APIToken, cfg.APITokenHash)
	if err != nil {
		logger.Error("failed to configure API token", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	roomRepo := newRoomRepositoryAdapter(sqlite.NewRoomRepository(pool))
	bookingRepo := newBookingRepositoryAdapter(sqlite.NewBookingRepository(pool))

	roomService := application.NewRoomServiceWithLogger(roomRepo, idGenerator, now, logger)
	bookingService := application.NewBookingServiceWithLogger(roomRepo, bookingRepo, scheduler.NewRoomLocker(), idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:     httptransport.NewRoomHandler(roomService, logger),
		Bookings:  httptransport.NewBookingHandler(bookingService, logger),
		Authorize: httptransport.RequireToken(verifier, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("rooms API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// roomRepositoryAdapter converts between persistence and application room
// models. It also serves as the booking service's room catalog.
type roomRepositoryAdapter struct {
	repo *sqlite.RoomRepository
}

func newRoomRepositoryAdapter(repo *sqlite.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

type bookingRepositoryAdapter struct {
	repo *sqlite.BookingRepository
}

func newBookingRepositoryAdapter(repo *sqlite.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) InsertBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.InsertBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	stored, err := a.repo.GetBooking(ctx, booking.RoomID, booking.ID)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, roomID, id string) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, roomID, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) UpdateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.UpdateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	stored, err := a.repo.GetBooking(ctx, booking.RoomID, booking.ID)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) ListBookingsForRoom(ctx context.Context, roomID string) ([]application.Booking, error) {
	models, err := a.repo.ListBookingsForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return toApplicationBookings(models), nil
}

func (a *bookingRepositoryAdapter) ListActiveOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]application.Booking, error) {
	models, err := a.repo.ListActiveOverlapping(ctx, roomID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	return toApplicationBookings(models), nil
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
		CanceledAt: booking.CanceledAt,
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
		CanceledAt: model.CanceledAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toApplicationBookings(models []persistence.Booking) []application.Booking {
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings
}
