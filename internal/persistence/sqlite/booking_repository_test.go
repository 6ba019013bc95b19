package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/victorstella/desafio-mailerweb-ino/internal/persistence"
)

var bookingBase = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testBooking(id, roomID string, startOffset, duration time.Duration) persistence.Booking {
	start := bookingBase.Add(startOffset)
	return persistence.Booking{
		ID:        id,
		RoomID:    roomID,
		Title:     "Meeting " + id,
		StartAt:   start,
		EndAt:     start.Add(duration),
		Status:    persistence.BookingStatusActive,
		CreatedAt: bookingBase,
		UpdatedAt: bookingBase,
	}
}

func setupBookingRepositoryTest(t *testing.T) (*BookingRepository, *RoomRepository) {
	t.Helper()

	pool := setupTestPool(t)
	rooms := NewRoomRepository(pool)
	if err := rooms.CreateRoom(context.Background(), testRoom("room1", "Sala Azul")); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	return NewBookingRepository(pool), rooms
}

func TestBookingRepository_InsertAndGet(t *testing.T) {
	repo, _ := setupBookingRepositoryTest(t)
	ctx := context.Background()

	booking := testBooking("booking1", "room1", time.Hour, time.Hour)
	if err := repo.InsertBooking(ctx, booking); err != nil {
		t.Fatalf("InsertBooking failed: %v", err)
	}

	retrieved, err := repo.GetBooking(ctx, "room1", "booking1")
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if !retrieved.StartAt.Equal(booking.StartAt) || !retrieved.EndAt.Equal(booking.EndAt) {
		t.Errorf("unexpected window [%v, %v)", retrieved.StartAt, retrieved.EndAt)
	}
	if retrieved.Status != persistence.BookingStatusActive {
		t.Errorf("expected active status, got %q", retrieved.Status)
	}
	if retrieved.CanceledAt != nil {
		t.Errorf("expected nil canceled_at, got %v", retrieved.CanceledAt)
	}
}

func TestBookingRepository_InsertBooking_UnknownRoom(t *testing.T) {
	repo, _ := setupBookingRepositoryTest(t)

	err := repo.InsertBooking(context.Background(), testBooking("booking1", "ghost", time.Hour, time.Hour))
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestBookingRepository_InsertBooking_InvertedWindow(t *testing.T) {
	repo, _ := setupBookingRepositoryTest(t)

	booking := testBooking("booking1", "room1", time.Hour, time.Hour)
	booking.StartAt, booking.EndAt = booking.EndAt, booking.StartAt

	err := repo.InsertBooking(context.Background(), booking)
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestBookingRepository_GetBooking_ScopedToRoom(t *testing.T) {
	repo, rooms := setupBookingRepositoryTest(t)
	ctx := context.Background()

	if err := rooms.CreateRoom(ctx, testRoom("room2", "Sala Verde")); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if err := repo.InsertBooking(ctx, testBooking("booking1", "room1", time.Hour, time.Hour)); err != nil {
		t.Fatalf("InsertBooking failed: %v", err)
	}

	_, err := repo.GetBooking(ctx, "room2", "booking1")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong room, got %v", err)
	}
}

func TestBookingRepository_UpdateBooking(t *testing.T) {
	repo, _ := setupBookingRepositoryTest(t)
	ctx := context.Background()

	booking := testBooking("booking1", "room1", time.Hour, time.Hour)
	if err := repo.InsertBooking(ctx, booking); err != nil {
		t.Fatalf("InsertBooking failed: %v", err)
	}

	canceledAt := bookingBase.Add(2 * time.Hour)
	booking.Status = persistence.BookingStatusCanceled
	booking.CanceledAt = &canceledAt
	booking.UpdatedAt = canceledAt

	if err := repo.UpdateBooking(ctx, booking); err != nil {
		t.Fatalf("UpdateBooking failed: %v", err)
	}

	retrieved, err := repo.GetBooking(ctx, "room1", "booking1")
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if retrieved.Status != persistence.BookingStatusCanceled {
		t.Errorf("expected canceled status, got %q", retrieved.Status)
	}
	if retrieved.CanceledAt == nil || !retrieved.CanceledAt.Equal(canceledAt) {
		t.Errorf("expected canceled_at %v, got %v", canceledAt, retrieved.CanceledAt)
	}
}

func TestBookingRepository_UpdateBooking_NotFound(t *testing.T) {
	repo, _ := setupBookingRepositoryTest(t)

	err := repo.UpdateBooking(context.Background(), testBooking("ghost", "room1", time.Hour, time.Hour))
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingRepository_ListBookingsForRoom(t *testing.T) {
	repo, _ := setupBookingRepositoryTest(t)
	ctx := context.Background()

	for _, booking := range []persistence.Booking{
		testBooking("booking2", "room1", 5*time.Hour, time.Hour),
		testBooking("booking1", "room1", time.Hour, time.Hour),
	} {
		if err := repo.InsertBooking(ctx, booking); err != nil {
			t.Fatalf("InsertBooking failed: %v", err)
		}
	}

	bookings, err := repo.ListBookingsForRoom(ctx, "room1")
	if err != nil {
		t.Fatalf("ListBookingsForRoom failed: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].ID != "booking1" || bookings[1].ID != "booking2" {
		t.Errorf("unexpected order: [%s, %s]", bookings[0].ID, bookings[1].ID)
	}
}

func TestBookingRepository_ListActiveOverlapping(t *testing.T) {
	repo, rooms := setupBookingRepositoryTest(t)
	ctx := context.Background()

	if err := rooms.CreateRoom(ctx, testRoom("room2", "Sala Verde")); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	// room1: active 10:00-11:00, canceled 12:00-13:00. room2: active 10:00-11:00.
	active := testBooking("booking1", "room1", time.Hour, time.Hour)
	if err := repo.InsertBooking(ctx, active); err != nil {
		t.Fatalf("InsertBooking failed: %v", err)
	}
	canceled := testBooking("booking2", "room1", 3*time.Hour, time.Hour)
	canceled.Status = persistence.BookingStatusCanceled
	if err := repo.InsertBooking(ctx, canceled); err != nil {
		t.Fatalf("InsertBooking failed: %v", err)
	}
	if err := repo.InsertBooking(ctx, testBooking("booking3", "room2", time.Hour, time.Hour)); err != nil {
		t.Fatalf("InsertBooking failed: %v", err)
	}

	t.Run("detects a strict overlap", func(t *testing.T) {
		conflicts, err := repo.ListActiveOverlapping(ctx, "room1",
			bookingBase.Add(90*time.Minute), bookingBase.Add(150*time.Minute), "")
		if err != nil {
			t.Fatalf("ListActiveOverlapping failed: %v", err)
		}
		if len(conflicts) != 1 || conflicts[0].ID != "booking1" {
			t.Fatalf("expected booking1, got %v", conflicts)
		}
	})

	t.Run("ignores touching windows", func(t *testing.T) {
		conflicts, err := repo.ListActiveOverlapping(ctx, "room1",
			active.EndAt, active.EndAt.Add(time.Hour), "")
		if err != nil {
			t.Fatalf("ListActiveOverlapping failed: %v", err)
		}
		if len(conflicts) != 0 {
			t.Fatalf("expected no conflicts for touching window, got %v", conflicts)
		}
	})

	t.Run("ignores canceled bookings", func(t *testing.T) {
		conflicts, err := repo.ListActiveOverlapping(ctx, "room1",
			canceled.StartAt, canceled.EndAt, "")
		if err != nil {
			t.Fatalf("ListActiveOverlapping failed: %v", err)
		}
		if len(conflicts) != 0 {
			t.Fatalf("expected no conflicts with canceled booking, got %v", conflicts)
		}
	})

	t.Run("ignores other rooms", func(t *testing.T) {
		conflicts, err := repo.ListActiveOverlapping(ctx, "room2",
			bookingBase.Add(5*time.Hour), bookingBase.Add(6*time.Hour), "")
		if err != nil {
			t.Fatalf("ListActiveOverlapping failed: %v", err)
		}
		if len(conflicts) != 0 {
			t.Fatalf("expected no conflicts in room2, got %v", conflicts)
		}
	})

	t.Run("excludes the given booking", func(t *testing.T) {
		conflicts, err := repo.ListActiveOverlapping(ctx, "room1",
			active.StartAt, active.EndAt, "booking1")
		if err != nil {
			t.Fatalf("ListActiveOverlapping failed: %v", err)
		}
		if len(conflicts) != 0 {
			t.Fatalf("expected self-exclusion, got %v", conflicts)
		}
	})
}
