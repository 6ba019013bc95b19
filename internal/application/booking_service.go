package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/victorstella/desafio-mailerweb-ino/internal/persistence"
	"github.com/victorstella/desafio-mailerweb-ino/internal/scheduler"
)

// Booking window bounds enforced before any locking.
const (
	MinBookingDuration = 15 * time.Minute
	MaxBookingDuration = 540 * time.Minute

	maxBookingTitleLength = 120
)

// BookingRepository captures the persistence interactions needed by the
// service, including the overlap query that backs conflict detection.
type BookingRepository interface {
	InsertBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, roomID, id string) (Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) (Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string) ([]Booking, error)
	ListActiveOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]Booking, error)
}

// RoomCatalog exposes room resolution for booking operations.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (Room, error)
}

// BookingService executes create, reschedule and cancel operations with
// overlap checking serialized per room. For any two write operations on the
// same room, one fully completes before the other begins its overlap check;
// operations on different rooms proceed in parallel.
type BookingService struct {
	rooms       RoomCatalog
	bookings    BookingRepository
	locks       *scheduler.RoomLocker
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(rooms RoomCatalog, bookings BookingRepository, locks *scheduler.RoomLocker, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(rooms, bookings, locks, idGenerator, now, nil)
}

// NewBookingServiceWithLogger wires dependencies with a specified logger.
func NewBookingServiceWithLogger(rooms RoomCatalog, bookings BookingRepository, locks *scheduler.RoomLocker, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if locks == nil {
		locks = scheduler.NewRoomLocker()
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		rooms:       rooms,
		bookings:    bookings,
		locks:       locks,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking validates the window, then inserts the booking under the
// room's exclusive section when no active booking overlaps it.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (booking Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.rooms == nil || s.bookings == nil {
		err = fmt.Errorf("booking service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking", "room_id", params.RoomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "booking created")
	}()

	var room Room
	room, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	vErr := &ValidationError{}
	validateBookingTitle(params.Input.Title, vErr)
	start, end := validateBookingWindow(params.Input.StartAt, params.Input.EndAt, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	// Serialization point: no other create or reschedule on this room may run
	// its overlap check until this operation commits or aborts.
	release := s.locks.Acquire(room.ID)
	defer release()

	var conflicts []Booking
	conflicts, err = s.bookings.ListActiveOverlapping(ctx, room.ID, start, end, "")
	if err != nil {
		return
	}
	if len(conflicts) > 0 {
		err = ErrOverlap
		return
	}

	createdAt := s.now()
	candidate := Booking{
		ID:        s.idGenerator(),
		RoomID:    room.ID,
		Title:     strings.TrimSpace(params.Input.Title),
		StartAt:   start,
		EndAt:     end,
		Status:    BookingStatusActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	booking, err = s.bookings.InsertBooking(ctx, candidate)
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	return
}

// RescheduleBooking moves an existing booking to a new window. Fields not
// supplied retain their current value. Status and cancellation timestamp are
// left untouched, even when the booking was previously canceled.
func (s *BookingService) RescheduleBooking(ctx context.Context, params RescheduleBookingParams) (booking Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.rooms == nil || s.bookings == nil {
		err = fmt.Errorf("booking service not configured")
		return
	}

	logger := s.loggerWith(ctx, "RescheduleBooking", "room_id", params.RoomID, "booking_id", params.BookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to reschedule booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking rescheduled")
	}()

	var room Room
	room, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	var existing Booking
	existing, err = s.bookings.GetBooking(ctx, room.ID, params.BookingID)
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	start, end := mergeWindow(existing, params.StartAt, params.EndAt)
	vErr := &ValidationError{}
	checkWindow(start, end, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	release := s.locks.Acquire(room.ID)
	defer release()

	// Re-read under the room section so a cancel or reschedule committed
	// since the first read cannot be overwritten by this update.
	existing, err = s.bookings.GetBooking(ctx, room.ID, params.BookingID)
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}
	// The merge result can change when only one endpoint was supplied and a
	// concurrent reschedule moved the other, so the window is validated again.
	start, end = mergeWindow(existing, params.StartAt, params.EndAt)
	vErr = &ValidationError{}
	checkWindow(start, end, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var conflicts []Booking
	conflicts, err = s.bookings.ListActiveOverlapping(ctx, room.ID, start, end, existing.ID)
	if err != nil {
		return
	}
	if len(conflicts) > 0 {
		err = ErrOverlap
		return
	}

	updated := existing
	updated.StartAt = start
	updated.EndAt = end
	updated.UpdatedAt = s.now()

	booking, err = s.bookings.UpdateBooking(ctx, updated)
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	return
}

// CancelBooking marks a booking canceled. Canceling an already canceled
// booking is idempotent: the booking is returned unchanged, with its original
// cancellation timestamp.
func (s *BookingService) CancelBooking(ctx context.Context, roomID, bookingID string) (booking Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.rooms == nil || s.bookings == nil {
		err = fmt.Errorf("booking service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CancelBooking", "room_id", roomID, "booking_id", bookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking canceled")
	}()

	var room Room
	room, err = s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	// Cancellation cannot introduce an overlap, but it shares the room
	// section so it is atomic with respect to concurrent reschedules of the
	// same booking.
	release := s.locks.Acquire(room.ID)
	defer release()

	var existing Booking
	existing, err = s.bookings.GetBooking(ctx, room.ID, bookingID)
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	if existing.Status == BookingStatusCanceled {
		booking = existing
		return
	}

	canceledAt := s.now()
	updated := existing
	updated.Status = BookingStatusCanceled
	updated.CanceledAt = &canceledAt
	updated.UpdatedAt = canceledAt

	booking, err = s.bookings.UpdateBooking(ctx, updated)
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	return
}

// ListBookings returns a room's bookings ordered by start. Readers do not
// take the room section; they may observe a slightly stale snapshot.
func (s *BookingService) ListBookings(ctx context.Context, roomID string) (bookings []Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.rooms == nil || s.bookings == nil {
		err = fmt.Errorf("booking service not configured")
		return
	}

	logger := s.loggerWith(ctx, "ListBookings", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list bookings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(bookings)).InfoContext(ctx, "bookings listed")
	}()

	var room Room
	room, err = s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	var raw []Booking
	raw, err = s.bookings.ListBookingsForRoom(ctx, room.ID)
	if err != nil {
		return
	}

	bookings = make([]Booking, len(raw))
	copy(bookings, raw)

	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].StartAt.Equal(bookings[j].StartAt) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].StartAt.Before(bookings[j].StartAt)
	})

	return
}

func validateBookingTitle(title string, vErr *ValidationError) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		vErr.add("title", "title is required")
		return
	}
	if len([]rune(trimmed)) > maxBookingTitleLength {
		vErr.add("title", "title must be at most 120 characters")
	}
}

// validateBookingWindow enforces presence before delegating to checkWindow.
func validateBookingWindow(start, end *time.Time, vErr *ValidationError) (time.Time, time.Time) {
	if start == nil || end == nil {
		vErr.add("time", "start and end are required")
		return time.Time{}, time.Time{}
	}
	checkWindow(*start, *end, vErr)
	return *start, *end
}

// checkWindow validates ordering and duration bounds for an effective window.
func checkWindow(start, end time.Time, vErr *ValidationError) {
	if start.IsZero() || end.IsZero() {
		vErr.add("time", "start and end are required")
		return
	}
	if !start.Before(end) {
		vErr.add("time", "start must be before end")
		return
	}
	duration := end.Sub(start)
	if duration < MinBookingDuration {
		vErr.add("duration", "duration must be at least 15 minutes")
	}
	if duration > MaxBookingDuration {
		vErr.add("duration", "duration must be at most 8 hours")
	}
}

func mergeWindow(booking Booking, start, end *time.Time) (time.Time, time.Time) {
	effectiveStart := booking.StartAt
	effectiveEnd := booking.EndAt
	if start != nil {
		effectiveStart = *start
	}
	if end != nil {
		effectiveEnd = *end
	}
	return effectiveStart, effectiveEnd
}

func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrBookingNotFound
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrRoomNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	}
	return err
}
