package scheduler

import "time"

// Booking is the minimal view of a reservation used for conflict detection.
type Booking struct {
	ID     string
	RoomID string
	Start  time.Time
	End    time.Time
}

// Overlaps reports whether the half-open intervals [start1, end1) and
// [start2, end2) intersect. Touching endpoints (end1 == start2) do not count
// as an overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// FindConflicts returns the bookings whose window overlaps the candidate's on
// the same room. The candidate itself is skipped by ID, so rescheduling a
// booking to a window that only intersects its current one reports no
// conflict.
func FindConflicts(existing []Booking, candidate Booking) []Booking {
	var conflicts []Booking
	for _, booking := range existing {
		if booking.ID == candidate.ID {
			continue
		}
		if booking.RoomID != candidate.RoomID {
			continue
		}
		if Overlaps(booking.Start, booking.End, candidate.Start, candidate.End) {
			conflicts = append(conflicts, booking)
		}
	}
	return conflicts
}
