package scheduler

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	cases := []struct {
		name                           string
		start1, end1, start2, end2     time.Time
		want                           bool
	}{
		{"disjoint before", at(0), at(30), at(60), at(90), false},
		{"disjoint after", at(60), at(90), at(0), at(30), false},
		{"touching end to start", at(0), at(60), at(60), at(120), false},
		{"touching start to end", at(60), at(120), at(0), at(60), false},
		{"partial overlap", at(0), at(60), at(30), at(90), true},
		{"contained", at(0), at(120), at(30), at(60), true},
		{"containing", at(30), at(60), at(0), at(120), true},
		{"identical", at(0), at(60), at(0), at(60), true},
		{"one minute overlap", at(0), at(60), at(59), at(120), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.start1, tc.end1, tc.start2, tc.end2); got != tc.want {
				t.Fatalf("Overlaps(%v, %v, %v, %v) = %v, want %v", tc.start1, tc.end1, tc.start2, tc.end2, got, tc.want)
			}
		})
	}
}

func TestFindConflicts(t *testing.T) {
	start := mustTime(t, "2025-03-10T10:00:00Z")
	end := mustTime(t, "2025-03-10T11:00:00Z")

	existing := []Booking{
		{ID: "a", RoomID: "room-1", Start: start, End: end},
		{ID: "b", RoomID: "room-1", Start: end, End: end.Add(time.Hour)},
		{ID: "c", RoomID: "room-2", Start: start, End: end},
	}

	t.Run("reports overlapping booking on same room", func(t *testing.T) {
		candidate := Booking{ID: "new", RoomID: "room-1", Start: start.Add(30 * time.Minute), End: end.Add(30 * time.Minute)}
		conflicts := FindConflicts(existing, candidate)
		if len(conflicts) != 1 || conflicts[0].ID != "a" {
			t.Fatalf("expected conflict with booking a, got %+v", conflicts)
		}
	})

	t.Run("ignores other rooms", func(t *testing.T) {
		candidate := Booking{ID: "new", RoomID: "room-3", Start: start, End: end}
		if conflicts := FindConflicts(existing, candidate); len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %+v", conflicts)
		}
	})

	t.Run("excludes the candidate itself", func(t *testing.T) {
		candidate := Booking{ID: "a", RoomID: "room-1", Start: start.Add(15 * time.Minute), End: end.Add(15 * time.Minute)}
		conflicts := FindConflicts(existing, candidate)
		for _, conflict := range conflicts {
			if conflict.ID == "a" {
				t.Fatalf("candidate conflicted with itself: %+v", conflicts)
			}
		}
		if len(conflicts) != 1 || conflicts[0].ID != "b" {
			t.Fatalf("expected conflict with booking b only, got %+v", conflicts)
		}
	})

	t.Run("touching windows do not conflict", func(t *testing.T) {
		candidate := Booking{ID: "new", RoomID: "room-1", Start: end.Add(time.Hour), End: end.Add(2 * time.Hour)}
		if conflicts := FindConflicts(existing, candidate); len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %+v", conflicts)
		}
	})
}
