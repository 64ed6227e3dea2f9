package booking

import (
	"testing"
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint before", day(2026, 3, 1), day(2026, 3, 4), day(2026, 3, 10), day(2026, 3, 12), false},
		{"disjoint after", day(2026, 3, 10), day(2026, 3, 12), day(2026, 3, 1), day(2026, 3, 4), false},
		{"identical", day(2026, 3, 1), day(2026, 3, 4), day(2026, 3, 1), day(2026, 3, 4), true},
		{"contained", day(2026, 3, 2), day(2026, 3, 3), day(2026, 3, 1), day(2026, 3, 4), true},
		{"containing", day(2026, 3, 1), day(2026, 3, 10), day(2026, 3, 3), day(2026, 3, 5), true},
		{"partial left", day(2026, 3, 1), day(2026, 3, 3), day(2026, 3, 2), day(2026, 3, 5), true},
		{"partial right", day(2026, 3, 4), day(2026, 3, 8), day(2026, 3, 2), day(2026, 3, 5), true},
		// Half-open semantics: a pickup on another rental's return day is fine.
		{"back to back after", day(2026, 3, 4), day(2026, 3, 6), day(2026, 3, 1), day(2026, 3, 4), false},
		{"back to back before", day(2026, 3, 1), day(2026, 3, 4), day(2026, 3, 4), day(2026, 3, 6), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasConflict(t *testing.T) {
	reservations := []model.Reservation{
		{VehicleID: 1, Status: model.StatusConfirmed, StartDate: day(2026, 5, 10), EndDate: day(2026, 5, 14)},
		{VehicleID: 1, Status: model.StatusPending, StartDate: day(2026, 5, 1), EndDate: day(2026, 5, 30)},
		{VehicleID: 1, Status: model.StatusCancelled, StartDate: day(2026, 5, 1), EndDate: day(2026, 5, 30)},
		{VehicleID: 2, Status: model.StatusConfirmed, StartDate: day(2026, 5, 1), EndDate: day(2026, 5, 30)},
	}

	if !HasConflict(reservations, 1, day(2026, 5, 12), day(2026, 5, 16)) {
		t.Error("expected conflict with the confirmed reservation")
	}
	if HasConflict(reservations, 1, day(2026, 5, 14), day(2026, 5, 18)) {
		t.Error("pickup on the return day must not conflict")
	}
	if HasConflict(reservations, 1, day(2026, 5, 2), day(2026, 5, 8)) {
		t.Error("pending and cancelled reservations must not block")
	}
	if HasConflict(reservations, 3, day(2026, 5, 10), day(2026, 5, 14)) {
		t.Error("another vehicle's reservations must not block")
	}
}
