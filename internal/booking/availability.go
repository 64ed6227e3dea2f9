// Package booking contains the reservation domain logic: date-range
// availability checks, rental price calculation, the multi-step booking
// flow and the cancellation guard.  Everything in this package is plain Go
// with injected dependencies so it can be exercised without a database or
// an HTTP server.
package booking

import (
	"context"
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect.  Back-to-back ranges do not overlap: a pickup
// scheduled exactly on another reservation's return day is allowed.
// Degenerate or inverted ranges never overlap anything; callers are
// expected to validate ordering beforehand.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// HasConflict scans a reservation list for a confirmed reservation of the
// given vehicle whose range overlaps [start, end).  Reservations in other
// states (pending, finalized, cancelled) never block availability.
func HasConflict(reservations []model.Reservation, vehicleID uint64, start, end time.Time) bool {
	for _, r := range reservations {
		if r.VehicleID != vehicleID {
			continue
		}
		if !r.Status.Blocks() {
			continue
		}
		if Overlaps(start, end, r.StartDate, r.EndDate) {
			return true
		}
	}
	return false
}

// AvailabilityChecker answers whether a vehicle is free for a candidate
// date range.  The SQL repository implements it against live data; tests
// and the cached Session implement it in memory.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, vehicleID uint64, start, end time.Time) (bool, error)
}

// CheckerFunc adapts a plain function to the AvailabilityChecker interface.
type CheckerFunc func(ctx context.Context, vehicleID uint64, start, end time.Time) (bool, error)

// IsAvailable calls f.
func (f CheckerFunc) IsAvailable(ctx context.Context, vehicleID uint64, start, end time.Time) (bool, error) {
	return f(ctx, vehicleID, start, end)
}
