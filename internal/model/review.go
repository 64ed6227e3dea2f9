package model

import "time"

// Review is a customer's rating of a vehicle after a finalized rental.
// At most one review exists per reservation; the repository enforces that
// only the renter of a finalized reservation may leave one.
type Review struct {
	ID            uint64
	ReservationID uint64
	VehicleID     uint64
	UserID        uint64
	Rating        int // 1..5
	Comment       string
	CreatedAt     time.Time
}
