package model

import (
	"fmt"
	"strings"
	"time"
)

// Status enumerates the lifecycle states of a reservation.  The backend
// persists the canonical Spanish uppercase vocabulary (PENDIENTE,
// CONFIRMADA, FINALIZADA, CANCELADA) while older clients still send the
// English lowercase form ("confirmed").  ParseStatus is the single place
// where both vocabularies are mapped onto this type; nothing else in the
// codebase compares raw status strings.
type Status string

const (
	StatusPending   Status = "PENDIENTE"  // created, waiting for confirmation
	StatusConfirmed Status = "CONFIRMADA" // approved, waiting for pickup
	StatusFinalized Status = "FINALIZADA" // vehicle returned, rental complete
	StatusCancelled Status = "CANCELADA"  // cancelled before pickup
)

// statusAliases maps every accepted wire spelling to its canonical value.
var statusAliases = map[string]Status{
	"PENDIENTE":  StatusPending,
	"PENDING":    StatusPending,
	"CONFIRMADA": StatusConfirmed,
	"CONFIRMED":  StatusConfirmed,
	"FINALIZADA": StatusFinalized,
	"FINALIZED":  StatusFinalized,
	"COMPLETED":  StatusFinalized,
	"CANCELADA":  StatusCancelled,
	"CANCELLED":  StatusCancelled,
	"CANCELED":   StatusCancelled,
}

// ParseStatus normalizes a raw status string from the wire or the database
// into a Status.  Matching is case-insensitive and accepts both the Spanish
// and English vocabularies.  An empty string maps to StatusPending so that
// create requests may omit the field.
func ParseStatus(raw string) (Status, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return StatusPending, nil
	}
	if st, ok := statusAliases[s]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown reservation status %q", raw)
}

// String returns the canonical wire form.
func (s Status) String() string { return string(s) }

// Blocks reports whether a reservation in this status occupies the vehicle
// for availability purposes.  Only confirmed reservations block; pending,
// finalized and cancelled ones do not.
func (s Status) Blocks() bool { return s == StatusConfirmed }

// Reservation records a user's rental of a vehicle for a date range.
// StartDate and EndDate are day-granularity values normalized to UTC
// midnight.  The range is half-open: the vehicle is occupied from the
// morning of StartDate until the morning of EndDate, so a pickup on
// another reservation's return day does not conflict.
//
// Fields:
//
//	ID               – primary key identifier.
//	UserID           – renter who made the reservation.
//	VehicleID        – vehicle being rented.
//	StartDate        – first rental day (inclusive).
//	EndDate          – return day (exclusive).
//	Status           – lifecycle state, see Status.
//	TotalPriceCents  – total charged for the rental, base plus add-ons.
//	ConfirmationCode – short code shown to the customer.
//	CreatedAt        – creation timestamp.
type Reservation struct {
	ID               uint64
	UserID           uint64
	VehicleID        uint64
	StartDate        time.Time
	EndDate          time.Time
	Status           Status
	TotalPriceCents  int64
	ConfirmationCode string
	CreatedAt        time.Time
}

// Days returns the rental duration in whole days.  A non-positive value
// means the range is degenerate or inverted and the reservation is not
// priceable.
func (r Reservation) Days() int {
	return int(r.EndDate.Sub(r.StartDate) / (24 * time.Hour))
}
