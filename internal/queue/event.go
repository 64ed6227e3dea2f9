// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a rental reservation reaches
// the confirmed state.  It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type ReservationConfirmedEvent struct {
	ReservationID    uint64   `json:"reservation_id"`
	ConfirmationCode string   `json:"confirmation_code"`
	UserID           uint64   `json:"user_id"`
	VehicleID        uint64   `json:"vehicle_id"`
	VehicleName      string   `json:"vehicle_name"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Services         []string `json:"services"`
	TotalCents       int64    `json:"total_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
