package booking

import (
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

// CancelCutoff is the minimum time that must remain before the rental
// start for a confirmed reservation to be cancellable.
const CancelCutoff = 24 * time.Hour

// CanCancel reports whether a reservation may be cancelled at the given
// moment.  Confirmed reservations are cancellable while more than 24 hours
// remain before pickup; pending reservations are cancellable any time
// before pickup since they do not block the vehicle.  Finalized and
// already-cancelled reservations are never cancellable.
func CanCancel(r model.Reservation, now time.Time) bool {
	switch r.Status {
	case model.StatusConfirmed:
		return r.StartDate.Sub(now) > CancelCutoff
	case model.StatusPending:
		return r.StartDate.After(now)
	default:
		return false
	}
}
