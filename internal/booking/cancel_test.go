package booking

import (
	"testing"
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

func TestCanCancelConfirmed(t *testing.T) {
	start := day(2026, 6, 10)
	r := model.Reservation{Status: model.StatusConfirmed, StartDate: start}

	if !CanCancel(r, start.Add(-48*time.Hour)) {
		t.Error("confirmed reservation 48h before pickup should be cancellable")
	}
	if CanCancel(r, start.Add(-12*time.Hour)) {
		t.Error("confirmed reservation 12h before pickup should not be cancellable")
	}
	// Exactly at the cutoff is too late.
	if CanCancel(r, start.Add(-CancelCutoff)) {
		t.Error("confirmed reservation exactly 24h before pickup should not be cancellable")
	}
	if CanCancel(r, start.Add(time.Hour)) {
		t.Error("confirmed reservation after pickup should not be cancellable")
	}
}

func TestCanCancelPending(t *testing.T) {
	start := day(2026, 6, 10)
	r := model.Reservation{Status: model.StatusPending, StartDate: start}

	// Pending holds do not block the vehicle, so they stay cancellable
	// right up to the start day.
	if !CanCancel(r, start.Add(-time.Hour)) {
		t.Error("pending reservation before pickup should be cancellable")
	}
	if CanCancel(r, start) {
		t.Error("pending reservation at pickup time should not be cancellable")
	}
}

func TestCanCancelTerminalStates(t *testing.T) {
	start := day(2026, 6, 10)
	now := start.Add(-72 * time.Hour)
	for _, st := range []model.Status{model.StatusFinalized, model.StatusCancelled} {
		r := model.Reservation{Status: st, StartDate: start}
		if CanCancel(r, now) {
			t.Errorf("%s reservation should never be cancellable", st)
		}
	}
}
