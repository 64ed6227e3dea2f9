package booking

import (
	"context"
	"testing"
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

// fakeStore is an in-memory Store implementation for session tests.
type fakeStore struct {
	rows    []model.Reservation
	nextID  uint64
	lastCan uint64
}

func (s *fakeStore) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, r model.Reservation, _ []uint64) (model.Reservation, error) {
	s.nextID++
	r.ID = s.nextID
	s.rows = append(s.rows, r)
	return r, nil
}

func (s *fakeStore) Cancel(_ context.Context, id, userID uint64) error {
	for i, r := range s.rows {
		if r.ID == id && r.UserID == userID {
			s.rows[i].Status = model.StatusCancelled
			s.lastCan = id
			return nil
		}
	}
	return ErrCancelWindow
}

func TestSessionRefreshAndAvailability(t *testing.T) {
	store := &fakeStore{rows: []model.Reservation{
		{ID: 1, UserID: 5, VehicleID: 3, Status: model.StatusConfirmed,
			StartDate: day(2026, 8, 10), EndDate: day(2026, 8, 13)},
	}}
	sess := NewSession(store, 5)
	ctx := context.Background()
	if err := sess.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	ok, err := sess.IsAvailable(ctx, 3, day(2026, 8, 11), day(2026, 8, 12))
	if err != nil {
		t.Fatalf("IsAvailable: %v", err)
	}
	if ok {
		t.Error("overlapping range reported available")
	}

	ok, _ = sess.IsAvailable(ctx, 3, day(2026, 8, 20), day(2026, 8, 22))
	if !ok {
		t.Error("disjoint range reported unavailable")
	}
	// The return day is free for the next pickup.
	ok, _ = sess.IsAvailable(ctx, 3, day(2026, 8, 13), day(2026, 8, 15))
	if !ok {
		t.Error("back-to-back range reported unavailable")
	}
}

func TestSessionCreateRefreshesCache(t *testing.T) {
	store := &fakeStore{}
	sess := NewSession(store, 5)
	ctx := context.Background()

	created, err := sess.CreateReservation(ctx, model.Reservation{
		VehicleID: 3, Status: model.StatusConfirmed,
		StartDate: day(2026, 8, 10), EndDate: day(2026, 8, 13),
	}, nil)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created reservation has no ID")
	}
	if created.UserID != 5 {
		t.Errorf("UserID = %d, want the session's user 5", created.UserID)
	}

	// The cache saw the new reservation without an explicit Refresh.
	ok, _ := sess.IsAvailable(ctx, 3, day(2026, 8, 11), day(2026, 8, 12))
	if ok {
		t.Error("cache did not pick up the new reservation")
	}
	if _, found := sess.Get(created.ID); !found {
		t.Error("Get did not find the new reservation")
	}
}

func TestSessionCancelGuard(t *testing.T) {
	start := time.Now().UTC().Add(12 * time.Hour)
	store := &fakeStore{rows: []model.Reservation{
		{ID: 1, UserID: 5, VehicleID: 3, Status: model.StatusConfirmed,
			StartDate: start, EndDate: start.Add(72 * time.Hour)},
	}}
	sess := NewSession(store, 5)
	ctx := context.Background()
	if err := sess.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Inside the 24-hour window the guard fires before the store is hit.
	err := sess.CancelReservation(ctx, 1, time.Now().UTC())
	if err != ErrCancelWindow {
		t.Fatalf("CancelReservation = %v, want ErrCancelWindow", err)
	}
	if store.lastCan != 0 {
		t.Error("store.Cancel was called despite the window guard")
	}
}

func TestSessionCancelHappyPath(t *testing.T) {
	start := time.Now().UTC().Add(96 * time.Hour)
	store := &fakeStore{rows: []model.Reservation{
		{ID: 1, UserID: 5, VehicleID: 3, Status: model.StatusConfirmed,
			StartDate: start, EndDate: start.Add(48 * time.Hour)},
	}}
	sess := NewSession(store, 5)
	ctx := context.Background()
	if err := sess.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := sess.CancelReservation(ctx, 1, time.Now().UTC()); err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	r, found := sess.Get(1)
	if !found {
		t.Fatal("reservation missing after cancel")
	}
	if r.Status != model.StatusCancelled {
		t.Errorf("Status = %s, want CANCELADA", r.Status)
	}
}

func TestSessionActiveAndHistory(t *testing.T) {
	now := day(2026, 8, 15)
	store := &fakeStore{rows: []model.Reservation{
		{ID: 1, UserID: 5, VehicleID: 1, Status: model.StatusConfirmed,
			StartDate: day(2026, 8, 20), EndDate: day(2026, 8, 22), CreatedAt: day(2026, 8, 1)},
		{ID: 2, UserID: 5, VehicleID: 2, Status: model.StatusFinalized,
			StartDate: day(2026, 8, 1), EndDate: day(2026, 8, 3), CreatedAt: day(2026, 7, 20)},
		{ID: 3, UserID: 5, VehicleID: 3, Status: model.StatusConfirmed,
			StartDate: day(2026, 8, 1), EndDate: day(2026, 8, 3), CreatedAt: day(2026, 7, 25)},
	}}
	sess := NewSession(store, 5)
	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	active := sess.Active(now)
	if len(active) != 1 || active[0].ID != 1 {
		t.Errorf("Active = %+v, want only the upcoming confirmed reservation", active)
	}

	history := sess.History()
	if len(history) != 3 {
		t.Fatalf("History returned %d entries, want 3", len(history))
	}
	if history[0].ID != 1 || history[1].ID != 3 || history[2].ID != 2 {
		t.Errorf("History order = %d,%d,%d, want newest first", history[0].ID, history[1].ID, history[2].ID)
	}
}
