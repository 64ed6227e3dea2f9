package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

// ErrCancelWindow is returned when a cancellation is requested too close
// to the rental start.
var ErrCancelWindow = errors.New("reservation can no longer be cancelled")

// Store is the backend surface a Session synchronizes against.  The SQL
// repository implements it directly; a remote HTTP client could as well.
type Store interface {
	// ListByUser returns all reservations belonging to a user.
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	// Create persists a new reservation with the given add-on IDs and
	// returns the stored row including its generated ID and code.
	Create(ctx context.Context, r model.Reservation, addonIDs []uint64) (model.Reservation, error)
	// Cancel marks a reservation cancelled, enforcing ownership.
	Cancel(ctx context.Context, id, userID uint64) error
}

// Session holds one authenticated user's reservation list for the lifetime
// of their visit.  It is a read-mostly cache refreshed from the store
// after every mutation.  Unlike the ambient-global pattern it replaces,
// a Session is constructed explicitly, passed by reference and guarded by
// a mutex so that a refresh racing a create cannot interleave writes to
// the cached slice.
type Session struct {
	store  Store
	userID uint64

	mu   sync.Mutex
	list []model.Reservation
}

// NewSession constructs a session for one user.  The cache starts empty;
// call Refresh to populate it.
func NewSession(store Store, userID uint64) *Session {
	if store == nil {
		panic("nil store passed to NewSession")
	}
	return &Session{store: store, userID: userID}
}

// Refresh reloads the cached reservation list from the store.
func (s *Session) Refresh(ctx context.Context) error {
	list, err := s.store.ListByUser(ctx, s.userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	return nil
}

// Clear drops the cached list.  Called on logout.
func (s *Session) Clear() {
	s.mu.Lock()
	s.list = nil
	s.mu.Unlock()
}

// Reservations returns a copy of the cached list.
func (s *Session) Reservations() []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, len(s.list))
	copy(out, s.list)
	return out
}

// Get looks up a cached reservation by ID.
func (s *Session) Get(id uint64) (model.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.list {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reservation{}, false
}

// Active returns the cached reservations that are confirmed and have not
// yet ended.
func (s *Session) Active(now time.Time) []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.list {
		if r.Status == model.StatusConfirmed && !r.EndDate.Before(now) {
			out = append(out, r)
		}
	}
	return out
}

// History returns all cached reservations ordered newest first.
func (s *Session) History() []model.Reservation {
	out := s.Reservations()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// IsAvailable answers an availability query against the cached list.  It
// never touches the store, so the answer is only as fresh as the last
// Refresh; the repository re-checks inside a transaction at create time.
func (s *Session) IsAvailable(_ context.Context, vehicleID uint64, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !HasConflict(s.list, vehicleID, start, end), nil
}

// CreateReservation persists a reservation through the store and refreshes
// the cache so subsequent availability queries see it.
func (s *Session) CreateReservation(ctx context.Context, r model.Reservation, addonIDs []uint64) (model.Reservation, error) {
	r.UserID = s.userID
	created, err := s.store.Create(ctx, r, addonIDs)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := s.Refresh(ctx); err != nil {
		// The reservation exists; a stale cache is tolerable until the
		// next refresh succeeds.
		return created, nil
	}
	return created, nil
}

// CancelReservation applies the client-side cancellation guard, then
// cancels through the store and refreshes the cache.
func (s *Session) CancelReservation(ctx context.Context, id uint64, now time.Time) error {
	r, ok := s.Get(id)
	if ok && !CanCancel(r, now) {
		return ErrCancelWindow
	}
	if err := s.store.Cancel(ctx, id, s.userID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}
