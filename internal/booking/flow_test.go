package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

// stubCreator records the request it receives and returns a canned result.
type stubCreator struct {
	req  CreateRequest
	out  Created
	err  error
	hits int
}

func (s *stubCreator) CreateReservation(_ context.Context, req CreateRequest) (Created, error) {
	s.hits++
	s.req = req
	if s.err != nil {
		return Created{}, s.err
	}
	return s.out, nil
}

func alwaysAvailable(context.Context, uint64, time.Time, time.Time) (bool, error) {
	return true, nil
}

func validForm() Form {
	return Form{
		StartDate:        day(2026, 7, 10),
		EndDate:          day(2026, 7, 13),
		PickupLocation:   "Aeropuerto",
		DropoffLocation:  "Centro",
		FirstName:        "Ana",
		LastName:         "Gomez",
		Email:            "ana@example.com",
		Phone:            "555-0100",
		DriverLicense:    "D1234567",
		EmergencyContact: "555-0111",
	}
}

func newTestFlow(checker CheckerFunc, creator ReservationCreator) *Flow {
	f := NewFlow(7, 8000, checker, creator)
	f.now = func() time.Time { return day(2026, 7, 1) }
	return f
}

func TestFlowHappyPath(t *testing.T) {
	creator := &stubCreator{out: Created{ID: 42, ConfirmationCode: "CR123456789"}}
	f := newTestFlow(alwaysAvailable, creator)
	f.SetForm(validForm())

	ctx := context.Background()
	if !f.Next(ctx) {
		t.Fatalf("dates step did not advance: %v", f.Errors())
	}
	if f.Step() != StepDetails {
		t.Fatalf("Step = %v, want details", f.Step())
	}
	if !f.Next(ctx) {
		t.Fatalf("details step did not advance: %v", f.Errors())
	}
	if f.Step() != StepConfirmation {
		t.Fatalf("Step = %v, want confirmation", f.Step())
	}

	created, err := f.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.ID != 42 || created.ConfirmationCode != "CR123456789" {
		t.Errorf("Submit returned %+v", created)
	}
	// Three days at $80/day.
	if creator.req.Quote.TotalPriceCents != 24000 {
		t.Errorf("submitted total = %d, want 24000", creator.req.Quote.TotalPriceCents)
	}
	if creator.req.VehicleID != 7 {
		t.Errorf("submitted vehicle = %d, want 7", creator.req.VehicleID)
	}
}

func TestFlowDateValidation(t *testing.T) {
	f := newTestFlow(alwaysAvailable, &stubCreator{})
	form := validForm()
	form.EndDate = form.StartDate // start >= end
	f.SetForm(form)

	if f.Next(context.Background()) {
		t.Fatal("flow advanced past invalid dates")
	}
	if f.Step() != StepDates {
		t.Errorf("Step = %v, want dates", f.Step())
	}
	if _, ok := f.Errors()["endDate"]; !ok {
		t.Errorf("expected endDate error, got %v", f.Errors())
	}
}

func TestFlowRejectsPastStart(t *testing.T) {
	f := newTestFlow(alwaysAvailable, &stubCreator{})
	form := validForm()
	form.StartDate = day(2026, 6, 20) // before the flow's notion of today
	f.SetForm(form)

	if f.Next(context.Background()) {
		t.Fatal("flow advanced with a past start date")
	}
	if _, ok := f.Errors()["startDate"]; !ok {
		t.Errorf("expected startDate error, got %v", f.Errors())
	}
}

func TestFlowUnavailableDates(t *testing.T) {
	notAvailable := CheckerFunc(func(context.Context, uint64, time.Time, time.Time) (bool, error) {
		return false, nil
	})
	f := newTestFlow(notAvailable, &stubCreator{})
	f.SetForm(validForm())

	if f.Next(context.Background()) {
		t.Fatal("flow advanced although the vehicle is taken")
	}
	if _, ok := f.Errors()["dates"]; !ok {
		t.Errorf("expected dates error, got %v", f.Errors())
	}
}

func TestFlowCheckerError(t *testing.T) {
	failing := CheckerFunc(func(context.Context, uint64, time.Time, time.Time) (bool, error) {
		return false, errors.New("backend down")
	})
	f := newTestFlow(failing, &stubCreator{})
	f.SetForm(validForm())

	if f.Next(context.Background()) {
		t.Fatal("flow advanced although the availability check failed")
	}
	if _, ok := f.Errors()["general"]; !ok {
		t.Errorf("expected general error, got %v", f.Errors())
	}
}

func TestFlowDetailsValidation(t *testing.T) {
	f := newTestFlow(alwaysAvailable, &stubCreator{})
	form := validForm()
	form.Email = "not-an-email"
	form.Phone = ""
	f.SetForm(form)

	ctx := context.Background()
	if !f.Next(ctx) {
		t.Fatalf("dates step did not advance: %v", f.Errors())
	}
	if f.Next(ctx) {
		t.Fatal("details step advanced with invalid fields")
	}
	errs := f.Errors()
	if _, ok := errs["email"]; !ok {
		t.Errorf("expected email error, got %v", errs)
	}
	if _, ok := errs["phone"]; !ok {
		t.Errorf("expected phone error, got %v", errs)
	}
}

func TestFlowPrevKeepsData(t *testing.T) {
	f := newTestFlow(alwaysAvailable, &stubCreator{})
	f.SetForm(validForm())

	ctx := context.Background()
	f.Next(ctx)
	f.Next(ctx)
	f.Prev()
	if f.Step() != StepDetails {
		t.Fatalf("Step after Prev = %v, want details", f.Step())
	}
	f.Prev()
	if f.Step() != StepDates {
		t.Fatalf("Step after second Prev = %v, want dates", f.Step())
	}
	// Going back never loses anything the user typed.
	if f.Form().Email != "ana@example.com" {
		t.Errorf("form data lost on Prev: %+v", f.Form())
	}
	// Prev on the first step is a no-op.
	f.Prev()
	if f.Step() != StepDates {
		t.Errorf("Step after Prev on first step = %v, want dates", f.Step())
	}
}

func TestFlowSubmitTooEarly(t *testing.T) {
	creator := &stubCreator{}
	f := newTestFlow(alwaysAvailable, creator)
	f.SetForm(validForm())

	if _, err := f.Submit(context.Background()); err != ErrNotReady {
		t.Fatalf("Submit before confirmation returned %v, want ErrNotReady", err)
	}
	if creator.hits != 0 {
		t.Error("creator was called before the confirmation step")
	}
}

// sessionCreator adapts a Session to the flow's ReservationCreator so a
// submitted booking lands in the session cache.
type sessionCreator struct {
	sess *Session
}

func (s sessionCreator) CreateReservation(ctx context.Context, req CreateRequest) (Created, error) {
	code, err := NewConfirmationCode()
	if err != nil {
		return Created{}, err
	}
	r, err := s.sess.CreateReservation(ctx, model.Reservation{
		VehicleID:        req.VehicleID,
		StartDate:        req.Form.StartDate,
		EndDate:          req.Form.EndDate,
		Status:           model.StatusConfirmed,
		TotalPriceCents:  req.Quote.TotalPriceCents,
		ConfirmationCode: code,
	}, nil)
	if err != nil {
		return Created{}, err
	}
	return Created{ID: r.ID, ConfirmationCode: r.ConfirmationCode}, nil
}

func TestEndToEndBooking(t *testing.T) {
	store := &fakeStore{}
	sess := NewSession(store, 5)
	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Three days on vehicle 5 at $80/day.
	f := NewFlow(5, 8000, sess, sessionCreator{sess})
	f.now = func() time.Time { return day(2026, 7, 1) }
	form := validForm()
	f.SetForm(form)

	ctx := context.Background()
	if !f.Next(ctx) || !f.Next(ctx) {
		t.Fatalf("flow did not reach confirmation: %v", f.Errors())
	}
	created, err := f.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.ConfirmationCode == "" {
		t.Error("created reservation has no confirmation code")
	}

	r, found := sess.Get(created.ID)
	if !found {
		t.Fatal("reservation not in session after submit")
	}
	if r.TotalPriceCents != 24000 {
		t.Errorf("total = %d cents, want 24000 ($240)", r.TotalPriceCents)
	}

	// Overlapping range on the same vehicle is now taken.
	ok, _ := sess.IsAvailable(ctx, 5, form.StartDate.Add(24*time.Hour), form.EndDate.Add(24*time.Hour))
	if ok {
		t.Error("overlapping range reported available after booking")
	}
	// A disjoint range stays free.
	ok, _ = sess.IsAvailable(ctx, 5, form.EndDate.Add(5*24*time.Hour), form.EndDate.Add(8*24*time.Hour))
	if !ok {
		t.Error("disjoint range reported unavailable after booking")
	}
}

func TestFlowSubmitFailureStays(t *testing.T) {
	creator := &stubCreator{err: errors.New("vehicle already reserved")}
	f := newTestFlow(alwaysAvailable, creator)
	f.SetForm(validForm())

	ctx := context.Background()
	f.Next(ctx)
	f.Next(ctx)
	if _, err := f.Submit(ctx); err == nil {
		t.Fatal("Submit should propagate the creator error")
	}
	// The user stays on the confirmation step and can retry manually.
	if f.Step() != StepConfirmation {
		t.Errorf("Step after failed Submit = %v, want confirmation", f.Step())
	}
	if _, ok := f.Errors()["general"]; !ok {
		t.Errorf("expected general error, got %v", f.Errors())
	}
	if creator.hits != 1 {
		t.Errorf("creator hits = %d, want 1 (no automatic retry)", creator.hits)
	}
}
