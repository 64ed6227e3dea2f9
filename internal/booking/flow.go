package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

// Step identifies a stage of the booking flow.
type Step int

const (
	StepDates         Step = iota // collect dates, locations and add-ons
	StepDetails                   // collect renter details
	StepConfirmation              // read-only summary, ready to submit
)

// String returns a human-readable step name for logging.
func (s Step) String() string {
	switch s {
	case StepDates:
		return "dates"
	case StepDetails:
		return "details"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// ErrNotReady is returned by Submit when the flow has not reached the
// confirmation step yet.
var ErrNotReady = errors.New("booking flow has not reached confirmation")

// Form holds everything the booking flow collects across its steps.
// Dates are day-granularity; the flow normalizes them to UTC midnight
// before validating or pricing.
type Form struct {
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string
	Addons          []model.Addon

	FirstName        string
	LastName         string
	Email            string
	Phone            string
	DriverLicense    string
	EmergencyContact string
	SpecialRequests  string
}

// CreateRequest is the payload Submit hands to the ReservationCreator.
type CreateRequest struct {
	VehicleID uint64
	Form      Form
	Quote     Quote
}

// Created describes the reservation returned by the backend after a
// successful submission.
type Created struct {
	ID               uint64
	ConfirmationCode string
}

// ReservationCreator persists a finished booking.  The HTTP client and the
// SQL repository both implement it; tests use a stub.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, req CreateRequest) (Created, error)
}

// Flow drives the three-step booking form: Dates -> Details ->
// Confirmation.  Next validates the current step and only advances when it
// is clean; Prev always succeeds and discards nothing.  The availability
// checker is re-invoked every time the dates step is validated, and the
// creator is only called from Submit on the confirmation step.
//
// A Flow is not safe for concurrent use; it models a single user's form.
type Flow struct {
	vehicleID       uint64
	dailyPriceCents int64
	checker         AvailabilityChecker
	creator         ReservationCreator
	now             func() time.Time

	step Step
	form Form
	errs map[string]string
}

// NewFlow constructs a booking flow for one vehicle.  checker and creator
// must be non-nil.
func NewFlow(vehicleID uint64, dailyPriceCents int64, checker AvailabilityChecker, creator ReservationCreator) *Flow {
	if checker == nil || creator == nil {
		panic("nil dependency passed to NewFlow")
	}
	return &Flow{
		vehicleID:       vehicleID,
		dailyPriceCents: dailyPriceCents,
		checker:         checker,
		creator:         creator,
		now:             func() time.Time { return time.Now().UTC() },
		step:            StepDates,
		errs:            map[string]string{},
	}
}

// Step returns the current step.
func (f *Flow) Step() Step { return f.step }

// Form returns a copy of the collected data.
func (f *Flow) Form() Form { return f.form }

// SetForm replaces the collected data without changing the current step.
// Dates are normalized to UTC midnight on the way in.
func (f *Flow) SetForm(form Form) {
	if !form.StartDate.IsZero() {
		form.StartDate = NormalizeDay(form.StartDate)
	}
	if !form.EndDate.IsZero() {
		form.EndDate = NormalizeDay(form.EndDate)
	}
	f.form = form
}

// Errors returns the field-level messages produced by the last Next or
// Submit call, keyed by field name.  The map is empty after a successful
// transition.
func (f *Flow) Errors() map[string]string { return f.errs }

// Quote prices the current form.  It is only meaningful once the dates
// step has validated.
func (f *Flow) Quote() Quote {
	return CalculateTotalPrice(f.dailyPriceCents, f.form.StartDate, f.form.EndDate, f.form.Addons)
}

// Next validates the current step and advances on success, reporting
// whether the step changed.  Validation failure leaves the step unchanged
// and records messages retrievable via Errors.  On the dates step the
// availability checker is consulted after the field checks pass.
func (f *Flow) Next(ctx context.Context) bool {
	switch f.step {
	case StepDates:
		f.errs = f.validateDates()
		if len(f.errs) > 0 {
			return false
		}
		ok, err := f.checker.IsAvailable(ctx, f.vehicleID, f.form.StartDate, f.form.EndDate)
		if err != nil {
			f.errs = map[string]string{"general": "could not verify availability, try again"}
			return false
		}
		if !ok {
			f.errs = map[string]string{"dates": "vehicle is not available for the selected dates"}
			return false
		}
		f.step = StepDetails
		return true
	case StepDetails:
		f.errs = f.validateDetails()
		if len(f.errs) > 0 {
			return false
		}
		f.step = StepConfirmation
		return true
	}
	// Confirmation is the last step; Submit is the only way forward.
	f.errs = map[string]string{}
	return false
}

// Prev moves back one step.  It always succeeds and never discards form
// data; the earliest step is a no-op.
func (f *Flow) Prev() {
	if f.step > StepDates {
		f.step--
	}
	f.errs = map[string]string{}
}

// Submit sends the completed booking to the backend.  It may only be
// called from the confirmation step.  On failure the flow stays on the
// confirmation step with a general error message so the user can retry;
// there is no automatic retry.
func (f *Flow) Submit(ctx context.Context) (Created, error) {
	if f.step != StepConfirmation {
		return Created{}, ErrNotReady
	}
	created, err := f.creator.CreateReservation(ctx, CreateRequest{
		VehicleID: f.vehicleID,
		Form:      f.form,
		Quote:     f.Quote(),
	})
	if err != nil {
		f.errs = map[string]string{"general": err.Error()}
		return Created{}, err
	}
	f.errs = map[string]string{}
	return created, nil
}

func (f *Flow) validateDates() map[string]string {
	errs := map[string]string{}
	today := NormalizeDay(f.now())
	if f.form.StartDate.IsZero() {
		errs["startDate"] = "start date is required"
	} else if f.form.StartDate.Before(today) {
		errs["startDate"] = "start date cannot be in the past"
	}
	if f.form.EndDate.IsZero() {
		errs["endDate"] = "end date is required"
	} else if !f.form.StartDate.IsZero() && !f.form.EndDate.After(f.form.StartDate) {
		errs["endDate"] = "end date must be after start date"
	}
	if strings.TrimSpace(f.form.PickupLocation) == "" {
		errs["pickupLocation"] = "pickup location is required"
	}
	if strings.TrimSpace(f.form.DropoffLocation) == "" {
		errs["dropoffLocation"] = "dropoff location is required"
	}
	return errs
}

func (f *Flow) validateDetails() map[string]string {
	errs := map[string]string{}
	required := map[string]string{
		"firstName":        f.form.FirstName,
		"lastName":         f.form.LastName,
		"email":            f.form.Email,
		"phone":            f.form.Phone,
		"driverLicense":    f.form.DriverLicense,
		"emergencyContact": f.form.EmergencyContact,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			errs[field] = field + " is required"
		}
	}
	if email := strings.TrimSpace(f.form.Email); email != "" {
		if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
			errs["email"] = "email is invalid"
		}
	}
	return errs
}
