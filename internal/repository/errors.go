// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrDateConflict signals that a vehicle is already
// reserved for an overlapping date range.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a vehicle that still has reservations. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDateConflict is returned by the reservation repository when a
// confirmed reservation already occupies an overlapping date range
// for the requested vehicle. Handlers should translate this into
// an HTTP 409 response with an availability message.
var ErrDateConflict = errors.New("vehicle already reserved for these dates")

// ErrVehicleNotFound is returned when a vehicle lookup by ID finds
// no row.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrCategoryNotFound is returned when a category lookup by ID
// finds no row.
var ErrCategoryNotFound = errors.New("category not found")

// ErrAddonNotFound is returned when one of the requested additional
// services does not exist or is inactive.
var ErrAddonNotFound = errors.New("additional service not found")

// ErrFeatureNotFound is returned when a vehicle characteristic lookup
// by ID finds no row.
var ErrFeatureNotFound = errors.New("feature not found")
