package model

import "time"

// Vehicle is a rentable product in the catalog.  Reservation logic treats
// it as an opaque key plus a daily price; the remaining fields exist for
// browsing and administration.
//
// Fields:
//
//	ID              – primary key identifier.
//	CategoryID      – category the vehicle belongs to.
//	Name            – display name, unique within the catalog.
//	Description     – free-form description shown on the detail page.
//	DailyPriceCents – rental price per day in cents.
//	ImageURL        – main catalog image, may be empty.
//	CreatedAt       – creation timestamp.
type Vehicle struct {
	ID              uint64
	CategoryID      uint64
	Name            string
	Description     string
	DailyPriceCents int64
	ImageURL        string
	CreatedAt       time.Time
}

// Category groups vehicles for browsing (e.g. sedans, SUVs, vans).
type Category struct {
	ID          uint64
	Name        string
	Description string
	ImageURL    string
}

// Feature is a reusable vehicle characteristic (air conditioning, GPS,
// transmission type) maintained by admins and shown on product cards.
type Feature struct {
	ID          uint64
	Name        string
	Description string
	IconURL     string
}

// VehicleFeature is a feature attached to a concrete vehicle, optionally
// carrying a vehicle-specific value ("Automática" for a transmission
// feature, "5" for a seat count).
type VehicleFeature struct {
	Feature
	Value string
}
