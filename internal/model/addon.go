package model

// Addon is an optional additional service attached to a reservation, such
// as GPS, a child seat or full insurance.  Its price is charged per rental
// day: each selected add-on contributes DailyPriceCents × days to the
// reservation total.
type Addon struct {
	ID              uint64
	Name            string
	Description     string
	DailyPriceCents int64
	Active          bool
}
