package booking

import (
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

// Quote breaks down the cost of a rental.  All amounts are in cents.
type Quote struct {
	Days               int   `json:"dias"`
	BasePriceCents     int64 `json:"precioBaseCents"`
	ServicesPriceCents int64 `json:"precioServiciosCents"`
	TotalPriceCents    int64 `json:"precioTotalCents"`
}

// NormalizeDay truncates a timestamp to UTC midnight.  Differencing
// normalized days avoids off-by-one errors around DST transitions when
// dates arrive as local timestamps.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayCount returns the rental duration in whole days between two dates,
// rounding any partial day up.  The result is zero or negative when end is
// not after start; it is not clamped, so callers must validate ordering
// before pricing.
func DayCount(start, end time.Time) int {
	d := NormalizeDay(end).Sub(NormalizeDay(start))
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// CalculateTotalPrice computes the cost of renting a vehicle with the given
// daily price for [start, end), plus the selected add-on services.  Add-ons
// are charged per rental day, matching how they are advertised ("+$X/día").
func CalculateTotalPrice(dailyPriceCents int64, start, end time.Time, addons []model.Addon) Quote {
	days := DayCount(start, end)
	base := dailyPriceCents * int64(days)
	var services int64
	for _, a := range addons {
		services += a.DailyPriceCents * int64(days)
	}
	return Quote{
		Days:               days,
		BasePriceCents:     base,
		ServicesPriceCents: services,
		TotalPriceCents:    base + services,
	}
}
