package booking

import (
	"testing"
	"time"

	"github.com/autorenta/rental-api/internal/model"
)

func TestDayCount(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"one day", day(2026, 4, 1), day(2026, 4, 2), 1},
		{"three days", day(2026, 4, 1), day(2026, 4, 4), 3},
		{"same day", day(2026, 4, 1), day(2026, 4, 1), 0},
		{"partial day rounds up", time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC), time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC), 1},
	}
	for _, tc := range cases {
		if got := DayCount(tc.start, tc.end); got != tc.want {
			t.Errorf("%s: DayCount = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeDay(t *testing.T) {
	in := time.Date(2026, 4, 1, 18, 30, 12, 999, time.FixedZone("X", -5*3600))
	got := NormalizeDay(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Fatalf("NormalizeDay = %v, want UTC midnight", got)
	}
	if got.Day() != 1 || got.Month() != time.April {
		t.Fatalf("NormalizeDay moved the date: %v", got)
	}
}

func TestCalculateTotalPriceBaseOnly(t *testing.T) {
	// Three days at $50/day is $150.
	q := CalculateTotalPrice(5000, day(2026, 4, 1), day(2026, 4, 4), nil)
	if q.Days != 3 {
		t.Fatalf("Days = %d, want 3", q.Days)
	}
	if q.BasePriceCents != 15000 {
		t.Errorf("BasePriceCents = %d, want 15000", q.BasePriceCents)
	}
	if q.ServicesPriceCents != 0 {
		t.Errorf("ServicesPriceCents = %d, want 0", q.ServicesPriceCents)
	}
	if q.TotalPriceCents != 15000 {
		t.Errorf("TotalPriceCents = %d, want 15000", q.TotalPriceCents)
	}
}

func TestCalculateTotalPriceWithServices(t *testing.T) {
	addons := []model.Addon{
		{ID: 1, Name: "GPS", DailyPriceCents: 1000},
	}
	// One day at $50 plus one $10/day service is $60.
	q := CalculateTotalPrice(5000, day(2026, 4, 1), day(2026, 4, 2), addons)
	if q.Days != 1 {
		t.Fatalf("Days = %d, want 1", q.Days)
	}
	if q.ServicesPriceCents != 1000 {
		t.Errorf("ServicesPriceCents = %d, want 1000", q.ServicesPriceCents)
	}
	if q.TotalPriceCents != 6000 {
		t.Errorf("TotalPriceCents = %d, want 6000", q.TotalPriceCents)
	}

	// Services charge per day: over three days the same add-on triples.
	q = CalculateTotalPrice(5000, day(2026, 4, 1), day(2026, 4, 4), addons)
	if q.ServicesPriceCents != 3000 {
		t.Errorf("ServicesPriceCents over 3 days = %d, want 3000", q.ServicesPriceCents)
	}
	if q.TotalPriceCents != 18000 {
		t.Errorf("TotalPriceCents over 3 days = %d, want 18000", q.TotalPriceCents)
	}
}
