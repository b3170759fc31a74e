package daterange_test

import (
	"testing"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/daterange"
)

func TestDay(t *testing.T) {
	ts := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)
	r := daterange.Day(ts)

	if !r.Start.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start: %v", r.Start)
	}
	if !r.End.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end: %v", r.End)
	}
	if !r.Contains(ts) || r.Contains(r.End) {
		t.Error("half-open bounds broken")
	}
}

func TestMonth_December(t *testing.T) {
	r := daterange.Month(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	if !r.Start.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) || !r.End.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v - %v", r.Start, r.End)
	}
}

func TestYear(t *testing.T) {
	r := daterange.Year(2024, time.UTC)
	if r.End.Sub(r.Start) != 366*24*time.Hour {
		t.Errorf("2024 is a leap year, got %v", r.End.Sub(r.Start))
	}
}

func TestDayKey_UsesLocation(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*3600)
	ts := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	if got := daterange.DayKey(ts.In(dhaka)); got != "2024-01-02" {
		t.Errorf("got %q", got)
	}
}
