package backfill

import (
	"fmt"
	"time"

	"revenueScope/internal/attribution"
)

// SplitDays returns the UTC day starts from from to to, both inclusive.
func SplitDays(from, to time.Time) ([]time.Time, error) {
	start := attribution.StartOfDay(from)
	end := attribution.StartOfDay(to)
	if end.Before(start) {
		return nil, fmt.Errorf("to day must be >= from day")
	}

	days := make([]time.Time, 0, int(end.Sub(start)/(24*time.Hour))+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days, nil
}
