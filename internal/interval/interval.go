package interval

import "time"

// Bounded is a time bucket covering [start, end).
type Bounded interface {
	Bounds() (start time.Time, end time.Time)
}

// Find returns the first interval containing ts. It makes no assumption about ordering or gaps.
func Find[T Bounded](ts time.Time, intervals []T) (T, bool) {
	for _, candidate := range intervals {
		start, end := candidate.Bounds()
		if !ts.Before(start) && ts.Before(end) {
			return candidate, true
		}
	}
	var zero T
	return zero, false
}
