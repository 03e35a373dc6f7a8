package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bucket struct {
	id         int
	start, end time.Time
}

func (b bucket) Bounds() (time.Time, time.Time) {
	return b.start, b.end
}

func dailyBuckets(first time.Time, n int) []bucket {
	out := make([]bucket, 0, n)
	for i := 0; i < n; i++ {
		start := first.AddDate(0, 0, i)
		out = append(out, bucket{id: i, start: start, end: start.AddDate(0, 0, 1)})
	}
	return out
}

func TestFindContaining(t *testing.T) {
	first := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	buckets := dailyBuckets(first, 3)

	got, ok := Find(first.AddDate(0, 0, 1), buckets)
	require.True(t, ok)
	assert.Equal(t, 1, got.id)

	got, ok = Find(first.Add(23*time.Hour), buckets)
	require.True(t, ok)
	assert.Equal(t, 0, got.id)
}

func TestFindHalfOpenBoundary(t *testing.T) {
	first := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	buckets := dailyBuckets(first, 2)

	got, ok := Find(buckets[0].end, buckets)
	require.True(t, ok)
	assert.Equal(t, 1, got.id)
}

func TestFindOutsideSeries(t *testing.T) {
	first := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	buckets := dailyBuckets(first, 3)

	_, ok := Find(first.Add(-time.Second), buckets)
	assert.False(t, ok)

	_, ok = Find(buckets[2].end, buckets)
	assert.False(t, ok)

	_, ok = Find[bucket](first, nil)
	assert.False(t, ok)
}

func TestFindFirstMatchWins(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	overlapping := []bucket{
		{id: 7, start: start, end: start.Add(48 * time.Hour)},
		{id: 8, start: start.Add(24 * time.Hour), end: start.Add(48 * time.Hour)},
	}

	got, ok := Find(start.Add(30*time.Hour), overlapping)
	require.True(t, ok)
	assert.Equal(t, 7, got.id)
}
