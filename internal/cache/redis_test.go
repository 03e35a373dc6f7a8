package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revenueScope/internal/model"
)

var day = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func setupTestCache(t *testing.T, ttl time.Duration) (*MetricsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New("redis://"+mr.Addr(), "", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func sampleMetrics() model.ChainMetrics {
	return model.ChainMetrics{
		Chain:                  "BTC",
		DailyFees:              decimal.RequireFromString("20.123456789012345678"),
		DailyUserFees:          decimal.RequireFromString("20.123456789012345678"),
		DailyRevenue:           decimal.RequireFromString("24.9999975"),
		DailyProtocolRevenue:   decimal.RequireFromString("-0.0000025"),
		DailyHoldersRevenue:    decimal.RequireFromString("25"),
		DailySupplySideRevenue: decimal.RequireFromString("35"),
		Timestamp:              day,
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "revenue:BTC:2024-05-01", Key("btc", day))

	// Same UTC day regardless of the caller's zone.
	east := time.FixedZone("east", 9*3600)
	assert.Equal(t, "revenue:ETH:2024-05-01", Key("ETH", time.Date(2024, 5, 1, 8, 0, 0, 0, east)))
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not-a-redis-url", "", time.Minute)
	require.Error(t, err)
}

func TestSetGetRoundTrip(t *testing.T) {
	c, mr := setupTestCache(t, time.Hour)
	ctx := context.Background()
	want := sampleMetrics()

	require.NoError(t, c.Set(ctx, want))
	assert.True(t, mr.Exists("revenue:BTC:2024-05-01"))

	got, ok, err := c.Get(ctx, "BTC", day.Add(13*time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "BTC", got.Chain)
	assert.True(t, got.Timestamp.Equal(day))
	assert.True(t, got.DailyFees.Equal(want.DailyFees), "fees %s", got.DailyFees)
	assert.True(t, got.DailyProtocolRevenue.Equal(want.DailyProtocolRevenue))
	assert.True(t, got.DailyProtocolRevenue.IsNegative())
	assert.True(t, got.DailyRevenue.Equal(want.DailyRevenue))
	assert.True(t, got.DailySupplySideRevenue.Equal(want.DailySupplySideRevenue))
}

func TestGetMiss(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)

	_, ok, err := c.Get(context.Background(), "ETH", day)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetCorruptEntry(t *testing.T) {
	c, mr := setupTestCache(t, time.Hour)
	require.NoError(t, mr.Set("revenue:BTC:2024-05-01", "{not json"))

	_, ok, err := c.Get(context.Background(), "BTC", day)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	c, mr := setupTestCache(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, sampleMetrics()))

	assert.Equal(t, time.Hour, mr.TTL("revenue:BTC:2024-05-01"))

	mr.FastForward(59 * time.Minute)
	_, ok, err := c.Get(ctx, "BTC", day)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "BTC", day)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestZeroTTLKeepsEntries(t *testing.T) {
	c, mr := setupTestCache(t, 0)
	require.NoError(t, c.Set(context.Background(), sampleMetrics()))

	assert.Zero(t, mr.TTL("revenue:BTC:2024-05-01"))
	mr.FastForward(365 * 24 * time.Hour)
	assert.True(t, mr.Exists("revenue:BTC:2024-05-01"))
}
