package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestChainMetricsJSONStringAmounts(t *testing.T) {
	metrics := ChainMetrics{
		Chain:                  "BTC",
		DailyFees:              decimal.RequireFromString("12.5"),
		DailyUserFees:          decimal.RequireFromString("12.5"),
		DailyRevenue:           decimal.RequireFromString("-0.25"),
		DailyProtocolRevenue:   decimal.RequireFromString("-1.25"),
		DailyHoldersRevenue:    decimal.RequireFromString("1"),
		DailySupplySideRevenue: decimal.RequireFromString("20.125"),
		Timestamp:              time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(metrics)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, "12.5", decoded["dailyFees"])
	require.Equal(t, "-1.25", decoded["dailyProtocolRevenue"])
	require.Equal(t, float64(1714521600), decoded["timestamp"])

	var back ChainMetrics
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.DailySupplySideRevenue.Equal(metrics.DailySupplySideRevenue))
	require.True(t, back.Timestamp.Equal(metrics.Timestamp))
}
