package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ChainMetrics holds USD-denominated revenue metrics for one chain and one UTC day.
type ChainMetrics struct {
	Chain                  string
	DailyFees              decimal.Decimal
	DailyUserFees          decimal.Decimal
	DailyRevenue           decimal.Decimal
	DailyProtocolRevenue   decimal.Decimal
	DailyHoldersRevenue    decimal.Decimal
	DailySupplySideRevenue decimal.Decimal
	Timestamp              time.Time
}

type chainMetricsJSON struct {
	Chain                  string          `json:"chain"`
	DailyFees              decimal.Decimal `json:"dailyFees"`
	DailyUserFees          decimal.Decimal `json:"dailyUserFees"`
	DailyRevenue           decimal.Decimal `json:"dailyRevenue"`
	DailyProtocolRevenue   decimal.Decimal `json:"dailyProtocolRevenue"`
	DailyHoldersRevenue    decimal.Decimal `json:"dailyHoldersRevenue"`
	DailySupplySideRevenue decimal.Decimal `json:"dailySupplySideRevenue"`
	Timestamp              int64           `json:"timestamp"`
}

// MarshalJSON encodes amounts as decimal strings and the timestamp as unix seconds.
func (m ChainMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(chainMetricsJSON{
		Chain:                  m.Chain,
		DailyFees:              m.DailyFees,
		DailyUserFees:          m.DailyUserFees,
		DailyRevenue:           m.DailyRevenue,
		DailyProtocolRevenue:   m.DailyProtocolRevenue,
		DailyHoldersRevenue:    m.DailyHoldersRevenue,
		DailySupplySideRevenue: m.DailySupplySideRevenue,
		Timestamp:              m.Timestamp.Unix(),
	})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (m *ChainMetrics) UnmarshalJSON(data []byte) error {
	var raw chainMetricsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ChainMetrics{
		Chain:                  raw.Chain,
		DailyFees:              raw.DailyFees,
		DailyUserFees:          raw.DailyUserFees,
		DailyRevenue:           raw.DailyRevenue,
		DailyProtocolRevenue:   raw.DailyProtocolRevenue,
		DailyHoldersRevenue:    raw.DailyHoldersRevenue,
		DailySupplySideRevenue: raw.DailySupplySideRevenue,
		Timestamp:              time.Unix(raw.Timestamp, 0).UTC(),
	}
	return nil
}
