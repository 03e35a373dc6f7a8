package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReserveInterval is one day bucket of network-wide reserve flow, covering [StartTime, EndTime).
type ReserveInterval struct {
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	GasFeeOutbound   decimal.Decimal `json:"gas_fee_outbound"`
	GasReimbursement decimal.Decimal `json:"gas_reimbursement"`
}

// Bounds returns the half-open time range of the bucket.
func (r ReserveInterval) Bounds() (time.Time, time.Time) {
	return r.StartTime, r.EndTime
}
