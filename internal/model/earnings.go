package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolEarning is one pool's earnings inside a day bucket. Amounts are in native units (1e8).
type PoolEarning struct {
	Pool                   string          `json:"pool"`
	TotalLiquidityFeesRune decimal.Decimal `json:"total_liquidity_fees_rune"`
	SaverEarning           decimal.Decimal `json:"saver_earning"`
	Rewards                decimal.Decimal `json:"rewards"`
	Earnings               decimal.Decimal `json:"earnings"`
	AssetLiquidityFees     decimal.Decimal `json:"asset_liquidity_fees"`
	RuneLiquidityFees      decimal.Decimal `json:"rune_liquidity_fees"`
}

// EarningsInterval is one day bucket of the earnings history, covering [StartTime, EndTime).
type EarningsInterval struct {
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	BondingEarnings decimal.Decimal `json:"bonding_earnings"`
	RunePriceUSD    decimal.Decimal `json:"rune_price_usd"`
	Pools           []PoolEarning   `json:"pools"`
}

// Bounds returns the half-open time range of the bucket.
func (e EarningsInterval) Bounds() (time.Time, time.Time) {
	return e.StartTime, e.EndTime
}
