package model

import "github.com/shopspring/decimal"

// PoolDepth is the current native-unit depth of a pool. It is not bucketed by time.
type PoolDepth struct {
	Asset     string          `json:"asset"`
	RuneDepth decimal.Decimal `json:"rune_depth"`
}
