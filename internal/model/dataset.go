package model

// Dataset bundles the three series fetched for one time window.
type Dataset struct {
	Earnings []EarningsInterval
	Reserve  []ReserveInterval
	Depths   []PoolDepth
}
