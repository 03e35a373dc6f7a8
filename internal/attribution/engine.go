package attribution

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revenueScope/internal/asset"
	"revenueScope/internal/interval"
	"revenueScope/internal/model"
)

const (
	// nativeDecimals is the exponent between native units and display units (1e8).
	nativeDecimals  = 8
	weightPrecision = 32
)

// Engine attributes network-level earnings to individual chains.
type Engine struct {
	chains ChainTable
	logger *zap.Logger
}

func NewEngine(chains ChainTable, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{chains: chains, logger: logger}
}

// Chains returns the table the engine was built with.
func (e *Engine) Chains() ChainTable {
	return e.chains
}

// Compute returns the metrics of chain for the UTC day containing day.
//
// Fees count liquidity and saver fees only; outbound chain fees are not included.
// Bonding rewards and reserve revenue are protocol-level figures, so they are spread
// across chains by each chain's share of current pool depth.
func (e *Engine) Compute(chain string, day time.Time, data model.Dataset) (model.ChainMetrics, error) {
	if !e.chains.Has(chain) {
		return model.ChainMetrics{}, fmt.Errorf("%w: %s", ErrUnknownChain, chain)
	}

	startOfDay := StartOfDay(day)

	earnings, ok := interval.Find(startOfDay, data.Earnings)
	if !ok {
		return model.ChainMetrics{}, fmt.Errorf("%w: no earnings interval for %s", ErrDataUnavailable, startOfDay.Format(time.DateOnly))
	}
	reserve, ok := interval.Find(startOfDay, data.Reserve)
	if !ok {
		return model.ChainMetrics{}, fmt.Errorf("%w: no reserve interval for %s", ErrDataUnavailable, startOfDay.Format(time.DateOnly))
	}

	pools, skipped := poolsOfChain(chain, earnings.Pools)
	if skipped > 0 {
		e.logger.Debug("skip unparseable pools", zap.String("chain", chain), zap.Int("skipped", skipped))
	}

	weight := Weight(chain, data.Depths)
	protocolRevenue := reserve.GasFeeOutbound.Sub(reserve.GasReimbursement)

	bondingForChain := earnings.BondingEarnings.Mul(weight)
	protocolForChain := protocolRevenue.Mul(weight)

	price := earnings.RunePriceUSD
	fees := decimal.Zero
	supplySide := decimal.Zero
	for _, pool := range pools {
		liquidityFees := toUSD(pool.TotalLiquidityFeesRune, price)
		saverFees := toUSD(pool.SaverEarning, price)
		rewards := toUSD(pool.Rewards, price)

		fees = fees.Add(liquidityFees).Add(saverFees)
		supplySide = supplySide.Add(liquidityFees).Add(saverFees).Add(rewards)
	}

	protocolUSD := toUSD(protocolForChain, price)
	holdersUSD := toUSD(bondingForChain, price)

	e.logger.Debug("chain metrics",
		zap.String("chain", chain),
		zap.Time("day", startOfDay),
		zap.Int("pools", len(pools)),
		zap.String("weight", weight.String()),
	)

	return model.ChainMetrics{
		Chain:                  chain,
		DailyFees:              fees,
		DailyUserFees:          fees,
		DailyRevenue:           holdersUSD.Add(protocolUSD),
		DailyProtocolRevenue:   protocolUSD,
		DailyHoldersRevenue:    holdersUSD,
		DailySupplySideRevenue: supplySide,
		Timestamp:              startOfDay,
	}, nil
}

// ComputeAll computes every chain of the table. A failing chain does not stop the others;
// their errors are joined.
func (e *Engine) ComputeAll(day time.Time, data model.Dataset) ([]model.ChainMetrics, error) {
	codes := e.chains.Codes()
	out := make([]model.ChainMetrics, 0, len(codes))
	var errs []error
	for _, code := range codes {
		metrics, err := e.Compute(code, day, data)
		if err != nil {
			errs = append(errs, fmt.Errorf("chain %s: %w", code, err))
			continue
		}
		out = append(out, metrics)
	}
	return out, errors.Join(errs...)
}

// Weight returns the share of total pool depth held by pools of chain.
// Every entry counts toward the total, including identifiers that do not parse;
// only the chain's own depth requires a parseable identifier.
// It is zero when the total depth is zero.
func Weight(chain string, depths []model.PoolDepth) decimal.Decimal {
	total := decimal.Zero
	chainDepth := decimal.Zero
	for _, depth := range depths {
		total = total.Add(depth.RuneDepth)
		if origin := asset.ChainOf(depth.Asset); origin != "" && origin == chain {
			chainDepth = chainDepth.Add(depth.RuneDepth)
		}
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return chainDepth.DivRound(total, weightPrecision)
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func poolsOfChain(chain string, pools []model.PoolEarning) ([]model.PoolEarning, int) {
	out := make([]model.PoolEarning, 0, len(pools))
	skipped := 0
	for _, pool := range pools {
		origin := asset.ChainOf(pool.Pool)
		if origin == "" {
			skipped++
			continue
		}
		if origin == chain {
			out = append(out, pool)
		}
	}
	return out, skipped
}

func toUSD(native decimal.Decimal, price decimal.Decimal) decimal.Decimal {
	return native.Shift(-nativeDecimals).Mul(price)
}
