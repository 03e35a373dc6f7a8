package midgard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"revenueScope/internal/model"
)

type earningsResponse struct {
	Intervals []earningsInterval `json:"intervals"`
}

type earningsInterval struct {
	StartTime       string        `json:"startTime"`
	EndTime         string        `json:"endTime"`
	BondingEarnings string        `json:"bondingEarnings"`
	RunePriceUSD    string        `json:"runePriceUSD"`
	Pools           []poolEarning `json:"pools"`
}

type poolEarning struct {
	Pool                   string `json:"pool"`
	AssetLiquidityFees     string `json:"assetLiquidityFees"`
	Earnings               string `json:"earnings"`
	Rewards                string `json:"rewards"`
	RuneLiquidityFees      string `json:"runeLiquidityFees"`
	SaverEarning           string `json:"saverEarning"`
	TotalLiquidityFeesRune string `json:"totalLiquidityFeesRune"`
}

type reserveResponse struct {
	Intervals []reserveInterval `json:"intervals"`
}

type reserveInterval struct {
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	GasFeeOutbound   string `json:"gasFeeOutbound"`
	GasReimbursement string `json:"gasReimbursement"`
}

type poolDetail struct {
	Asset     string `json:"asset"`
	RuneDepth string `json:"runeDepth"`
}

func (r earningsResponse) toModel() ([]model.EarningsInterval, error) {
	out := make([]model.EarningsInterval, 0, len(r.Intervals))
	for i, raw := range r.Intervals {
		start, end, err := parseBounds(raw.StartTime, raw.EndTime)
		if err != nil {
			return nil, fmt.Errorf("earnings interval %d: %w", i, err)
		}
		bonding, err := parseDecimal(raw.BondingEarnings)
		if err != nil {
			return nil, fmt.Errorf("earnings interval %d bondingEarnings: %w", i, err)
		}
		price, err := parseDecimal(raw.RunePriceUSD)
		if err != nil {
			return nil, fmt.Errorf("earnings interval %d runePriceUSD: %w", i, err)
		}

		pools := make([]model.PoolEarning, 0, len(raw.Pools))
		for _, p := range raw.Pools {
			pool, err := p.toModel()
			if err != nil {
				return nil, fmt.Errorf("earnings interval %d pool %s: %w", i, p.Pool, err)
			}
			pools = append(pools, pool)
		}

		out = append(out, model.EarningsInterval{
			StartTime:       start,
			EndTime:         end,
			BondingEarnings: bonding,
			RunePriceUSD:    price,
			Pools:           pools,
		})
	}
	return out, nil
}

func (p poolEarning) toModel() (model.PoolEarning, error) {
	out := model.PoolEarning{Pool: p.Pool}
	var err error
	parse := func(name, raw string, dst *decimal.Decimal) {
		if err != nil {
			return
		}
		var val decimal.Decimal
		if val, err = parseDecimal(raw); err != nil {
			err = fmt.Errorf("%s: %w", name, err)
			return
		}
		*dst = val
	}

	parse("totalLiquidityFeesRune", p.TotalLiquidityFeesRune, &out.TotalLiquidityFeesRune)
	parse("saverEarning", p.SaverEarning, &out.SaverEarning)
	parse("rewards", p.Rewards, &out.Rewards)
	parse("earnings", p.Earnings, &out.Earnings)
	parse("assetLiquidityFees", p.AssetLiquidityFees, &out.AssetLiquidityFees)
	parse("runeLiquidityFees", p.RuneLiquidityFees, &out.RuneLiquidityFees)
	if err != nil {
		return model.PoolEarning{}, err
	}
	return out, nil
}

func (r reserveResponse) toModel() ([]model.ReserveInterval, error) {
	out := make([]model.ReserveInterval, 0, len(r.Intervals))
	for i, raw := range r.Intervals {
		start, end, err := parseBounds(raw.StartTime, raw.EndTime)
		if err != nil {
			return nil, fmt.Errorf("reserve interval %d: %w", i, err)
		}
		outbound, err := parseDecimal(raw.GasFeeOutbound)
		if err != nil {
			return nil, fmt.Errorf("reserve interval %d gasFeeOutbound: %w", i, err)
		}
		reimbursement, err := parseDecimal(raw.GasReimbursement)
		if err != nil {
			return nil, fmt.Errorf("reserve interval %d gasReimbursement: %w", i, err)
		}
		out = append(out, model.ReserveInterval{
			StartTime:        start,
			EndTime:          end,
			GasFeeOutbound:   outbound,
			GasReimbursement: reimbursement,
		})
	}
	return out, nil
}

func poolsToModel(pools []poolDetail) ([]model.PoolDepth, error) {
	out := make([]model.PoolDepth, 0, len(pools))
	for _, p := range pools {
		depth, err := parseDecimal(p.RuneDepth)
		if err != nil {
			return nil, fmt.Errorf("pool %s runeDepth: %w", p.Asset, err)
		}
		out = append(out, model.PoolDepth{Asset: p.Asset, RuneDepth: depth})
	}
	return out, nil
}

func parseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func parseBounds(start, end string) (time.Time, time.Time, error) {
	startTime, err := parseUnix(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("startTime: %w", err)
	}
	endTime, err := parseUnix(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("endTime: %w", err)
	}
	return startTime, endTime, nil
}

func parseUnix(value string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0).UTC(), nil
}
