package revenue

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revenueScope/internal/attribution"
	"revenueScope/internal/model"
	"revenueScope/internal/observability"
)

// Fetcher supplies the three datasets for a time window.
type Fetcher interface {
	FetchDataset(ctx context.Context, from, to time.Time) (model.Dataset, error)
}

// Service fetches a day's datasets and runs the attribution engine over them.
type Service struct {
	fetcher Fetcher
	engine  *attribution.Engine
	logger  *zap.Logger
}

func NewService(fetcher Fetcher, engine *attribution.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, engine: engine, logger: logger}
}

// Chains returns the chain table of the underlying engine.
func (s *Service) Chains() attribution.ChainTable {
	return s.engine.Chains()
}

// Chain computes metrics for one chain on the UTC day containing day.
func (s *Service) Chain(ctx context.Context, chain string, day time.Time) (model.ChainMetrics, error) {
	if !s.engine.Chains().Has(chain) {
		return model.ChainMetrics{}, fmt.Errorf("%w: %s", attribution.ErrUnknownChain, chain)
	}

	data, err := s.fetch(ctx, day)
	if err != nil {
		observability.ComputeTotal.WithLabelValues(chain, "unavailable").Inc()
		return model.ChainMetrics{}, err
	}

	metrics, err := s.engine.Compute(chain, day, data)
	if err != nil {
		observability.ComputeTotal.WithLabelValues(chain, "error").Inc()
		return model.ChainMetrics{}, err
	}
	record(metrics)
	return metrics, nil
}

// Day computes metrics for every chain on the UTC day containing day.
// Chains that fail are reported in the returned error; the others are still returned.
func (s *Service) Day(ctx context.Context, day time.Time) ([]model.ChainMetrics, error) {
	data, err := s.fetch(ctx, day)
	if err != nil {
		for _, chain := range s.engine.Chains().Codes() {
			observability.ComputeTotal.WithLabelValues(chain, "unavailable").Inc()
		}
		return nil, err
	}

	results, err := s.engine.ComputeAll(day, data)
	for _, metrics := range results {
		record(metrics)
	}
	if err != nil {
		s.logger.Warn("some chains failed", zap.Time("day", attribution.StartOfDay(day)), zap.Error(err))
	}
	return results, err
}

func (s *Service) fetch(ctx context.Context, day time.Time) (model.Dataset, error) {
	from, to := Window(day)
	data, err := s.fetcher.FetchDataset(ctx, from, to)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %w", attribution.ErrDataUnavailable, err)
	}
	return data, nil
}

// Window returns the UTC day window [start, start+24h) containing day.
func Window(day time.Time) (time.Time, time.Time) {
	start := attribution.StartOfDay(day)
	return start, start.Add(24 * time.Hour)
}

func record(m model.ChainMetrics) {
	observability.ComputeTotal.WithLabelValues(m.Chain, "ok").Inc()
	gauge := func(name string, value decimal.Decimal) {
		observability.ChainMetricUSD.WithLabelValues(m.Chain, name).Set(value.InexactFloat64())
	}
	gauge("fees", m.DailyFees)
	gauge("revenue", m.DailyRevenue)
	gauge("protocol_revenue", m.DailyProtocolRevenue)
	gauge("holders_revenue", m.DailyHoldersRevenue)
	gauge("supply_side_revenue", m.DailySupplySideRevenue)
}
