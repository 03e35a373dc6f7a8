package revenue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revenueScope/internal/attribution"
	"revenueScope/internal/model"
)

type stubFetcher struct {
	data     model.Dataset
	err      error
	from, to time.Time
	calls    int
}

func (s *stubFetcher) FetchDataset(_ context.Context, from, to time.Time) (model.Dataset, error) {
	s.calls++
	s.from, s.to = from, to
	return s.data, s.err
}

func dataset(day time.Time) model.Dataset {
	return model.Dataset{
		Earnings: []model.EarningsInterval{{
			StartTime:       day,
			EndTime:         day.AddDate(0, 0, 1),
			BondingEarnings: decimal.NewFromInt(1_000_000_000),
			RunePriceUSD:    decimal.NewFromInt(5),
			Pools: []model.PoolEarning{
				{Pool: "BTC.BTC", TotalLiquidityFeesRune: decimal.NewFromInt(100_000_000)},
			},
		}},
		Reserve: []model.ReserveInterval{{
			StartTime: day,
			EndTime:   day.AddDate(0, 0, 1),
		}},
		Depths: []model.PoolDepth{
			{Asset: "BTC.BTC", RuneDepth: decimal.NewFromInt(50)},
			{Asset: "ETH.ETH", RuneDepth: decimal.NewFromInt(50)},
		},
	}
}

func TestServiceChain(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{data: dataset(day)}
	svc := NewService(fetcher, attribution.NewEngine(attribution.DefaultChainTable(), nil), nil)

	got, err := svc.Chain(context.Background(), "BTC", day.Add(5*time.Hour))
	require.NoError(t, err)
	assert.True(t, got.DailyFees.Equal(decimal.NewFromInt(5)))
	assert.True(t, got.DailyHoldersRevenue.Equal(decimal.NewFromInt(25)))
	assert.True(t, fetcher.from.Equal(day))
	assert.True(t, fetcher.to.Equal(day.Add(24*time.Hour)))
}

func TestServiceFetchFailureIsDataUnavailable(t *testing.T) {
	upstream := errors.New("connection refused")
	fetcher := &stubFetcher{err: upstream}
	svc := NewService(fetcher, attribution.NewEngine(attribution.DefaultChainTable(), nil), nil)

	_, err := svc.Chain(context.Background(), "BTC", time.Now())
	assert.ErrorIs(t, err, attribution.ErrDataUnavailable)
	assert.ErrorIs(t, err, upstream)

	_, err = svc.Day(context.Background(), time.Now())
	assert.ErrorIs(t, err, attribution.ErrDataUnavailable)
}

func TestServiceUnknownChainSkipsFetch(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := NewService(fetcher, attribution.NewEngine(attribution.DefaultChainTable(), nil), nil)

	_, err := svc.Chain(context.Background(), "SOL", time.Now())
	assert.ErrorIs(t, err, attribution.ErrUnknownChain)
	assert.Zero(t, fetcher.calls)
}

func TestServiceDay(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{data: dataset(day)}
	table := attribution.NewChainTable(map[string]string{"BTC": "bitcoin", "ETH": "ethereum"})
	svc := NewService(fetcher, attribution.NewEngine(table, nil), nil)

	got, err := svc.Day(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, fetcher.calls)
	assert.True(t, got[1].DailyFees.IsZero())
}
