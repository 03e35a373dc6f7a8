package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"revenueScope/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Store provides Postgres persistence for chain metrics.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables used by the store if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutMetricsBatch upserts chain metrics keyed by (chain, day).
func (s *Store) PutMetricsBatch(ctx context.Context, metrics []model.ChainMetrics) error {
	if len(metrics) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(`
			INSERT INTO chain_daily_metrics (
				chain, day, daily_fees, daily_user_fees, daily_revenue, daily_protocol_revenue,
				daily_holders_revenue, daily_supply_side_revenue, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			ON CONFLICT (chain, day)
			DO UPDATE SET
				daily_fees = EXCLUDED.daily_fees,
				daily_user_fees = EXCLUDED.daily_user_fees,
				daily_revenue = EXCLUDED.daily_revenue,
				daily_protocol_revenue = EXCLUDED.daily_protocol_revenue,
				daily_holders_revenue = EXCLUDED.daily_holders_revenue,
				daily_supply_side_revenue = EXCLUDED.daily_supply_side_revenue,
				updated_at = now()
		`,
			m.Chain,
			m.Timestamp,
			m.DailyFees.String(),
			m.DailyUserFees.String(),
			m.DailyRevenue.String(),
			m.DailyProtocolRevenue.String(),
			m.DailyHoldersRevenue.String(),
			m.DailySupplySideRevenue.String(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range metrics {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadChainMetrics returns the stored metrics of chain for day, if any.
func (s *Store) LoadChainMetrics(ctx context.Context, chain string, day time.Time) (model.ChainMetrics, bool, error) {
	var (
		fees, userFees, revenue, protocol, holders, supplySide string
		ts                                                     time.Time
	)
	row := s.pool.QueryRow(ctx, `
		SELECT day, daily_fees::text, daily_user_fees::text, daily_revenue::text,
			daily_protocol_revenue::text, daily_holders_revenue::text, daily_supply_side_revenue::text
		FROM chain_daily_metrics WHERE chain=$1 AND day=$2
	`, chain, day)
	if err := row.Scan(&ts, &fees, &userFees, &revenue, &protocol, &holders, &supplySide); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ChainMetrics{}, false, nil
		}
		return model.ChainMetrics{}, false, err
	}

	values := make([]decimal.Decimal, 0, 6)
	for _, raw := range []string{fees, userFees, revenue, protocol, holders, supplySide} {
		val, err := decimal.NewFromString(raw)
		if err != nil {
			return model.ChainMetrics{}, false, fmt.Errorf("parse numeric %q: %w", raw, err)
		}
		values = append(values, val)
	}

	return model.ChainMetrics{
		Chain:                  chain,
		DailyFees:              values[0],
		DailyUserFees:          values[1],
		DailyRevenue:           values[2],
		DailyProtocolRevenue:   values[3],
		DailyHoldersRevenue:    values[4],
		DailySupplySideRevenue: values[5],
		Timestamp:              ts.UTC(),
	}, true, nil
}

// LoadState returns last_processed_ts for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_ts FROM indexer_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(ts), true, nil
}

// SaveState upserts last_processed_ts for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO indexer_state (name, last_processed_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_ts = EXCLUDED.last_processed_ts, updated_at = now()
	`, name, int64(ts))
	return err
}
