package backfill

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"revenueScope/internal/model"
	"revenueScope/internal/observability"
	"revenueScope/internal/storage"
)

// DaySource computes the metrics of every chain for a day.
type DaySource interface {
	Day(ctx context.Context, day time.Time) ([]model.ChainMetrics, error)
}

// RunConfig holds runtime settings for a backfill.
type RunConfig struct {
	From            time.Time
	To              time.Time
	ContinueOnError bool
	// Pause is waited between days, on top of the client's own request pacing.
	Pause time.Duration
}

// Runner walks a day range, computes metrics and writes them to every sink.
type Runner struct {
	cfg    RunConfig
	source DaySource
	sinks  []storage.Storage
	state  StateStore
	logger *zap.Logger
	failed []time.Time
}

func NewRunner(cfg RunConfig, source DaySource, sinks []storage.Storage, state StateStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		source: source,
		sinks:  sinks,
		state:  state,
		logger: logger,
	}
}

// Run processes each day in range, resuming after the last saved day.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("day source is nil")
	}
	if len(r.sinks) == 0 {
		return fmt.Errorf("at least one sink is required")
	}
	r.failed = nil

	from := r.cfg.From
	if r.state != nil {
		last, ok, err := r.state.Load(ctx)
		if err != nil {
			return err
		}
		resume := time.Unix(int64(last), 0).UTC().AddDate(0, 0, 1)
		if ok && resume.After(from) {
			from = resume
			r.logger.Info("resume from state", zap.Time("last_processed", time.Unix(int64(last), 0).UTC()), zap.Time("from", from))
		}
	}

	if from.After(r.cfg.To) {
		r.logger.Info("nothing to backfill", zap.Time("from", from), zap.Time("to", r.cfg.To))
		return nil
	}

	days, err := SplitDays(from, r.cfg.To)
	if err != nil {
		return err
	}

	var written int
	for i, day := range days {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if i > 0 && r.cfg.Pause > 0 {
			timer := time.NewTimer(r.cfg.Pause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		metrics, dayErr := r.source.Day(ctx, day)
		if err := r.write(ctx, metrics); err != nil {
			return fmt.Errorf("store metrics %s: %w", day.Format(time.DateOnly), err)
		}
		written += len(metrics)

		if dayErr != nil {
			r.failed = append(r.failed, day)
			if !r.cfg.ContinueOnError {
				return fmt.Errorf("day %s: %w", day.Format(time.DateOnly), dayErr)
			}
			r.logger.Warn("day incomplete", zap.Time("day", day), zap.Error(dayErr))
			continue
		}

		// The checkpoint never moves past an incomplete day, so a resumed run retries it.
		if len(r.failed) == 0 {
			if r.state != nil {
				if err := r.state.Save(ctx, uint64(day.Unix())); err != nil {
					return err
				}
			}
			observability.BackfillLastDay.Set(float64(day.Unix()))
		}

		r.logger.Info("day complete", zap.Time("day", day), zap.Int("chains", len(metrics)))
	}

	r.logger.Info("backfill complete",
		zap.Int("days", len(days)),
		zap.Int("records", written),
		zap.Int("failed_days", len(r.failed)),
	)
	if len(r.failed) > 0 {
		r.logger.Warn("checkpoint held before first incomplete day",
			zap.Time("first_incomplete", r.failed[0]),
			zap.Strings("incomplete", formatDays(r.failed)),
		)
	}
	return nil
}

// Failed returns the days of the last run whose metrics were incomplete.
func (r *Runner) Failed() []time.Time {
	return append([]time.Time(nil), r.failed...)
}

func formatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, day := range days {
		out = append(out, day.Format(time.DateOnly))
	}
	return out
}

func (r *Runner) write(ctx context.Context, metrics []model.ChainMetrics) error {
	for _, sink := range r.sinks {
		if err := sink.PutMetricsBatch(ctx, metrics); err != nil {
			return err
		}
	}
	return nil
}
