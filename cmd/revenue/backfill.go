package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"revenueScope/internal/backfill"
	"revenueScope/internal/config"
	"revenueScope/internal/storage"
	"revenueScope/internal/storage/postgres"
)

func runBackfill(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadBackfill(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	from, err := config.ParseDay(cfg.From)
	if err != nil {
		return fmt.Errorf("parse from: %w", err)
	}
	if from.IsZero() {
		return fmt.Errorf("from is required")
	}
	to, err := config.ParseDay(cfg.To)
	if err != nil {
		return fmt.Errorf("parse to: %w", err)
	}
	if to.IsZero() {
		to = yesterday()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks []storage.Storage
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}

	var state backfill.StateStore
	if cfg.StateFile != "" {
		state = &backfill.FileStateStore{Path: cfg.StateFile}
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
		if state == nil {
			state = &backfill.DBStateStore{Store: store, Name: "backfill:daily"}
		}
	}
	if len(sinks) == 0 {
		return fmt.Errorf("out or pg-dsn is required")
	}

	svc := newService(cfg.Midgard, cfg.ChainMap, logger)

	runner := backfill.NewRunner(backfill.RunConfig{
		From:            from,
		To:              to,
		ContinueOnError: cfg.ContinueOnError,
		Pause:           cfg.Pause,
	}, svc, sinks, state, logger)

	logger.Info("backfill start",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("state_file", cfg.StateFile),
		zap.Bool("continue_on_error", cfg.ContinueOnError),
	)

	return runner.Run(ctx)
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
