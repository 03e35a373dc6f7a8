package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"revenueScope/internal/config"
	"revenueScope/internal/model"
	"revenueScope/internal/storage"
)

func runCompute(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	day, err := config.ParseDay(cfg.Day)
	if err != nil {
		return fmt.Errorf("parse day: %w", err)
	}
	if day.IsZero() {
		day = yesterday()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newService(cfg.Midgard, cfg.ChainMap, logger)

	var sink storage.Storage = storage.NewJsonlWriter(cmd.OutOrStdout())
	if cfg.Out != "" {
		sink = storage.NewJsonlStorage(cfg.Out)
	}

	logger.Info("compute start",
		zap.Time("day", day),
		zap.Strings("chains", cfg.Chains),
		zap.String("midgard", cfg.Midgard.URL),
	)

	var (
		results []model.ChainMetrics
		errs    []error
	)
	if len(cfg.Chains) == 0 {
		results, err = svc.Day(ctx, day)
		if err != nil {
			errs = append(errs, err)
		}
	} else {
		for _, chain := range cfg.Chains {
			metrics, err := svc.Chain(ctx, strings.ToUpper(chain), day)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", chain, err))
				continue
			}
			results = append(results, metrics)
		}
	}

	if err := sink.PutMetricsBatch(ctx, results); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	logger.Info("compute complete", zap.Int("chains", len(results)), zap.Int("failed", len(errs)))
	return errors.Join(errs...)
}
