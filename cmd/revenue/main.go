package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"revenueScope/internal/attribution"
	"revenueScope/internal/config"
	"revenueScope/internal/midgard"
	"revenueScope/internal/revenue"
)

func main() {
	root := &cobra.Command{
		Use:          "revenue",
		Short:        "Daily per-chain revenue metrics from Midgard",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute metrics for one UTC day",
		RunE:  runCompute,
	}

	computeCmd.Flags().String("day", "", "UTC day (YYYY-MM-DD, RFC3339 or unix seconds), default yesterday")
	computeCmd.Flags().StringSlice("chain", nil, "chain codes to compute (comma-separated), default all")
	computeCmd.Flags().String("out", "", "output JSONL path, default stdout")
	addMidgardFlags(computeCmd)

	root.AddCommand(computeCmd)

	backfillCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Compute metrics for every day in a range",
		RunE:  runBackfill,
	}

	backfillCmd.Flags().String("from", "", "first UTC day (inclusive)")
	backfillCmd.Flags().String("to", "", "last UTC day (inclusive), default yesterday")
	backfillCmd.Flags().String("out", "./data/revenue.jsonl", "output JSONL path, empty to disable")
	backfillCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	backfillCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	backfillCmd.Flags().Duration("pause", 0, "extra wait between days")
	backfillCmd.Flags().Bool("continue-on-error", false, "keep going when a day cannot be computed")
	addMidgardFlags(backfillCmd)

	root.AddCommand(backfillCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics over HTTP",
		RunE:  runServe,
	}

	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN for backfilled metrics")
	serveCmd.Flags().String("redis-url", "", "Redis URL for the result cache")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Duration("result-ttl", 24*time.Hour, "Redis TTL for cached results, 0 keeps them")
	addMidgardFlags(serveCmd)

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addMidgardFlags(cmd *cobra.Command) {
	cmd.Flags().String("midgard-url", midgard.DefaultBaseURL, "Midgard base URL")
	cmd.Flags().String("client-id", midgard.DefaultClientID, "x-client-id header value")
	cmd.Flags().Duration("pacing", 2*time.Second, "minimum interval between Midgard requests")
	cmd.Flags().Duration("timeout", 30*time.Second, "HTTP timeout per request")
	cmd.Flags().Uint("max-retries", 3, "retries for transient failures")
	cmd.Flags().Duration("retry-delay", time.Second, "initial retry delay")
	cmd.Flags().Duration("cache-ttl", 10*time.Minute, "how long fetched responses are reused, 0 forever")
	cmd.Flags().String("chain-map", "", "override chain table (comma-separated CODE=name)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newService(cfg config.MidgardConfig, chainMap map[string]string, logger *zap.Logger) *revenue.Service {
	client := midgard.NewClient(midgard.Config{
		BaseURL:    cfg.URL,
		ClientID:   cfg.ClientID,
		Pacing:     cfg.Pacing,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		CacheTTL:   cfg.CacheTTL,
	}, logger.Named("midgard"))

	table := attribution.DefaultChainTable()
	if len(chainMap) > 0 {
		table = attribution.NewChainTable(chainMap)
	}

	engine := attribution.NewEngine(table, logger.Named("attribution"))
	return revenue.NewService(client, engine, logger)
}

// yesterday is the most recent completed UTC day.
func yesterday() time.Time {
	return attribution.StartOfDay(time.Now()).AddDate(0, 0, -1)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
