package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream fetches.
var (
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revenue_scope",
		Subsystem: "midgard",
		Name:      "requests_total",
		Help:      "Total Midgard requests by endpoint and outcome.",
	}, []string{"endpoint", "status"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "revenue_scope",
		Subsystem: "midgard",
		Name:      "request_duration_seconds",
		Help:      "Midgard request latency in seconds, pacing waits included.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	MemoHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revenue_scope",
		Subsystem: "midgard",
		Name:      "memo_hits_total",
		Help:      "Requests served from an in-flight or completed fetch of the same URL.",
	}, []string{"endpoint"})
)

// Attribution results.
var (
	ComputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revenue_scope",
		Subsystem: "attribution",
		Name:      "computations_total",
		Help:      "Per-chain metric computations by outcome.",
	}, []string{"chain", "status"})

	ChainMetricUSD = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "revenue_scope",
		Subsystem: "attribution",
		Name:      "daily_usd",
		Help:      "Most recently computed daily metric in USD.",
	}, []string{"chain", "metric"})

	BackfillLastDay = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "revenue_scope",
		Subsystem: "backfill",
		Name:      "last_completed_day_timestamp",
		Help:      "Unix timestamp of the last day fully processed by backfill.",
	})
)

// HTTP API.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revenue_scope",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "revenue_scope",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	LookupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revenue_scope",
		Subsystem: "http",
		Name:      "metric_lookups_total",
		Help:      "Served chain metrics by the layer that answered: cache, store or compute.",
	}, []string{"source"})
)
