package storage

import (
	"context"

	"revenueScope/internal/model"
)

// Storage defines a sink for computed chain metrics.
type Storage interface {
	PutMetricsBatch(ctx context.Context, metrics []model.ChainMetrics) error
}
