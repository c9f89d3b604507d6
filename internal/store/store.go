package store

import (
	"context"

	"github.com/nulzo/cache-gateway-api/internal/store/model"
)

// Repository is the main contract for the diagnostics data layer.
type Repository interface {
	Operations() OperationRepository

	Close() error
}

type OperationRepository interface {
	// Log records a completed cache operation.
	Log(ctx context.Context, op *model.OperationLog) error
	// GetRecent returns the last N operation logs.
	GetRecent(ctx context.Context, limit int) ([]model.OperationLog, error)
	// GetDailyStats returns aggregated stats grouped by day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}
