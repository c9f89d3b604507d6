package model

import "time"

// OperationLog is one completed cache API operation, persisted for
// diagnostics. The cache payload itself is never stored here.
type OperationLog struct {
	ID         string    `db:"id" json:"id"`
	Op         string    `db:"op" json:"op"` // store, get, delete, exists, list, bulk
	Key        string    `db:"key" json:"key,omitempty"`
	Status     int       `db:"status" json:"status"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DailyStats is an aggregated view over the operation log.
type DailyStats struct {
	Day           string  `db:"day" json:"day"`
	Total         int64   `db:"total" json:"total"`
	Errors        int64   `db:"errors" json:"errors"`
	AvgDurationMs float64 `db:"avg_duration_ms" json:"avg_duration_ms"`
}
