package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nulzo/cache-gateway-api/internal/store"
	"github.com/nulzo/cache-gateway-api/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db *sqlx.DB
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) Operations() store.OperationRepository {
	return &operationRepo{db: r.db}
}

type operationRepo struct {
	db DB
}

func (r *operationRepo) Log(ctx context.Context, op *model.OperationLog) error {
	query := `
	INSERT INTO operation_logs (id, op, key, status, duration_ms, created_at)
	VALUES (:id, :op, :key, :status, :duration_ms, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, op)
	return err
}

func (r *operationRepo) GetRecent(ctx context.Context, limit int) ([]model.OperationLog, error) {
	var logs []model.OperationLog
	query := `SELECT * FROM operation_logs ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &logs, query, limit)
	return logs, err
}

func (r *operationRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	query := `
	SELECT
		date(created_at) AS day,
		COUNT(*) AS total,
		SUM(CASE WHEN status >= 500 THEN 1 ELSE 0 END) AS errors,
		AVG(duration_ms) AS avg_duration_ms
	FROM operation_logs
	WHERE created_at >= datetime('now', ?)
	GROUP BY day
	ORDER BY day DESC`
	err := r.db.SelectContext(ctx, &stats, query, offsetModifier(days))
	return stats, err
}

func offsetModifier(days int) string {
	if days <= 0 {
		days = 7
	}
	return fmt.Sprintf("-%d days", days)
}
