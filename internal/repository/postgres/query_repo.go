package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
)

type QueryRepo struct {
	pool     *pgxpool.Pool
	timezone string
}

// NewQueryRepo создает репозиторий истории; timezone (IANA) задает сутки для HourStats.
func NewQueryRepo(pool *pgxpool.Pool, timezone string) *QueryRepo {
	return &QueryRepo{pool: pool, timezone: timezone}
}

var queryColumns = []string{
	"id", "trace_id", "user_id", "service", "kind", "query", "wait_minutes", "recommended_at", "created_at",
}

// WriteBatch сохраняет пачку записей истории одним COPY
func (r *QueryRepo) WriteBatch(ctx context.Context, records []domain.QueryRecord) error {
	if len(records) == 0 {
		return nil
	}

	_, err := r.pool.CopyFrom(ctx, pgx.Identifier{"queries"}, queryColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			q := records[i]
			// COPY идет в бинарном формате, строки в uuid сам не приводит
			id, err := uuid.Parse(q.ID)
			if err != nil {
				return nil, fmt.Errorf("query %d: bad id: %w", i, err)
			}
			userID, err := uuid.Parse(q.UserID)
			if err != nil {
				return nil, fmt.Errorf("query %d: bad user id: %w", i, err)
			}
			return []any{
				id, q.TraceID, userID, q.Service, string(q.Kind), q.Query,
				q.WaitMinutes, q.RecommendedAt, q.CreatedAt,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("postgres: failed to copy queries: %w", err)
	}
	return nil
}

// ListByUser возвращает последние запросы пользователя, новые сверху
func (r *QueryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.QueryRecord, error) {
	query := `
		SELECT id::text, trace_id, user_id::text, service, kind, query, wait_minutes, recommended_at, created_at
		FROM queries WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list queries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.QueryRecord, 0, limit)
	for rows.Next() {
		var (
			q    domain.QueryRecord
			kind string
		)
		if err := rows.Scan(&q.ID, &q.TraceID, &q.UserID, &q.Service, &kind, &q.Query,
			&q.WaitMinutes, &q.RecommendedAt, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.Kind = domain.QueryKind(kind)
		out = append(out, q)
	}
	return out, rows.Err()
}

// ServiceStats считает запросы по каждой услуге
func (r *QueryRepo) ServiceStats(ctx context.Context) ([]domain.ServiceStat, error) {
	query := `SELECT service, COUNT(*) FROM queries GROUP BY service ORDER BY COUNT(*) DESC, service`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to aggregate services: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.ServiceStat])
}

// HourStats считает активность по часам суток (для графика пиковых часов).
// Часы берутся в поясе отделений, а не в поясе сессии БД.
func (r *QueryRepo) HourStats(ctx context.Context) ([]domain.HourStat, error) {
	query := `
		SELECT EXTRACT(HOUR FROM created_at AT TIME ZONE $1)::int AS hour, COUNT(*)
		FROM queries GROUP BY hour ORDER BY hour`

	rows, err := r.pool.Query(ctx, query, r.timezone)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to aggregate hours: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.HourStat])
}
