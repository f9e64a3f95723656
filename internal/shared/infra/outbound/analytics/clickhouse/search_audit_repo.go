package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// SearchAuditRepo guarda las búsquedas auditadas en ClickHouse y calcula agregados diarios.
type SearchAuditRepo struct {
	db *sql.DB
}

var (
	_ sharedEvents.AuditSink  = (*SearchAuditRepo)(nil)
	_ sharedEvents.AuditStats = (*SearchAuditRepo)(nil)
)

func NewSearchAuditRepo(addr string, dbName string) (*SearchAuditRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &SearchAuditRepo{db: conn}, nil
}

// SaveBatch inserta el lote en una sola transacción; si un registro falla se descarta todo.
func (r *SearchAuditRepo) SaveBatch(ctx context.Context, batch []sharedEvents.SearchExecuted) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO search_audit (id, entity, intent, fields, criteria_count, page, page_size, rows, total_count, cache_hit, duration_ms, sql_hash, occurred_at)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.ExecContext(ctx,
			e.ID,
			e.Entity,
			e.Intent,
			e.Fields,
			int32(e.CriteriaCount),
			int32(e.Page),
			int32(e.PageSize),
			int64(e.Rows),
			e.TotalCount,
			e.CacheHit,
			e.DurationMs,
			e.SQLHash,
			e.OccurredAt,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for audit event %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

func (r *SearchAuditRepo) DailySearchCounts(ctx context.Context, entity string, from, to time.Time) ([]sharedEvents.DailySearchCount, error) {
	query := `
		SELECT
			toStartOfDay(occurred_at) AS day,
			count() AS searches,
			countIf(cache_hit) AS cache_hits,
			avg(rows) AS avg_rows,
			avg(duration_ms) AS avg_latency
		FROM search_audit
		WHERE entity = ? AND occurred_at BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, entity, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sharedEvents.DailySearchCount
	for rows.Next() {
		var d sharedEvents.DailySearchCount
		var searches, hits uint64
		if err := rows.Scan(&d.Day, &searches, &hits, &d.AvgRows, &d.AvgLatency); err != nil {
			return nil, err
		}
		d.Searches, d.CacheHits = int64(searches), int64(hits)
		out = append(out, d)
	}
	return out, rows.Err()
}

// InitSchema crea la tabla si no existe. Particionada por mes, ordenada por entidad y fecha.
func (r *SearchAuditRepo) InitSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS search_audit (
			id             UUID,
			entity         String,
			intent         String,
			fields         Array(String),
			criteria_count Int32,
			page           Int32,
			page_size      Int32,
			rows           Int64,
			total_count    Int64,
			cache_hit      Bool,
			duration_ms    Int64,
			sql_hash       String,
			occurred_at    DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(occurred_at)
		ORDER BY (entity, occurred_at);
	`
	_, err := r.db.Exec(query)
	return err
}

func (r *SearchAuditRepo) Close() error {
	return r.db.Close()
}
