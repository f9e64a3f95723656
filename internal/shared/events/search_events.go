package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const SearchExecutedType = "search.executed"

// SearchExecuted es el registro de auditoría de una búsqueda ejecutada. Contrato plano de
// integración: no lleva valores de los criterios, sólo su número y el hash del SQL.
type SearchExecuted struct {
	ID            uuid.UUID `json:"id"`
	Entity        string    `json:"entity"`
	Intent        string    `json:"intent,omitempty"`
	Fields        []string  `json:"fields"`
	CriteriaCount int       `json:"criteriaCount"`
	Page          int       `json:"page"`
	PageSize      int       `json:"pageSize"`
	Rows          int       `json:"rows"`
	TotalCount    int64     `json:"totalCount"`
	CacheHit      bool      `json:"cacheHit"`
	DurationMs    int64     `json:"durationMs"`
	SQLHash       string    `json:"sqlHash"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e SearchExecuted) PartitionKey() string { return e.Entity }

// DailySearchCount agrega las búsquedas auditadas de un día.
type DailySearchCount struct {
	Day        time.Time `json:"day"`
	Searches   int64     `json:"searches"`
	CacheHits  int64     `json:"cacheHits"`
	AvgRows    float64   `json:"avgRows"`
	AvgLatency float64   `json:"avgLatencyMs"`
}

// AuditSink persiste o reenvía lotes de búsquedas auditadas.
type AuditSink interface {
	SaveBatch(ctx context.Context, batch []SearchExecuted) error
}

// AuditStats consulta los agregados diarios de auditoría de una entidad.
type AuditStats interface {
	DailySearchCounts(ctx context.Context, entity string, from, to time.Time) ([]DailySearchCount, error)
}
