package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"
	sharedUtils "github.com/davicafu/hexasearch/internal/shared/infra/utils"
)

// AuditConsumer recibe IntegrationEvent del bus y guarda las búsquedas auditadas en un store.
type AuditConsumer struct {
	store sharedEvents.AuditSink
	log   *zap.Logger
}

var _ MessageHandler = (*AuditConsumer)(nil)

func NewAuditConsumer(store sharedEvents.AuditSink, log *zap.Logger) *AuditConsumer {
	return &AuditConsumer{store: store, log: log}
}

func (c *AuditConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case sharedEvents.SearchExecutedType:
		sharedUtils.UnmarshalAndHandle(c.log, base.Type, base.Data, func(evt sharedEvents.SearchExecuted) {
			storeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()

			if err := c.store.SaveBatch(storeCtx, []sharedEvents.SearchExecuted{evt}); err != nil {
				c.log.Warn("Failed to store audited search",
					zap.String("event_id", evt.ID.String()),
					zap.Error(err))
			}
		})
	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

// LogSink escribe cada búsqueda auditada en el log. Es el store por defecto del bus en memoria.
type LogSink struct {
	log *zap.Logger
}

var _ sharedEvents.AuditSink = (*LogSink)(nil)

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) SaveBatch(ctx context.Context, batch []sharedEvents.SearchExecuted) error {
	for _, evt := range batch {
		s.log.Info("Search audited",
			zap.String("event_id", evt.ID.String()),
			zap.String("entity", evt.Entity),
			zap.String("intent", evt.Intent),
			zap.Int("criteria", evt.CriteriaCount),
			zap.Int("rows", evt.Rows),
			zap.Int64("total", evt.TotalCount),
			zap.Bool("cache_hit", evt.CacheHit),
			zap.Int64("duration_ms", evt.DurationMs),
			zap.String("sql_hash", evt.SQLHash),
		)
	}
	return nil
}
