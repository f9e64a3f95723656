package events

import (
	"context"
	"fmt"

	sharedEvents "github.com/davicafu/hexasearch/internal/shared/events"
	sharedBus "github.com/davicafu/hexasearch/internal/shared/infra/platform/bus"
)

// PublisherSink reenvía cada búsqueda auditada al bus como IntegrationEvent.
// Si el bus admite lotes, el lote entero sale en una sola escritura.
type PublisherSink struct {
	bus sharedBus.EventBus
}

var _ sharedEvents.AuditSink = (*PublisherSink)(nil)

func NewPublisherSink(bus sharedBus.EventBus) *PublisherSink {
	return &PublisherSink{bus: bus}
}

// SaveBatch se detiene en el primer fallo; el lote completo se reintenta desde el worker.
func (s *PublisherSink) SaveBatch(ctx context.Context, batch []sharedEvents.SearchExecuted) error {
	msgs := make([]interface{}, 0, len(batch))
	for _, evt := range batch {
		msg, err := sharedEvents.NewIntegrationEvent(sharedEvents.SearchExecutedType, evt.PartitionKey(), evt.OccurredAt, evt)
		if err != nil {
			return fmt.Errorf("failed to wrap audit event %s: %w", evt.ID, err)
		}
		msgs = append(msgs, msg)
	}

	if bp, ok := s.bus.(sharedBus.BatchPublisher); ok {
		if err := bp.PublishBatch(ctx, msgs); err != nil {
			return fmt.Errorf("failed to publish %d audit events: %w", len(msgs), err)
		}
		return nil
	}

	for i, msg := range msgs {
		if err := s.bus.Publish(ctx, msg); err != nil {
			return fmt.Errorf("failed to publish audit event %s: %w", batch[i].ID, err)
		}
	}
	return nil
}
