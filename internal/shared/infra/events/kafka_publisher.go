package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/segmentio/kafka-go"

	sharedBus "github.com/davicafu/hexasearch/internal/shared/infra/platform/bus"
)

// KafkaPublisher serializa eventos a JSON y los escribe en el topic del writer.
// La clave del mensaje sale de Keyer, de modo que los eventos de una misma entidad
// caen en la misma partición.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

var (
	_ sharedBus.EventBus       = (*KafkaPublisher)(nil)
	_ sharedBus.BatchPublisher = (*KafkaPublisher)(nil)
)

func NewKafkaPublisher(writer *kafka.Writer, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	return p.PublishBatch(ctx, []interface{}{event})
}

// PublishBatch escribe todos los eventos con una única llamada a WriteMessages.
func (p *KafkaPublisher) PublishBatch(ctx context.Context, events []interface{}) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		msg, err := toMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.log.Error("Error publishing to Kafka",
			zap.String("topic", p.writer.Topic),
			zap.Int("messages", len(msgs)),
			zap.Error(err))
		return err
	}

	p.log.Debug("Events published successfully", zap.String("topic", p.writer.Topic), zap.Int("messages", len(msgs)))
	return nil
}

// Close vacía los mensajes pendientes del writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(event interface{}) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event %T: %w", event, err)
	}

	var key []byte
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}
	return kafka.Message{Key: key, Value: data}, nil
}
