package bus

import "context"

// Keyer lo implementan los eventos que necesitan una clave de partición (Kafka).
type Keyer interface {
	PartitionKey() string
}

// La semántica de topic/nombre y formato del payload la decides en los adapters.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}

// BatchPublisher lo implementan los buses capaces de enviar varios eventos en una sola
// escritura. Es todo o nada: si falla, ningún evento se da por publicado.
type BatchPublisher interface {
	EventBus
	PublishBatch(ctx context.Context, events []interface{}) error
}
