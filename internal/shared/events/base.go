package events

import (
	"encoding/json"
	"time"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento

	key string
}

// NewIntegrationEvent serializa data y la envuelve con su tipo. key se usa como clave de partición.
func NewIntegrationEvent(eventType, key string, ts time.Time, data interface{}) (IntegrationEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return IntegrationEvent{}, err
	}
	return IntegrationEvent{Type: eventType, Timestamp: ts, Data: raw, key: key}, nil
}

func (e IntegrationEvent) PartitionKey() string { return e.key }
