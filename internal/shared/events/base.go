package events

import (
	"encoding/json"
	"reflect"
	"time"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento

	Key string `json:"-"` // clave de partición, no viaja en el payload
}

func (e *IntegrationEvent) PartitionKey() string {
	return e.Key
}

type EventMetadata struct {
	Type  reflect.Type
	Topic string
}
