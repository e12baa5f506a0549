package outbox

import (
	"context"
	"fmt"
	"sync"

	sharedDomain "github.com/davicafu/salesboard/internal/shared/domain"
	"github.com/google/uuid"
)

// InMemoryOutbox guarda los eventos pendientes en memoria, en orden de llegada.
// Se pierde al reiniciar el proceso, igual que el resto del estado.
type InMemoryOutbox struct {
	mu      sync.Mutex
	pending []sharedDomain.OutboxEvent
}

func NewInMemoryOutbox() *InMemoryOutbox {
	return &InMemoryOutbox{}
}

func (o *InMemoryOutbox) Append(ctx context.Context, evt sharedDomain.OutboxEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, evt)
	return nil
}

// FetchPendingOutbox devuelve como mucho limit eventos sin procesar.
func (o *InMemoryOutbox) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := len(o.pending)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]sharedDomain.OutboxEvent, n)
	copy(out, o.pending[:n])
	return out, nil
}

// MarkOutboxProcessed elimina el evento: en memoria no hace falta conservarlo.
func (o *InMemoryOutbox) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, evt := range o.pending {
		if evt.ID == id {
			o.pending = append(o.pending[:i], o.pending[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("outbox event not found: %s", id)
}

func (o *InMemoryOutbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Verificación en tiempo de compilación.
var _ sharedDomain.OutboxRepository = (*InMemoryOutbox)(nil)
var _ sharedDomain.OutboxWriter = (*InMemoryOutbox)(nil)
