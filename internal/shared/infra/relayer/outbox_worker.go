package relayer

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	sharedDomain "github.com/davicafu/salesboard/internal/shared/domain"
	sharedEvents "github.com/davicafu/salesboard/internal/shared/events"
	sharedBus "github.com/davicafu/salesboard/internal/shared/infra/platform/bus"
	"go.uber.org/zap"
)

// Worker procesa eventos pendientes del outbox de forma genérica.
type Worker struct {
	repo          sharedDomain.OutboxRepository
	publisher     sharedBus.EventBus
	eventRegistry map[string]sharedEvents.EventMetadata
	interval      time.Duration
	batchSize     int
	log           *zap.Logger
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventBus,
	registry map[string]sharedEvents.EventMetadata,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Worker {
	return &Worker{
		repo:          repo,
		publisher:     publisher,
		eventRegistry: registry,
		interval:      interval,
		batchSize:     batchSize,
		log:           log,
	}
}

// Start inicia el bucle de polling del worker. Bloquea hasta que ctx termina.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("🚀 Outbox worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Outbox worker stopped")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

func (w *Worker) ProcessBatch(ctx context.Context) {
	events, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("⚠️ Failed to fetch pending outbox events", zap.Error(err))
		return
	}
	if len(events) > 0 {
		w.log.Debug("📬 Outbox events to process", zap.Int("count", len(events)))
	}

	for _, evt := range events {
		w.publishAndMark(ctx, evt)
	}
}

func (w *Worker) publishAndMark(ctx context.Context, evt sharedDomain.OutboxEvent) {
	// 1. Usar el registro para validar el payload contra el tipo de evento
	metadata, ok := w.eventRegistry[evt.EventType]
	if !ok {
		w.log.Error("Unknown event type in registry", zap.String("event_type", evt.EventType))
		return
	}

	typed := reflect.New(metadata.Type).Interface()
	payloadBytes, err := json.Marshal(evt.Payload)
	if err != nil {
		w.log.Error("Failed to encode event payload", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}
	if err := json.Unmarshal(payloadBytes, typed); err != nil {
		w.log.Error("Failed to decode event payload", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}
	data, _ := json.Marshal(typed)

	integration := &sharedEvents.IntegrationEvent{
		Type:      evt.EventType,
		Timestamp: evt.CreatedAt,
		Data:      data,
		Key:       evt.AggregateID,
	}

	// 2. Publicar el evento ya validado
	if err := w.publisher.Publish(ctx, integration); err != nil {
		w.log.Warn("⚠️ Failed to publish event",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
		return // No lo marcamos como procesado para que se reintente
	}

	// 3. Marcar como procesado
	if err := w.repo.MarkOutboxProcessed(ctx, evt.ID); err != nil {
		w.log.Warn("⚠️ Failed to mark event as processed",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
	} else {
		w.log.Debug("✅ Event published and marked", zap.String("event_id", evt.ID.String()))
	}
}
