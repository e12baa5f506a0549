// en internal/task/infra/inbound/events/task_consumer.go
package events

import (
	"bytes"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/salesboard/internal/shared/events"
	sharedUtils "github.com/davicafu/salesboard/internal/shared/infra/utils"
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
)

// TaskIngester es lo único que el consumidor necesita del servicio.
type TaskIngester interface {
	IngestRecords(ctx context.Context, records []taskDomain.RawRecord) []taskDomain.Task
}

// TaskConsumer traduce eventos "task.ingest" del bus a altas en el store.
type TaskConsumer struct {
	service TaskIngester
	log     *zap.Logger
}

func NewTaskConsumer(service TaskIngester, logger *zap.Logger) *TaskConsumer {
	return &TaskConsumer{
		service: service,
		log:     logger,
	}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
// Data puede ser un registro suelto o un array de registros.
func (c *TaskConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event for task", zap.String("key", key), zap.Error(err))
		return
	}

	if base.Type != taskDomain.TaskIngest {
		c.log.Debug("Ignoring task event", zap.String("type", base.Type), zap.String("key", key))
		return
	}

	if bytes.HasPrefix(bytes.TrimSpace(base.Data), []byte("[")) {
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(records []taskDomain.RawRecord) {
			c.ingest(ctx, key, records)
		})
		return
	}
	sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(record taskDomain.RawRecord) {
		c.ingest(ctx, key, []taskDomain.RawRecord{record})
	})
}

func (c *TaskConsumer) ingest(ctx context.Context, key string, records []taskDomain.RawRecord) {
	if len(records) == 0 {
		return
	}
	created := c.service.IngestRecords(ctx, records)
	c.log.Info("Tasks ingested via event", zap.String("key", key), zap.Int("count", len(created)))
}

// BackgroundConsumerChan inicia una goroutine para consumir eventos de un canal.
func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, consumer *TaskConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				consumer.log.Info("TaskConsumer stopped")
				return
			case msg := <-ch:
				// El bus en memoria entrega []byte; la 'key' no aplica.
				if payload, ok := msg.([]byte); ok {
					consumer.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
