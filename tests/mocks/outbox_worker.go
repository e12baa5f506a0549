package mocks

import (
	"context"

	sharedDomain "github.com/davicafu/salesboard/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOutboxRepository simula el repo con outbox
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]sharedDomain.OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher simula un publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// RecordingOutbox guarda lo que los servicios encolan, sin worker detrás.
type RecordingOutbox struct {
	Events []sharedDomain.OutboxEvent
	Err    error
}

func (o *RecordingOutbox) Append(ctx context.Context, evt sharedDomain.OutboxEvent) error {
	if o.Err != nil {
		return o.Err
	}
	o.Events = append(o.Events, evt)
	return nil
}

// EventTypes devuelve los tipos encolados, en orden.
func (o *RecordingOutbox) EventTypes() []string {
	types := make([]string, 0, len(o.Events))
	for _, evt := range o.Events {
		types = append(types, evt.EventType)
	}
	return types
}
