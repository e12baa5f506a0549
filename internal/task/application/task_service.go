package application

import (
	"context"
	"time"

	sharedDomain "github.com/davicafu/salesboard/internal/shared/domain"
	sharedQuery "github.com/davicafu/salesboard/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService define los casos de uso relacionados con Task.
// Delega el estado en el TaskStore y añade los efectos laterales:
// eventos de outbox y logging. Los ids inexistentes nunca son error.
type TaskService struct {
	store  *TaskStore
	outbox sharedDomain.OutboxWriter
	log    *zap.Logger
}

// NewTaskService es el constructor para el servicio de tareas. outbox puede ser nil.
func NewTaskService(store *TaskStore, outbox sharedDomain.OutboxWriter, log *zap.Logger) *TaskService {
	return &TaskService{
		store:  store,
		outbox: outbox,
		log:    log,
	}
}

// CreateTask añade la tarea al store y encola su evento.
func (s *TaskService) CreateTask(ctx context.Context, t taskDomain.Task) taskDomain.Task {
	created := s.store.Add(t)
	s.enqueue(ctx, taskDomain.TaskCreated, created)
	return created
}

// UpdateTask aplica el patch. Si el id no existe devuelve false y no hace nada más.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch taskDomain.Patch) (taskDomain.Task, bool) {
	updated, ok := s.store.Update(id, patch)
	if !ok {
		s.log.Debug("Update ignored, task not found", zap.String("task_id", id))
		return taskDomain.Task{}, false
	}
	s.enqueue(ctx, taskDomain.TaskUpdated, updated)
	return updated, true
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) {
	removed, ok := s.store.Delete(id)
	if !ok {
		s.log.Debug("Delete ignored, task not found", zap.String("task_id", id))
		return
	}
	s.enqueue(ctx, taskDomain.TaskDeleted, removed)
}

func (s *TaskService) UndoDelete(ctx context.Context) (taskDomain.Task, bool) {
	restored, ok := s.store.UndoDelete()
	if ok {
		s.enqueue(ctx, taskDomain.TaskRestored, restored)
	}
	return restored, ok
}

func (s *TaskService) DismissLastDeleted(ctx context.Context) {
	s.store.DismissLastDeleted()
}

// IngestRecords da de alta registros sueltos que llegan fuera de la carga
// inicial. Pasan por la misma normalización y por la semántica de Add.
func (s *TaskService) IngestRecords(ctx context.Context, records []taskDomain.RawRecord) []taskDomain.Task {
	created := make([]taskDomain.Task, 0, len(records))
	for _, raw := range records {
		created = append(created, s.CreateTask(ctx, taskDomain.DecodeRecord(raw)))
	}
	return created
}

// GetTask es la única lectura que informa de ids inexistentes.
func (s *TaskService) GetTask(ctx context.Context, id string) (taskDomain.Task, error) {
	t, ok := s.store.Get(id)
	if !ok {
		return taskDomain.Task{}, taskDomain.ErrTaskNotFound
	}
	return t, nil
}

func (s *TaskService) Dashboard(ctx context.Context) Dashboard {
	return s.store.Dashboard()
}

// ListTasks filtra la vista ordenada sin alterar el ranking y la pagina.
func (s *TaskService) ListTasks(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination) []taskDomain.DerivedTask {
	ranked := s.store.Dashboard().Derived

	filtered := make([]taskDomain.DerivedTask, 0, len(ranked))
	for _, dt := range ranked {
		if taskDomain.MatchTask(dt.Task, criteria) {
			filtered = append(filtered, dt)
		}
	}
	return sharedQuery.Page(filtered, pagination)
}

// Forecast recalcula la previsión con otro horizonte sobre el throughput actual.
func (s *TaskService) Forecast(ctx context.Context, horizon int) []taskDomain.ForecastPoint {
	return taskDomain.ComputeForecast(s.store.Dashboard().Throughput, horizon)
}

func (s *TaskService) enqueue(ctx context.Context, eventType string, t taskDomain.Task) {
	if s.outbox == nil {
		return
	}

	evt := sharedDomain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "task",
		AggregateID:   t.ID,
		EventType:     eventType,
		Payload:       t, // El payload es la entidad completa
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.outbox.Append(ctx, evt); err != nil {
		// El evento es solo notificación: el estado ya cambió y no se revierte.
		s.log.Warn("Failed to enqueue task event",
			zap.String("event_type", eventType),
			zap.String("task_id", t.ID),
			zap.Error(err),
		)
		return
	}
	s.log.Debug("Task event enqueued", zap.String("event_type", eventType), zap.String("task_id", t.ID))
}
