// en internal/task/application/task_service_test.go
package application

import (
	"context"
	"errors"
	"testing"
	"time"

	sharedDomain "github.com/davicafu/salesboard/internal/shared/domain"
	sharedQuery "github.com/davicafu/salesboard/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/davicafu/salesboard/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*TaskService, *mocks.RecordingOutbox) {
	outbox := &mocks.RecordingOutbox{}
	store := newTestStore(newFakeClock())
	return NewTaskService(store, outbox, zap.NewNop()), outbox
}

func TestCreateTask_Success(t *testing.T) {
	// Arrange
	service, outbox := newTestService()

	// Act
	task := service.CreateTask(context.Background(), taskDomain.Task{Title: "Mi primera tarea", Revenue: 300, TimeTaken: 2})

	// Assert
	assert.Equal(t, "Mi primera tarea", task.Title)

	// Verificar que se creó un evento Outbox
	require.Len(t, outbox.Events, 1)
	assert.Equal(t, taskDomain.TaskCreated, outbox.Events[0].EventType)
	assert.Equal(t, task.ID, outbox.Events[0].AggregateID)
	assert.Equal(t, "task", outbox.Events[0].AggregateType)
	assert.Equal(t, task, outbox.Events[0].Payload)
}

func TestGetTask_NotFound(t *testing.T) {
	// Arrange
	service, _ := newTestService()

	// Act
	_, err := service.GetTask(context.Background(), "nope")

	// Assert
	assert.ErrorIs(t, err, taskDomain.ErrTaskNotFound)
}

func TestTaskLifecycle_EmitsEvents(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, outbox := newTestService()
	task := service.CreateTask(ctx, taskDomain.Task{Title: "ciclo"})

	// Act
	_, ok := service.UpdateTask(ctx, task.ID, taskDomain.Patch{Status: ptr(taskDomain.TaskInProgress)})
	service.DeleteTask(ctx, task.ID)
	_, restored := service.UndoDelete(ctx)

	// Assert
	assert.True(t, ok)
	assert.True(t, restored)
	assert.Equal(t, []string{
		taskDomain.TaskCreated,
		taskDomain.TaskUpdated,
		taskDomain.TaskDeleted,
		taskDomain.TaskRestored,
	}, outbox.EventTypes())
}

func TestNoOps_EmitNothing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, outbox := newTestService()

	// Act
	_, ok := service.UpdateTask(ctx, "ghost", taskDomain.Patch{Title: ptr("x")})
	service.DeleteTask(ctx, "ghost")
	_, restored := service.UndoDelete(ctx)
	service.DismissLastDeleted(ctx)

	// Assert
	assert.False(t, ok)
	assert.False(t, restored)
	assert.Empty(t, outbox.Events)
}

func TestOutboxFailure_DoesNotRollBack(t *testing.T) {
	// Arrange
	outbox := &mocks.RecordingOutbox{Err: errors.New("outbox full")}
	service := NewTaskService(newTestStore(newFakeClock()), outbox, zap.NewNop())

	// Act
	task := service.CreateTask(context.Background(), taskDomain.Task{Title: "se queda"})

	// Assert
	got, err := service.GetTask(context.Background(), task.ID)
	assert.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestNilOutbox(t *testing.T) {
	service := NewTaskService(newTestStore(newFakeClock()), nil, zap.NewNop())

	task := service.CreateTask(context.Background(), taskDomain.Task{Title: "sin eventos"})

	assert.NotEmpty(t, task.ID)
}

func TestIngestRecords_UsesAddSemantics(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := newFakeClock()
	outbox := &mocks.RecordingOutbox{}
	service := NewTaskService(newTestStore(clock), outbox, zap.NewNop())

	// Act
	created := service.IngestRecords(ctx, []taskDomain.RawRecord{
		{"id": "ext-1", "title": "Externa", "revenue": 500.0, "timeTaken": 0.0, "priority": "High", "createdAt": "2020-01-01T00:00:00Z"},
		{"status": "Done"},
	})

	// Assert
	require.Len(t, created, 2)
	assert.Equal(t, "ext-1", created[0].ID)
	assert.Equal(t, 1.0, created[0].TimeTaken)
	assert.True(t, created[0].CreatedAt.Equal(clock.Now()), "createdAt siempre es el momento del alta")
	assert.Equal(t, "Untitled", created[1].Title)
	require.NotNil(t, created[1].CompletedAt)
	assert.True(t, created[1].CompletedAt.Equal(clock.Now()))
	assert.Len(t, outbox.Events, 2)
}

func TestListTasks_FilterAndPaginateKeepRanking(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, _ := newTestService()
	service.CreateTask(ctx, taskDomain.Task{Title: "low roi", Revenue: 10, TimeTaken: 1, Status: taskDomain.TaskTodo})
	service.CreateTask(ctx, taskDomain.Task{Title: "high roi", Revenue: 900, TimeTaken: 1, Status: taskDomain.TaskTodo})
	service.CreateTask(ctx, taskDomain.Task{Title: "mid roi", Revenue: 100, TimeTaken: 1, Status: taskDomain.TaskTodo})
	service.CreateTask(ctx, taskDomain.Task{Title: "done", Revenue: 5000, TimeTaken: 1, Status: taskDomain.TaskDone})

	// Act
	todo := service.ListTasks(ctx, sharedDomain.And(taskDomain.StatusCriteria{Status: taskDomain.TaskTodo}), sharedQuery.OffsetPagination{})
	page := service.ListTasks(ctx, taskDomain.StatusCriteria{Status: taskDomain.TaskTodo}, sharedQuery.OffsetPagination{Limit: 1, Offset: 1})
	beyond := service.ListTasks(ctx, nil, sharedQuery.OffsetPagination{Limit: 10, Offset: 10})

	// Assert
	require.Len(t, todo, 3)
	assert.Equal(t, "high roi", todo[0].Title)
	assert.Equal(t, "mid roi", todo[1].Title)
	assert.Equal(t, "low roi", todo[2].Title)
	require.Len(t, page, 1)
	assert.Equal(t, "mid roi", page[0].Title)
	assert.Empty(t, beyond)
}

func TestForecast_CustomHorizon(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, _ := newTestService()
	assert.Empty(t, service.Forecast(ctx, 6), "sin serie semanal no hay previsión")

	week := 7 * 24 * time.Hour
	start := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	for i, revenue := range []float64{100, 200, 300} {
		completed := start.Add(time.Duration(i) * week)
		service.CreateTask(ctx, taskDomain.Task{Title: "cerrada", Revenue: revenue, TimeTaken: 1, Status: taskDomain.TaskDone, CompletedAt: &completed})
	}

	// Act
	forecast := service.Forecast(ctx, 2)

	// Assert
	assert.Equal(t, []taskDomain.ForecastPoint{{Week: "+1", Revenue: 400}, {Week: "+2", Revenue: 500}}, forecast)
	assert.Len(t, service.Dashboard(ctx).Forecast, taskDomain.DefaultForecastHorizon)
}
