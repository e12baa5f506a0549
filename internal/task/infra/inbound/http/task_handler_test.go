package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/salesboard/internal/shared/events"
	"github.com/davicafu/salesboard/internal/task/application"
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/davicafu/salesboard/tests/mocks"
)

func setupRouter(t *testing.T) (*gin.Engine, *application.TaskService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := application.NewTaskService(application.NewTaskStore(), &mocks.RecordingOutbox{}, zap.NewNop())
	router := gin.New()
	RegisterTaskRoutes(router, NewTaskHandler(service))
	return router, service
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateTask_Handler(t *testing.T) {
	// Arrange
	router, _ := setupRouter(t)

	// Act
	w := doRequest(router, http.MethodPost, "/tasks", `{"title":"Demo Acme","revenue":400,"timeTaken":0,"priority":"High"}`)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	task := decodeData[taskDomain.Task](t, w)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, 1.0, task.TimeTaken)
	assert.Equal(t, taskDomain.PriorityHigh, task.Priority)
	assert.Equal(t, taskDomain.TaskTodo, task.Status)
}

func TestCreateTask_Handler_Invalid(t *testing.T) {
	router, _ := setupRouter(t)

	cases := map[string]string{
		"sin título":         `{"revenue":1}`,
		"prioridad inválida": `{"title":"x","priority":"Urgent"}`,
		"estado inválido":    `{"title":"x","status":"Archived"}`,
		"json roto":          `{"title":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/tasks", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestUpdateTask_Handler(t *testing.T) {
	// Arrange
	router, service := setupRouter(t)
	task := service.CreateTask(context.Background(), taskDomain.Task{Title: "a"})

	// Act
	w := doRequest(router, http.MethodPatch, "/tasks/"+task.ID, `{"status":"Done","notes":"cerrada"}`)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeData[taskDomain.Task](t, w)
	assert.Equal(t, taskDomain.TaskDone, updated.Status)
	assert.Equal(t, "cerrada", updated.Notes)
	assert.NotNil(t, updated.CompletedAt)
}

func TestUpdateTask_Handler_UnknownIDIsSilent(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPatch, "/tasks/ghost", `{"title":"x"}`)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestUpdateTask_Handler_InvalidStatus(t *testing.T) {
	router, service := setupRouter(t)
	task := service.CreateTask(context.Background(), taskDomain.Task{Title: "a"})

	w := doRequest(router, http.MethodPatch, "/tasks/"+task.ID, `{"status":"Closed"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUndoDismiss_Handler(t *testing.T) {
	// Arrange
	router, service := setupRouter(t)
	task := service.CreateTask(context.Background(), taskDomain.Task{Title: "a"})

	// Act & Assert
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodDelete, "/tasks/"+task.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/tasks/"+task.ID, "").Code)

	w := doRequest(router, http.MethodPost, "/tasks/undo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, task.ID, decodeData[taskDomain.Task](t, w).ID)

	// Sin nada que deshacer: no-op silencioso
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodPost, "/tasks/undo", "").Code)

	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodDelete, "/tasks/"+task.ID, "").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodPost, "/tasks/dismiss", "").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodPost, "/tasks/undo", "").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodDelete, "/tasks/ghost", "").Code)
}

func TestGetTask_Handler_Derived(t *testing.T) {
	router, service := setupRouter(t)
	task := service.CreateTask(context.Background(), taskDomain.Task{Title: "a", Revenue: 90, TimeTaken: 3, Priority: taskDomain.PriorityMedium})

	w := doRequest(router, http.MethodGet, "/tasks/"+task.ID, "")

	require.Equal(t, http.StatusOK, w.Code)
	derived := decodeData[taskDomain.DerivedTask](t, w)
	require.NotNil(t, derived.ROI)
	assert.Equal(t, 30.0, *derived.ROI)
	assert.Equal(t, 2, derived.PriorityWeight)
}

func TestListTasks_Handler(t *testing.T) {
	// Arrange
	router, service := setupRouter(t)
	ctx := context.Background()
	service.CreateTask(ctx, taskDomain.Task{Title: "Acme renewal", Revenue: 100, TimeTaken: 1, Priority: taskDomain.PriorityHigh})
	service.CreateTask(ctx, taskDomain.Task{Title: "Globex demo", Revenue: 500, TimeTaken: 1, Priority: taskDomain.PriorityLow})
	service.CreateTask(ctx, taskDomain.Task{Title: "Acme upsell", Revenue: 300, TimeTaken: 1, Priority: taskDomain.PriorityLow})

	// Act
	all := doRequest(router, http.MethodGet, "/tasks", "")
	acme := doRequest(router, http.MethodGet, "/tasks?title=acme", "")
	low := doRequest(router, http.MethodGet, "/tasks?priority=Low&limit=1&offset=1", "")
	bad := doRequest(router, http.MethodGet, "/tasks?created_from=yesterday", "")

	// Assert
	require.Equal(t, http.StatusOK, all.Code)
	ranked := decodeData[[]taskDomain.DerivedTask](t, all)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Globex demo", ranked[0].Title)

	titles := decodeData[[]taskDomain.DerivedTask](t, acme)
	require.Len(t, titles, 2)
	assert.Equal(t, "Acme upsell", titles[0].Title)

	page := decodeData[[]taskDomain.DerivedTask](t, low)
	require.Len(t, page, 1)
	assert.Equal(t, "Acme upsell", page[0].Title)

	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestListTasks_Handler_Pagination(t *testing.T) {
	// Arrange
	router, service := setupRouter(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		service.CreateTask(ctx, taskDomain.Task{Title: title, Revenue: 10, TimeTaken: 1})
	}

	// Act
	huge := doRequest(router, http.MethodGet, "/tasks?limit=9223372036854775807&offset=1", "")

	// Assert
	require.Equal(t, http.StatusOK, huge.Code)
	assert.Len(t, decodeData[[]taskDomain.DerivedTask](t, huge), 2)

	for _, query := range []string{"limit=-1", "limit=abc", "offset=-2", "offset=1.5"} {
		w := doRequest(router, http.MethodGet, "/tasks?"+query, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestDashboardAndForecast_Handler(t *testing.T) {
	// Arrange
	router, service := setupRouter(t)
	service.CreateTask(context.Background(), taskDomain.Task{Title: "a", Revenue: 1000, TimeTaken: 2, Status: taskDomain.TaskDone})

	// Act
	dash := doRequest(router, http.MethodGet, "/dashboard", "")
	forecast := doRequest(router, http.MethodGet, "/forecast?horizon=3", "")
	badForecast := doRequest(router, http.MethodGet, "/forecast?horizon=-1", "")

	// Assert
	require.Equal(t, http.StatusOK, dash.Code)
	view := decodeData[map[string]interface{}](t, dash)
	assert.Contains(t, view, "tasks")
	assert.Contains(t, view, "derived")
	assert.Contains(t, view, "metrics")
	assert.Contains(t, view, "funnel")
	assert.Contains(t, view, "velocity")
	assert.Equal(t, false, view["loading"])
	metrics := view["metrics"].(map[string]interface{})
	assert.Equal(t, 1000.0, metrics["totalRevenue"])
	assert.Equal(t, string(taskDomain.GradeGood), metrics["performanceGrade"], "roi 500 todavía es Good")

	assert.Equal(t, http.StatusOK, forecast.Code)
	assert.Empty(t, decodeData[[]taskDomain.ForecastPoint](t, forecast), "una sola semana no basta para la regresión")
	assert.Equal(t, http.StatusBadRequest, badForecast.Code)
}

func TestIngest_Handler_PublishesEvent(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	bus := new(mocks.MockPublisher)
	bus.On("Publish", mock.Anything, mock.MatchedBy(func(evt *sharedEvents.IntegrationEvent) bool {
		return evt.Type == taskDomain.TaskIngest && strings.Contains(string(evt.Data), "Initech")
	})).Return(nil).Once()
	router := gin.New()
	RegisterIngestRoutes(router, NewIngestHandler(bus))

	// Act
	w := doRequest(router, http.MethodPost, "/ingest", `[{"title":"Initech renewal","revenue":1200}]`)
	empty := doRequest(router, http.MethodPost, "/ingest", "")

	// Assert
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, http.StatusBadRequest, empty.Code)
	bus.AssertExpectations(t)
}
