// en internal/task/infra/inbound/http/task_handler.go
package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	sharedDomain "github.com/davicafu/salesboard/internal/shared/domain"
	sharedQuery "github.com/davicafu/salesboard/internal/shared/infra/platform/query"
	"github.com/davicafu/salesboard/internal/task/application"
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/davicafu/salesboard/pkg/utils"
)

// TaskHandler encapsula los endpoints HTTP relacionados con Task.
type TaskHandler struct {
	service *application.TaskService
}

// NewTaskHandler crea un nuevo TaskHandler.
func NewTaskHandler(service *application.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// --- Vista ---

// GetDashboard endpoint GET /dashboard
func (h *TaskHandler) GetDashboard(c *gin.Context) {
	utils.SendSuccess(c, http.StatusOK, h.service.Dashboard(c.Request.Context()))
}

// GetForecast endpoint GET /forecast?horizon=N
func (h *TaskHandler) GetForecast(c *gin.Context) {
	horizon, err := strconv.Atoi(c.DefaultQuery("horizon", strconv.Itoa(taskDomain.DefaultForecastHorizon)))
	if err != nil || horizon <= 0 {
		utils.SendBadRequest(c, "horizon must be a positive integer")
		return
	}
	utils.SendSuccess(c, http.StatusOK, h.service.Forecast(c.Request.Context(), horizon))
}

// --- Handlers CRUD ---

// CreateTask endpoint POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req struct {
		ID          string                `json:"id"`
		Title       string                `json:"title" binding:"required"`
		Revenue     float64               `json:"revenue"`
		TimeTaken   float64               `json:"timeTaken"`
		Priority    taskDomain.Priority   `json:"priority"`
		Status      taskDomain.TaskStatus `json:"status"`
		Notes       string                `json:"notes"`
		CompletedAt *time.Time            `json:"completedAt"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	if req.Priority == "" {
		req.Priority = taskDomain.PriorityMedium
	}
	if req.Status == "" {
		req.Status = taskDomain.TaskTodo
	}
	if err := validateEnums(&req.Priority, &req.Status); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	task := h.service.CreateTask(c.Request.Context(), taskDomain.Task{
		ID:          req.ID,
		Title:       req.Title,
		Revenue:     req.Revenue,
		TimeTaken:   req.TimeTaken,
		Priority:    req.Priority,
		Status:      req.Status,
		Notes:       req.Notes,
		CompletedAt: req.CompletedAt,
	})

	utils.SendSuccess(c, http.StatusCreated, task)
}

// GetTask endpoint GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.SendNotFound(c, err.Error())
		return
	}
	utils.SendSuccess(c, http.StatusOK, taskDomain.WithDerived(task))
}

// UpdateTask endpoint PATCH /tasks/:id
// Un id inexistente no es un error: responde 204 sin cuerpo.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var patch taskDomain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}
	if err := validateEnums(patch.Priority, patch.Status); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	task, ok := h.service.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	utils.SendSuccess(c, http.StatusOK, task)
}

// DeleteTask endpoint DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	h.service.DeleteTask(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// UndoDelete endpoint POST /tasks/undo
func (h *TaskHandler) UndoDelete(c *gin.Context) {
	task, ok := h.service.UndoDelete(c.Request.Context())
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	utils.SendSuccess(c, http.StatusOK, task)
}

// DismissLastDeleted endpoint POST /tasks/dismiss
func (h *TaskHandler) DismissLastDeleted(c *gin.Context) {
	h.service.DismissLastDeleted(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// ListTasks endpoint GET /tasks con filtros y paginación sobre la vista ordenada
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var criterias []sharedDomain.Criteria

	// --- Filtros desde query params ---
	if title := c.Query("title"); title != "" {
		criterias = append(criterias, taskDomain.TitleLikeCriteria{Title: title})
	}
	if status := c.Query("status"); status != "" {
		criterias = append(criterias, taskDomain.StatusCriteria{Status: taskDomain.TaskStatus(status)})
	}
	if priority := c.Query("priority"); priority != "" {
		criterias = append(criterias, taskDomain.PriorityCriteria{Priority: taskDomain.Priority(priority)})
	}

	var createdRange taskDomain.CreatedAtRangeCriteria
	for param, dst := range map[string]**time.Time{"created_from": &createdRange.Start, "created_to": &createdRange.End} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.SendBadRequest(c, fmt.Sprintf("invalid %s, use RFC3339", param))
			return
		}
		*dst = &ts
	}
	if createdRange.Start != nil || createdRange.End != nil {
		criterias = append(criterias, createdRange)
	}

	// --- Paginación ---
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		utils.SendBadRequest(c, "limit must be a non-negative integer")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		utils.SendBadRequest(c, "offset must be a non-negative integer")
		return
	}
	pagination := sharedQuery.OffsetPagination{Limit: limit, Offset: offset}

	tasks := h.service.ListTasks(c.Request.Context(), sharedDomain.And(criterias...), pagination)
	utils.SendSuccess(c, http.StatusOK, tasks)
}

func validateEnums(priority *taskDomain.Priority, status *taskDomain.TaskStatus) error {
	if priority != nil && !priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", taskDomain.ErrInvalidTask, *priority)
	}
	if status != nil && !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", taskDomain.ErrInvalidTask, *status)
	}
	return nil
}
