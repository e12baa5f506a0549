package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	sharedEvents "github.com/davicafu/salesboard/internal/shared/events"
	sharedBus "github.com/davicafu/salesboard/internal/shared/infra/platform/bus"
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/davicafu/salesboard/pkg/utils"
)

// IngestHandler acepta registros sueltos y los deja en el topic de ingesta.
// El alta real la hace el consumidor, igual que con productores externos.
type IngestHandler struct {
	bus sharedBus.EventBus
	now func() time.Time
}

func NewIngestHandler(bus sharedBus.EventBus) *IngestHandler {
	return &IngestHandler{bus: bus, now: time.Now}
}

// IngestTasks endpoint POST /ingest. Cuerpo: un registro o un array de registros.
// 202 solo confirma la publicación: con el bus en memoria, si el buffer del
// consumidor (INGEST_BUFFER) está lleno el evento se pierde.
func (h *IngestHandler) IngestTasks(c *gin.Context) {
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	evt := &sharedEvents.IntegrationEvent{
		Type:      taskDomain.TaskIngest,
		Timestamp: h.now().UTC(),
		Data:      raw,
	}
	if err := h.bus.Publish(c.Request.Context(), evt); err != nil {
		utils.SendError(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	c.Status(http.StatusAccepted)
}

// RegisterIngestRoutes registra la entrada HTTP al topic de ingesta.
func RegisterIngestRoutes(r *gin.Engine, handler *IngestHandler) {
	r.POST("/ingest", handler.IngestTasks)
}
