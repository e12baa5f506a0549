package http

import "github.com/gin-gonic/gin"

// RegisterTaskRoutes registra las rutas HTTP para el dominio de Tareas.
func RegisterTaskRoutes(r *gin.Engine, handler *TaskHandler) {
	r.GET("/dashboard", handler.GetDashboard) // Vista completa: tareas, ranking y métricas
	r.GET("/forecast", handler.GetForecast)   // Previsión con horizonte a medida

	tasks := r.Group("/tasks")
	{
		tasks.POST("", handler.CreateTask)                // Crear una nueva tarea
		tasks.GET("", handler.ListTasks)                  // Listar la vista ordenada con filtros
		tasks.GET("/:id", handler.GetTask)                // Obtener una tarea con sus derivados
		tasks.PATCH("/:id", handler.UpdateTask)           // Actualización parcial
		tasks.DELETE("/:id", handler.DeleteTask)          // Eliminar (queda en lastDeleted)
		tasks.POST("/undo", handler.UndoDelete)           // Restaurar la última eliminada
		tasks.POST("/dismiss", handler.DismissLastDeleted) // Descartar el deshacer
	}
}
