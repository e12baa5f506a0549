package domain

import (
	"math"
	"time"

	sharedBus "github.com/davicafu/salesboard/internal/shared/infra/platform/bus"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// MinTimeTaken es el valor al que se corrige cualquier timeTaken no positivo.
const MinTimeTaken = 1.0

// Task es el registro canónico que guarda el store.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Revenue     float64    `json:"revenue"`
	TimeTaken   float64    `json:"timeTaken"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Patch describe una actualización parcial. Los campos nil no se tocan.
// ID y CreatedAt son inmutables, por eso no aparecen aquí.
type Patch struct {
	Title       *string     `json:"title,omitempty"`
	Revenue     *float64    `json:"revenue,omitempty"`
	TimeTaken   *float64    `json:"timeTaken,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

func (t *Task) PartitionKey() string {
	return t.ID
}

// --- Métodos de dominio ---

// Clone devuelve una copia que no comparte el puntero de CompletedAt.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		t.CompletedAt = &completed
	}
	return t
}

// Sanitize corrige en el sitio los valores numéricos inválidos (clamp, nunca rechazo).
func (t *Task) Sanitize() {
	t.TimeTaken = ClampTimeTaken(t.TimeTaken)
	t.Revenue = SanitizeRevenue(t.Revenue)
}

// Apply mezcla el patch sobre la tarea. La primera transición a Done desde
// otro estado fija CompletedAt a now salvo que el propio patch traiga uno.
func (t *Task) Apply(p Patch, now time.Time) {
	previous := t.Status

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Revenue != nil {
		t.Revenue = *p.Revenue
	}
	if p.TimeTaken != nil {
		t.TimeTaken = *p.TimeTaken
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.CompletedAt != nil {
		completed := p.CompletedAt.UTC()
		t.CompletedAt = &completed
	} else if p.Status != nil && *p.Status == TaskDone && previous != TaskDone {
		completed := now.UTC()
		t.CompletedAt = &completed
	}

	t.Sanitize()
}

// ClampTimeTaken garantiza el invariante timeTaken > 0.
func ClampTimeTaken(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return MinTimeTaken
	}
	return v
}

// SanitizeRevenue sustituye un revenue no finito por 0.
func SanitizeRevenue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Verificación estática para asegurar que Task implementa la interfaz
var _ sharedBus.Keyer = (*Task)(nil)
