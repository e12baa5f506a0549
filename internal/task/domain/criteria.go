package domain

import (
	"fmt"
	"strings"
	"time"

	// Importamos el "sistema" de Criterios genérico y le damos un alias
	shared "github.com/davicafu/salesboard/internal/shared/domain"
)

// --- Criterios Específicos para el Dominio Task ---

// StatusCriteria busca tareas por su estado (Todo, In Progress, Done).
type StatusCriteria struct {
	Status TaskStatus
}

// ToConditions implementa la interfaz shared.Criteria.
func (c StatusCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: "status", Op: shared.OpEq, Value: c.Status},
	}
}

// -----------------------------------------------------------

// PriorityCriteria busca tareas de una prioridad concreta.
type PriorityCriteria struct {
	Priority Priority
}

// ToConditions implementa la interfaz shared.Criteria.
func (c PriorityCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: "priority", Op: shared.OpEq, Value: c.Priority},
	}
}

// -----------------------------------------------------------

// TitleLikeCriteria busca tareas cuyo título contenga un texto.
type TitleLikeCriteria struct {
	Title string
}

// ToConditions implementa la interfaz shared.Criteria.
func (c TitleLikeCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: "title", Op: shared.OpILike, Value: "%" + c.Title + "%"},
	}
}

// -----------------------------------------------------------

// CreatedAtRangeCriteria busca tareas creadas en un rango de fechas.
// Usamos punteros para que los filtros de fecha de inicio y fin sean opcionales.
type CreatedAtRangeCriteria struct {
	Start *time.Time
	End   *time.Time
}

// ToConditions implementa la interfaz shared.Criteria.
func (c CreatedAtRangeCriteria) ToConditions() []shared.Criterion {
	var conds []shared.Criterion
	if c.Start != nil {
		conds = append(conds, shared.Criterion{Field: "created_at", Op: shared.OpGte, Value: *c.Start})
	}
	if c.End != nil {
		conds = append(conds, shared.Criterion{Field: "created_at", Op: shared.OpLte, Value: *c.End})
	}
	return conds
}

// -----------------------------------------------------------

// MatchTask evalúa las condiciones en memoria. Todas deben cumplirse (AND).
// Un criterio nil acepta cualquier tarea.
func MatchTask(t Task, criteria shared.Criteria) bool {
	if criteria == nil {
		return true
	}
	for _, cond := range criteria.ToConditions() {
		if !matchCondition(t, cond) {
			return false
		}
	}
	return true
}

func matchCondition(t Task, cond shared.Criterion) bool {
	switch strings.ToLower(cond.Field) {
	case "status":
		return string(t.Status) == fmt.Sprintf("%v", cond.Value)
	case "priority":
		return string(t.Priority) == fmt.Sprintf("%v", cond.Value)
	case "title":
		pattern, ok := cond.Value.(string)
		if !ok {
			return false
		}
		pattern = strings.Trim(pattern, "%")
		if cond.Op == shared.OpLike {
			return strings.Contains(t.Title, pattern)
		}
		return strings.Contains(strings.ToLower(t.Title), strings.ToLower(pattern))
	case "created_at":
		bound, ok := cond.Value.(time.Time)
		if !ok {
			return false
		}
		switch cond.Op {
		case shared.OpGte:
			return !t.CreatedAt.Before(bound)
		case shared.OpLte:
			return !t.CreatedAt.After(bound)
		case shared.OpGt:
			return t.CreatedAt.After(bound)
		case shared.OpLt:
			return t.CreatedAt.Before(bound)
		}
	}
	return false
}
