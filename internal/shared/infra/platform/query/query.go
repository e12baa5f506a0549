package query

// ---------- Tipos de filtrado / paginación / ordenamiento ----------

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// Interfaz genérica para paginación
type Pagination interface{}

// Page recorta una lista ya ordenada según la paginación.
// Un Limit <= 0 significa sin límite.
func Page[T any](items []T, pagination Pagination) []T {
	p, ok := pagination.(OffsetPagination)
	if !ok {
		return items
	}
	start := p.Offset
	if start < 0 {
		start = 0
	}
	if start > len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit > 0 && p.Limit < end-start {
		end = start + p.Limit
	}
	return items[start:end]
}
